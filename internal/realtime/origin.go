package realtime

import (
	"log/slog"
	"net/http"
	"strings"
)

// newCheckOrigin accepts requests without an Origin header (non-browser
// clients) and requests whose origin is in allowed. A "*" entry accepts
// every origin.
func newCheckOrigin(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	wildcard := false
	for _, o := range allowed {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			wildcard = true
		}
		set[o] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || wildcard {
			return true
		}
		if _, ok := set[strings.TrimRight(origin, "/")]; ok {
			return true
		}
		slog.Warn("websocket origin rejected", "origin", origin, "remote_addr", r.RemoteAddr)
		return false
	}
}
