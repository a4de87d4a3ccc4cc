package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
)

// RateLimitMessage is the error body of a rejected request.
const RateLimitMessage = "Too many requests, please try again later"

// RateLimitByIP admits at most limit requests per window from each socket
// address. Forwarding headers such as X-Forwarded-For are ignored, so the
// limit cannot be sidestepped by rotating them.
func RateLimitByIP(limit int, window time.Duration) func(http.Handler) http.Handler {
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(keyBySocketIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, RateLimitMessage, nil)
		}),
	)
}

func keyBySocketIP(r *http.Request) (string, error) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr, nil
	}
	return host, nil
}
