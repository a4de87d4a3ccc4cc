package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/cors"
)

const corsMaxAge = 600

// CORS allows credentialed cross-origin requests from the given origins.
// "*" allows any origin; the request origin is echoed back because
// browsers refuse a literal "*" on credentialed responses.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}

	origins := normalizeOrigins(allowedOrigins)
	switch {
	case slices.Contains(origins, "*"):
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return true }
	case len(origins) == 0:
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
	default:
		opts.AllowedOrigins = origins
	}
	return cors.Handler(opts)
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			out = append(out, o)
		}
	}
	return out
}
