package middleware

import (
	"net"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/iraycd/sway-backend/pkg/httpext"
	"github.com/iraycd/sway-backend/pkg/ratelimit"
)

// RateLimit throttles requests per authenticated user, falling back to
// the remote address for unauthenticated routes.
func RateLimit(limiter ratelimit.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			if !limiter.Allow(r.Context(), key) {
				log.Warn().Str("key", key).Msg("Rate limit exceeded")
				httpext.JsonError(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	if userID, ok := UserID(r.Context()); ok {
		return "user:" + userID.String()
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}
