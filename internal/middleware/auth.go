package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/iraycd/sway-backend/internal/services/oauth"
	"github.com/iraycd/sway-backend/pkg/httpext"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID returns the authenticated user id placed in the request
// context by RequireAuth.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// WithUserID is exposed for handler tests.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// RequireAuth rejects requests without a valid bearer token and puts
// the token's user id in the request context.
func RequireAuth(auth *oauth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := oauth.ExtractToken(r)
			if tokenString == "" {
				log.Warn().Str("path", r.URL.Path).Msg("Missing authorization token")
				httpext.JsonError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			userID, err := auth.ValidateToken(tokenString)
			if err != nil {
				log.Warn().Str("path", r.URL.Path).Msg("Invalid authorization token")
				httpext.JsonError(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}
