package middleware

import (
	"context"
	"net/http"

	"storefront/internal/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// RequireSignedIn verifies the session token and attaches the resolved
// identity to the request context. The token is carried raw in the
// Authorization header, no Bearer prefix. Every failure mode responds
// 401 with the same generic message so the caller learns nothing about
// which part of the token failed.
func RequireSignedIn(codec *auth.Codec, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				logger.Debug("Missing credential header")
				RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			userID, err := codec.Verify(tokenString)
			if err != nil {
				logger.Debug("Token verification failed", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)

			logger.Debug("User authenticated", zap.String("user_id", userID.String()))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user identity from the request context
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}
