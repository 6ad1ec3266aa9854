package middleware

import (
	"context"
	"net/http"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Decision is the tagged outcome of an authorization check. The
// 401/403/500 distinction is deliberate: a valid session with the
// wrong role is not the same as no session, and neither is the same
// as the guard itself failing.
type Decision int

const (
	DecisionAuthorized Decision = iota
	DecisionUnauthenticated
	DecisionForbidden
	DecisionGuardError
)

// UserLookup resolves the current user record for the admin check
type UserLookup func(ctx context.Context, id uuid.UUID) (*domain.User, error)

// AdmitAdmin resolves the identity attached by RequireSignedIn against
// the user store and classifies the outcome
func AdmitAdmin(ctx context.Context, lookup UserLookup) Decision {
	userID, ok := GetUserID(ctx)
	if !ok {
		return DecisionUnauthenticated
	}

	user, err := lookup(ctx, userID)
	if err != nil {
		return DecisionGuardError
	}

	if !user.IsAdmin() {
		return DecisionForbidden
	}

	return DecisionAuthorized
}

// RequireAdmin ensures the authenticated user holds the admin role.
// The role is read from the store on every request rather than from
// the token, so a demoted admin loses access without re-issuing
// tokens; that lookup is what makes the 500 branch possible.
func RequireAdmin(lookup UserLookup, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch AdmitAdmin(r.Context(), lookup) {
			case DecisionAuthorized:
				next.ServeHTTP(w, r)
			case DecisionUnauthenticated:
				logger.Warn("Admin check reached without identity in context")
				RespondWithError(w, http.StatusUnauthorized, "unauthorized")
			case DecisionForbidden:
				logger.Warn("Non-admin user attempted to access admin endpoint",
					zap.String("path", r.URL.Path),
				)
				RespondWithError(w, http.StatusForbidden, "admins only")
			case DecisionGuardError:
				logger.Error("Admin guard failed to resolve user")
				RespondWithError(w, http.StatusInternalServerError, "internal server error")
			}
		})
	}
}
