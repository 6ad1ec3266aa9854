package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func lookupReturning(user *domain.User, err error) UserLookup {
	return func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
		return user, err
	}
}

func adminRequest(userID *uuid.UUID) *http.Request {
	req := httptest.NewRequest("GET", "/admin", nil)
	if userID != nil {
		ctx := context.WithValue(req.Context(), UserIDKey, *userID)
		req = req.WithContext(ctx)
	}
	return req
}

func TestAdmitAdmin_Decisions(t *testing.T) {
	userID := uuid.New()
	ctx := context.WithValue(context.Background(), UserIDKey, userID)

	tests := []struct {
		name   string
		ctx    context.Context
		lookup UserLookup
		want   Decision
	}{
		{
			name:   "admin role is authorized",
			ctx:    ctx,
			lookup: lookupReturning(&domain.User{ID: userID, Role: domain.RoleAdmin}, nil),
			want:   DecisionAuthorized,
		},
		{
			name:   "customer role is forbidden",
			ctx:    ctx,
			lookup: lookupReturning(&domain.User{ID: userID, Role: domain.RoleCustomer}, nil),
			want:   DecisionForbidden,
		},
		{
			name:   "lookup failure is a guard error",
			ctx:    ctx,
			lookup: lookupReturning(nil, errors.New("store unavailable")),
			want:   DecisionGuardError,
		},
		{
			name:   "missing identity is unauthenticated",
			ctx:    context.Background(),
			lookup: lookupReturning(&domain.User{ID: userID, Role: domain.RoleAdmin}, nil),
			want:   DecisionUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AdmitAdmin(tt.ctx, tt.lookup))
		})
	}
}

// The three failure modes must stay distinguishable on the wire:
// 401 for no session, 403 for the wrong role, 500 for a broken guard.
func TestRequireAdmin_StatusCodes(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		identity   *uuid.UUID
		lookup     UserLookup
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "admin passes through",
			identity:   &userID,
			lookup:     lookupReturning(&domain.User{ID: userID, Role: domain.RoleAdmin}, nil),
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "customer gets 403",
			identity:   &userID,
			lookup:     lookupReturning(&domain.User{ID: userID, Role: domain.RoleCustomer}, nil),
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "lookup failure gets 500",
			identity:   &userID,
			lookup:     lookupReturning(nil, errors.New("store unavailable")),
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "missing identity gets 401",
			identity:   nil,
			lookup:     lookupReturning(&domain.User{ID: userID, Role: domain.RoleAdmin}, nil),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := RequireAdmin(tt.lookup, zap.NewNop())

			nextCalled := false
			handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			}))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, adminRequest(tt.identity))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
		})
	}
}
