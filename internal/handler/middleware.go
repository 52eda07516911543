package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/shakehq/milkshake-api/internal/domain/auth"
	"github.com/shakehq/milkshake-api/internal/domain/customer"
)

type identityKey struct{}

// identityFrom returns the authenticated caller stored by requireAuth.
func identityFrom(ctx context.Context) (*auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*auth.Identity)
	return id, ok
}

// requireAuth verifies the bearer token and stores the caller's identity in
// the request context.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			h.fail(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		identity, err := h.auth.Verify(token)
		if err != nil {
			h.fail(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, identity)
		next(w, r.WithContext(ctx))
	}
}

// requireAdmin is requireAuth plus an admin role check.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return h.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFrom(r.Context())
		if identity == nil || identity.Role != customer.RoleAdmin {
			h.fail(w, http.StatusForbidden, "admin access required")
			return
		}
		next(w, r)
	})
}
