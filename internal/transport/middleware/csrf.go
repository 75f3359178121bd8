package middleware

import (
	"context"
	"net/http"

	"github.com/autowerk/garage-management/internal/auth"
)

const CSRFHeader = "X-CSRF-Token"

// TokenValidator is the slice of the auth service the CSRF gate needs.
type TokenValidator interface {
	ValidateCSRFToken(ctx context.Context, sessionID, presented string) bool
}

// RequireCSRF validates the anti-forgery header on state-changing methods.
// Safe methods pass through untouched.
func RequireCSRF(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			sess, ok := auth.SessionFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !validator.ValidateCSRFToken(r.Context(), sess.ID, r.Header.Get(CSRFHeader)) {
				http.Error(w, "Forbidden: invalid or expired security token", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
