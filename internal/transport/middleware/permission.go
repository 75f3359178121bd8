package middleware

import (
	"log/slog"
	"net/http"

	"github.com/autowerk/garage-management/internal/auth"
)

// PermissionChecker answers (role, module, action) questions; the authorizer
// in internal/auth is the production implementation.
type PermissionChecker interface {
	HasPermission(role auth.Role, module string, action auth.Action) bool
}

// RequirePermission gates a route on the permission table. It expects
// RequireLogin to have run already; without a session it rejects outright,
// and a missing permission row denies.
func RequirePermission(checker PermissionChecker, module string, action auth.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := auth.SessionFromContext(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !checker.HasPermission(auth.Role(sess.Role), module, action) {
				slog.Warn("access denied: insufficient permissions",
					"user_id", sess.UserID,
					"role", sess.Role,
					"module", module,
					"action", action)
				http.Error(w, "Forbidden: insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
