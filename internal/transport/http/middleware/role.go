package middleware

import (
	"net/http"

	"github.com/cmz-api/internal/domain"
)

// RequireMinRole returns middleware that allows access only to users whose JWT
// role sits at or above the given rung of the role ladder (e.g. domain.RoleStaff).
func RequireMinRole(minRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
				return
			}
			if !domain.RoleAtLeast(claims.Role, minRole) {
				writeJSONError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
