package middleware

import (
	"fmt"
	"net/http"

	"github.com/presenzelab/presenze-backend-go/internal/domain/user"
	"github.com/presenzelab/presenze-backend-go/internal/handler/http/response"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/identity"
)

// RequirePermission gates a route on the capability table; role strings
// are never compared directly in handlers.
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := identity.FromContext(r.Context())
			if err != nil {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s'", permission))
				return
			}

			if !user.HasPermission(id.Role, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, id.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
