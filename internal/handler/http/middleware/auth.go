package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/presenzelab/presenze-backend-go/internal/handler/http/response"
	"github.com/presenzelab/presenze-backend-go/internal/pkg/identity"
)

// AuthRequired rejects requests whose token did not verify or whose
// claims do not resolve to a known identity shape.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.Unauthorized(w, "missing access token")
				return
			}

			if _, err := identity.FromContext(r.Context()); err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
