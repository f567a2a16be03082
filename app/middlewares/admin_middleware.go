package middlewares

import (
	"log"
	"net/http"

	"github.com/infinitystore/backend/app/helpers"
	"github.com/infinitystore/backend/app/models"
	"github.com/unrolled/render"
)

// RequireAdmin must run after VerifyToken.
func RequireAdmin(rnd *render.Render) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := helpers.AuthUserFrom(r.Context())
			if !ok {
				log.Println("RequireAdmin: no authenticated user in context.")
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Access denied: no token provided."})
				return
			}

			if user.Role != models.RoleAdmin {
				log.Printf("RequireAdmin: user %d with role %q attempted to access %s", user.ID, user.Role, r.URL.Path)
				_ = rnd.JSON(w, http.StatusForbidden, map[string]string{"message": "Access denied: administrator role required."})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
