package middlewares

import (
	"log"
	"net/http"
	"strings"

	"github.com/infinitystore/backend/app/helpers"
	"github.com/unrolled/render"
)

type TokenVerifier interface {
	Verify(raw string) (helpers.AuthUser, error)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// VerifyToken rejects requests without a valid bearer token and stores the
// token's identity in the request context.
func VerifyToken(tokens TokenVerifier, rnd *render.Render) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Access denied: no token provided."})
				return
			}

			user, err := tokens.Verify(raw)
			if err != nil {
				log.Printf("VerifyToken: rejected token on %s: %v", r.URL.Path, err)
				_ = rnd.JSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid or expired token."})
				return
			}

			next.ServeHTTP(w, r.WithContext(helpers.WithAuthUser(r.Context(), user)))
		})
	}
}
