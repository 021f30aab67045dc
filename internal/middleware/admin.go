package middleware

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// AdminAuth guards back-office routes with HTTP basic auth. The password is
// checked against a bcrypt hash; an empty hash disables the routes.
type AdminAuth struct {
	user         string
	passwordHash []byte
}

func NewAdminAuth(user, passwordHash string) *AdminAuth {
	return &AdminAuth{user: user, passwordHash: []byte(passwordHash)}
}

func (a *AdminAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(a.passwordHash) == 0 {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Admin access is disabled", r)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(user), []byte(a.user)) != 1 ||
			bcrypt.CompareHashAndPassword(a.passwordHash, []byte(pass)) != nil {
			w.Header().Set("WWW-Authenticate", `Basic realm="nexus-admin"`)
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid admin credentials", r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
