package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAdminAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name   string
		hash   string
		user   string
		pass   string
		noAuth bool
		want   int
	}{
		{"valid", string(hash), "admin", "hunter2", false, http.StatusOK},
		{"wrong password", string(hash), "admin", "nope", false, http.StatusUnauthorized},
		{"wrong user", string(hash), "root", "hunter2", false, http.StatusUnauthorized},
		{"no credentials", string(hash), "", "", true, http.StatusUnauthorized},
		{"disabled", "", "admin", "hunter2", false, http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			auth := NewAdminAuth("admin", tc.hash)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/inquiries", nil)
			if !tc.noAuth {
				req.SetBasicAuth(tc.user, tc.pass)
			}
			rr := httptest.NewRecorder()
			auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rr, req)

			assert.Equal(t, tc.want, rr.Code)
			if tc.want == http.StatusUnauthorized {
				assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
			}
		})
	}
}
