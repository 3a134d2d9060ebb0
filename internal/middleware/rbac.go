package middleware

import (
	"net/http"

	"github.com/baharkarakas/recipe-api/internal/api/httpx"
	apperr "github.com/baharkarakas/recipe-api/internal/errors"
)

const (
	RoleUser  = "user"
	RoleStaff = "staff"
)

// RBAC lets through authenticated callers holding one of roles. It must be
// mounted behind Auth.
func RBAC(roles ...string) func(http.Handler) http.Handler {
	allowed := map[string]struct{}{}
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := FromCtx(r.Context())
			if !ok {
				httpx.WriteError(w, http.StatusUnauthorized, string(apperr.CodeUnauthorized), apperr.ErrUnauthorized.Message, nil)
				return
			}
			if _, ok := allowed[u.Role()]; !ok {
				httpx.WriteError(w, http.StatusForbidden, string(apperr.CodeForbidden), apperr.ErrForbidden.Message, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
