package middleware

import "net/http"

// RequireStaff allows only callers with the staff flag.
func RequireStaff(next http.Handler) http.Handler {
	return RBAC(RoleStaff)(next)
}
