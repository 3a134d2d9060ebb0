// internal/middleware/auth.go
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/baharkarakas/recipe-api/internal/api/httpx"
	apperr "github.com/baharkarakas/recipe-api/internal/errors"
	"github.com/baharkarakas/recipe-api/internal/models"
)

// TokenResolver turns an access token into the active user it belongs to.
type TokenResolver interface {
	ResolveAccessToken(ctx context.Context, token string) (models.User, error)
}

type AuthMiddleware struct {
	users TokenResolver
	log   *slog.Logger
}

func NewAuthMiddleware(users TokenResolver, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{users: users, log: log}
}

// Auth requires "Authorization: Bearer <access JWT>" and stores the caller in
// the request context. It runs before any handler touches owned data.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
			m.deny(w, apperr.ErrUnauthorized)
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		u, err := m.users.ResolveAccessToken(r.Context(), token)
		if err != nil {
			m.deny(w, err)
			return
		}
		ctx := WithUser(r.Context(), UserCtx{UserID: u.ID, Email: u.Email, IsStaff: u.IsStaff})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) deny(w http.ResponseWriter, err error) {
	if apperr.CodeOf(err) == apperr.CodeUnauthorized {
		w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	}
	httpx.WriteErr(w, m.log, err)
}
