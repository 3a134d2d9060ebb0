package middleware

import "context"

type userKey struct{}

// UserCtx is the authenticated caller attached to the request context.
type UserCtx struct {
	UserID  int64
	Email   string
	IsStaff bool
}

func (u UserCtx) Role() string {
	if u.IsStaff {
		return RoleStaff
	}
	return RoleUser
}

func WithUser(ctx context.Context, u UserCtx) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func FromCtx(ctx context.Context) (UserCtx, bool) {
	if v := ctx.Value(userKey{}); v != nil {
		if u, ok := v.(UserCtx); ok {
			return u, true
		}
	}
	return UserCtx{}, false
}
