package auth

import "context"

var _ Checker = (*TokenService)(nil)

// Checker reports whether a bearer token belongs to a logged in admin.
type Checker interface {
	IsLogged(ctx context.Context, token string) (bool, error)
}
