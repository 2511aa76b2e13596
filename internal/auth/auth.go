package auth

import (
	"context"
	"errors"
)

var (
	ErrMissingToken = errors.New("missing access token")
	ErrInvalidToken = errors.New("invalid access token")
)

// User is the authenticated caller as reported by Supabase Auth.
type User struct {
	ID    string
	Email string
}

// Session is the result of a password sign-in.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         User
}

// Verifier turns an access token into the user it was issued for.
type Verifier interface {
	Verify(ctx context.Context, token string) (*User, error)
}

type ctxKey int

const (
	userKey ctxKey = iota
	tokenKey
)

func WithUser(ctx context.Context, user *User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userKey).(*User)
	return user, ok && user != nil
}

// TokenFromContext returns the verified access token of the caller, if any.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}

// ContextGuard resolves the current user from the request context populated
// by the authentication middleware.
type ContextGuard struct{}

func (ContextGuard) CurrentUser(ctx context.Context) (*User, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, nil
	}
	return user, nil
}
