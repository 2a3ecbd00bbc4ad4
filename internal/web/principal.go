package web

import (
	"context"
	"errors"
)

// Principal is the authenticated identity attached to a request context
// by the auth middleware.
type Principal struct {
	UserID uint
	Email  string
	Admin  bool
}

func (p Principal) Role() string {
	if p.Admin {
		return "admin"
	}
	return "user"
}

type contextKey string

const principalContextKey contextKey = "principal"

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, error) {
	p, ok := ctx.Value(principalContextKey).(Principal)
	if !ok {
		return Principal{}, errors.New("principal not found in context")
	}
	return p, nil
}
