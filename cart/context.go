package cart

import (
	"context"
	"errors"
)

// ErrNoProvider is returned when a context carries no cart provider.
var ErrNoProvider = errors.New("cart: no provider in context; wrap the context with cart.NewContext")

type ctxKey struct{}

func NewContext(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (*Provider, error) {
	p, ok := ctx.Value(ctxKey{}).(*Provider)
	if !ok || p == nil {
		return nil, ErrNoProvider
	}
	return p, nil
}

// MustFromContext panics with ErrNoProvider when ctx has no provider.
func MustFromContext(ctx context.Context) *Provider {
	p, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return p
}
