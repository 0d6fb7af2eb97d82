package session

import (
	"context"
	"errors"
)

// ErrNoProvider is returned when a context carries no session provider.
var ErrNoProvider = errors.New("session: no provider in context; wrap the context with session.NewContext")

type ctxKey struct{}

// NewContext returns a copy of ctx carrying p.
func NewContext(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the provider carried by ctx.
func FromContext(ctx context.Context) (*Provider, error) {
	p, ok := ctx.Value(ctxKey{}).(*Provider)
	if !ok || p == nil {
		return nil, ErrNoProvider
	}
	return p, nil
}

// MustFromContext is FromContext for code that cannot run without a
// provider. It panics with ErrNoProvider, which signals a wiring bug.
func MustFromContext(ctx context.Context) *Provider {
	p, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return p
}
