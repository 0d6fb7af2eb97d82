// Package app wires the ServeSoft client, the session provider and the cart
// provider together.
package app

import (
	"context"
	"errors"
	"log/slog"

	"smartbite/cart"
	"smartbite/config"
	"smartbite/servesoft"
	"smartbite/session"
)

type App struct {
	Client  *servesoft.Client
	Session *session.Provider
	Cart    *cart.Provider
}

// New builds the providers on top of a client for cfg.APIURL. Extra client
// options are applied after the token file option.
func New(cfg config.Client, logger *slog.Logger, opts ...servesoft.Option) *App {
	if logger == nil {
		logger = slog.Default()
	}
	var clientOpts []servesoft.Option
	if cfg.TokenFile != "" {
		clientOpts = append(clientOpts, servesoft.WithTokenFile(&servesoft.TokenFile{Path: cfg.TokenFile}))
	}
	clientOpts = append(clientOpts, opts...)

	client := servesoft.New(cfg.APIURL, clientOpts...)
	sessions := session.NewProvider(client, session.WithLogger(logger))
	return &App{
		Client:  client,
		Session: sessions,
		Cart:    cart.NewProvider(client, sessions, cart.WithLogger(logger)),
	}
}

// Start attaches the cart to the session and runs the start-up session
// check, which in turn loads the cart when a session is found.
func (a *App) Start(ctx context.Context) {
	a.Cart.Start(ctx)
	a.Session.Start(ctx)
}

// ErrNoApp is returned when a context carries no App.
var ErrNoApp = errors.New("app: no app in context")

type ctxKey struct{}

// Context returns ctx carrying a and both of its providers.
func (a *App) Context(ctx context.Context) context.Context {
	ctx = context.WithValue(ctx, ctxKey{}, a)
	return cart.NewContext(session.NewContext(ctx, a.Session), a.Cart)
}

// FromContext returns the App carried by ctx.
func FromContext(ctx context.Context) (*App, error) {
	a, ok := ctx.Value(ctxKey{}).(*App)
	if !ok || a == nil {
		return nil, ErrNoApp
	}
	return a, nil
}

func (a *App) Close() {
	a.Cart.Close()
}
