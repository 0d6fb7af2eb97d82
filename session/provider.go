package session

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"smartbite/servesoft"
	"smartbite/state"

	"github.com/go-playground/validator/v10"
)

// Listener is called with the previous and new session after every change.
// Either may be nil.
type Listener = state.Listener[*Session]

type Provider struct {
	api      servesoft.AuthAPI
	log      *slog.Logger
	validate *validator.Validate

	current *state.Store[*Session]
	loading atomic.Bool
	start   sync.Once
}

type Option func(*Provider)

func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.log = l }
}

// NewProvider returns a provider with no session. It reports Loading until
// Start has finished its verification.
func NewProvider(api servesoft.AuthAPI, opts ...Option) *Provider {
	p := &Provider{
		api:      api,
		log:      slog.Default(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		current:  state.New[*Session](nil),
	}
	for _, o := range opts {
		o(p)
	}
	p.log = p.log.With("component", "session")
	p.loading.Store(true)
	return p
}

// Start verifies an existing backend session. Only the first call does any
// work; later calls return immediately.
func (p *Provider) Start(ctx context.Context) {
	p.start.Do(func() {
		defer p.loading.Store(false)

		env, err := p.api.Verify(ctx)
		if err != nil {
			p.log.Debug("no valid session", "err", err)
			p.current.Set(nil)
			return
		}
		p.current.Set(fromUser(env.User))
	})
}

// Loading reports whether the start-up verification is still pending.
func (p *Provider) Loading() bool { return p.loading.Load() }

// Current returns a copy of the session, or nil when signed out.
func (p *Provider) Current() *Session {
	s := p.current.Get()
	if s == nil {
		return nil
	}
	cp := *s
	return &cp
}

// Subscribe registers fn for session changes.
func (p *Provider) Subscribe(fn Listener) (unsubscribe func()) {
	return p.current.Subscribe(fn)
}

// Login signs in and reports whether it worked. On failure the current
// session is left untouched.
func (p *Provider) Login(ctx context.Context, email, password string) bool {
	env, err := p.api.Login(ctx, servesoft.Credentials{Email: email, Password: password})
	if err != nil {
		p.log.Error("login failed", "email", email, "err", err)
		return false
	}
	p.current.Set(fromUser(env.User))
	return true
}

// Register creates an account and signs in as it. An invalid request is
// rejected before reaching the backend.
func (p *Provider) Register(ctx context.Context, req servesoft.Registration) bool {
	if err := p.validate.Struct(req); err != nil {
		p.log.Error("registration rejected", "email", req.Email, "err", err)
		return false
	}
	env, err := p.api.Register(ctx, req)
	if err != nil {
		p.log.Error("registration failed", "email", req.Email, "err", err)
		return false
	}
	p.current.Set(fromUser(env.User))
	return true
}

// Logout clears the local session and then asks the backend to end it. The
// backend answer does not matter; a pending call never holds the session.
func (p *Provider) Logout(ctx context.Context) {
	p.current.Set(nil)
	if err := p.api.Logout(ctx); err != nil {
		p.log.Debug("backend logout failed", "err", err)
	}
}
