package cart

import (
	"context"
	"log/slog"
	"sync"

	"smartbite/servesoft"
	"smartbite/session"
	"smartbite/state"
)

// Sessions is what the cart needs from the session provider.
type Sessions interface {
	Current() *session.Session
	Subscribe(fn session.Listener) (unsubscribe func())
}

type Provider struct {
	api      servesoft.CartAPI
	sessions Sessions
	log      *slog.Logger
	cart     *state.Store[Snapshot]

	mu          sync.Mutex
	ctx         context.Context
	unsubscribe func()
}

type Option func(*Provider)

func WithLogger(l *slog.Logger) Option {
	return func(p *Provider) { p.log = l }
}

func NewProvider(api servesoft.CartAPI, sessions Sessions, opts ...Option) *Provider {
	p := &Provider{
		api:      api,
		sessions: sessions,
		log:      slog.Default(),
		cart:     state.New(Snapshot{}),
		ctx:      context.Background(),
	}
	for _, o := range opts {
		o(p)
	}
	p.log = p.log.With("component", "cart")
	return p
}

// Start begins following the session: the cart is loaded now if a session
// exists, reloaded whenever a session is set, and cleared when it goes
// away. ctx bounds the reloads triggered by session changes. Calling Start
// again replaces the previous subscription.
func (p *Provider) Start(ctx context.Context) {
	p.mu.Lock()
	if p.unsubscribe != nil {
		p.unsubscribe()
	}
	p.ctx = ctx
	p.unsubscribe = p.sessions.Subscribe(p.onSession)
	p.mu.Unlock()

	if p.sessions.Current() != nil {
		p.RefreshCart(ctx)
	} else {
		p.reset()
	}
}

// Close stops following the session.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
}

func (p *Provider) onSession(old, new *session.Session) {
	switch {
	case new != nil:
		p.mu.Lock()
		ctx := p.ctx
		p.mu.Unlock()
		p.RefreshCart(ctx)
	case old != nil:
		p.reset()
	}
}

func (p *Provider) reset() { p.cart.Set(Snapshot{}) }

// Snapshot returns the current cart. The Items slice is a copy.
func (p *Provider) Snapshot() Snapshot {
	s := p.cart.Get()
	s.Items = append([]Item(nil), s.Items...)
	return s
}

func (p *Provider) Items() []Item { return p.Snapshot().Items }

func (p *Provider) Total() float64 { return p.cart.Get().Total }

// ItemCount is computed from the current items on every call.
func (p *Provider) ItemCount() int { return p.cart.Get().ItemCount() }

// Subscribe registers fn for cart changes.
func (p *Provider) Subscribe(fn state.Listener[Snapshot]) (unsubscribe func()) {
	return p.cart.Subscribe(fn)
}

// RefreshCart replaces the local cart with the backend's. Without a session
// the cart is simply emptied. A failed fetch also empties it.
func (p *Provider) RefreshCart(ctx context.Context) {
	if p.sessions.Current() == nil {
		p.reset()
		return
	}

	raw, err := p.api.GetCart(ctx)
	if err != nil {
		p.log.Error("failed to fetch cart", "err", err)
		p.reset()
		return
	}
	items := make([]Item, 0, len(raw.Items))
	for _, l := range raw.Items {
		items = append(items, fromLine(l))
	}
	p.cart.Set(Snapshot{Items: items, Total: raw.Total})
}

// AddItem adds one unit of item.ID. item.Quantity is ignored.
func (p *Provider) AddItem(ctx context.Context, item Item) {
	id, err := parseItemID(item.ID)
	if err != nil {
		p.log.Error("failed to add item to cart", "item", item.ID, "err", err)
		return
	}
	if err := p.api.AddToCart(ctx, id, 1); err != nil {
		p.log.Error("failed to add item to cart", "item", item.ID, "err", err)
		return
	}
	p.RefreshCart(ctx)
}

func (p *Provider) RemoveItem(ctx context.Context, id string) {
	itemID, err := parseItemID(id)
	if err != nil {
		p.log.Error("failed to remove item from cart", "item", id, "err", err)
		return
	}
	if err := p.api.RemoveFromCart(ctx, itemID); err != nil {
		p.log.Error("failed to remove item from cart", "item", id, "err", err)
		return
	}
	p.RefreshCart(ctx)
}

// UpdateQuantity sets a line's quantity by removing it and adding it back
// with the new quantity. A quantity of zero or less removes the line. If the
// removal succeeds and the re-add fails the line stays removed.
func (p *Provider) UpdateQuantity(ctx context.Context, id string, quantity int) {
	if quantity <= 0 {
		p.RemoveItem(ctx, id)
		return
	}

	lineID, err := parseItemID(id)
	if err == nil {
		var itemID int
		itemID, err = parseItemID(baseItemID(id))
		if err == nil {
			err = p.api.RemoveFromCart(ctx, lineID)
			if err == nil {
				err = p.api.AddToCart(ctx, itemID, quantity)
			}
		}
	}
	if err != nil {
		p.log.Error("failed to update quantity", "item", id, "quantity", quantity, "err", err)
		return
	}
	p.RefreshCart(ctx)
}

func (p *Provider) ClearCart(ctx context.Context) {
	if err := p.api.ClearCart(ctx); err != nil {
		p.log.Error("failed to clear cart", "err", err)
		return
	}
	p.RefreshCart(ctx)
}
