// Package servesoft is the HTTP client for the ServeSoft backend used by the
// session and cart providers.
package servesoft

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

//go:generate mockgen -source=client.go -destination=mock_servesoft/mock_client.go -package=mock_servesoft

// AuthAPI is the part of the backend the session provider talks to.
type AuthAPI interface {
	Verify(ctx context.Context) (*UserEnvelope, error)
	Login(ctx context.Context, creds Credentials) (*UserEnvelope, error)
	Register(ctx context.Context, reg Registration) (*UserEnvelope, error)
	Logout(ctx context.Context) error
}

// CartAPI is the part of the backend the cart provider talks to.
type CartAPI interface {
	GetCart(ctx context.Context) (*Cart, error)
	AddToCart(ctx context.Context, itemID, quantity int) error
	RemoveFromCart(ctx context.Context, itemID int) error
	ClearCart(ctx context.Context) error
}

// ErrNoSession is returned by calls that need a token when none is held.
var ErrNoSession = errors.New("servesoft: no session token")

// Client implements AuthAPI and CartAPI over HTTP. It holds the bearer token
// of the current session; login and register set it, logout drops it.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  *TokenFile

	mu    sync.RWMutex
	token string
}

type Option func(*Client)

// WithHTTPClient replaces the default client. The default has no timeout;
// cancellation comes only from the request context.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithToken starts the client with an existing session token.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTokenFile loads the token from f and writes every change back to it.
func WithTokenFile(f *TokenFile) Option {
	return func(c *Client) { c.tokens = f }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	if c.tokens != nil && c.token == "" {
		c.token = c.tokens.Load()
	}
	return c
}

// Token returns the current session token, or "" when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// SetToken replaces the session token and persists it when a token file is
// configured. A new token is only taken into use once it has been saved, so
// a failed save leaves the previous session in place. Clearing always drops
// the in-memory token.
func (c *Client) SetToken(token string) error {
	if token == "" {
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
		if c.tokens == nil {
			return nil
		}
		return c.tokens.Clear()
	}
	if c.tokens != nil {
		if err := c.tokens.Save(token); err != nil {
			return err
		}
	}
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
	return nil
}

func (c *Client) Verify(ctx context.Context) (*UserEnvelope, error) {
	if c.Token() == "" {
		return nil, ErrNoSession
	}
	var env UserEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/auth/verify", nil, &env); err != nil {
		return nil, fmt.Errorf("verify: %w", err)
	}
	return &env, nil
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*UserEnvelope, error) {
	var env UserEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &env); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := c.SetToken(env.Token); err != nil {
		return nil, fmt.Errorf("login: persist token: %w", err)
	}
	return &env, nil
}

func (c *Client) Register(ctx context.Context, reg Registration) (*UserEnvelope, error) {
	var env UserEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", reg, &env); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := c.SetToken(env.Token); err != nil {
		return nil, fmt.Errorf("register: persist token: %w", err)
	}
	return &env, nil
}

// Logout asks the backend to revoke the token and drops it locally even when
// the backend call fails.
func (c *Client) Logout(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	if terr := c.SetToken(""); terr != nil && err == nil {
		err = terr
	}
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &cart); err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return &cart, nil
}

func (c *Client) AddToCart(ctx context.Context, itemID, quantity int) error {
	body := struct {
		ItemID   int `json:"item_id"`
		Quantity int `json:"quantity"`
	}{itemID, quantity}
	if err := c.do(ctx, http.MethodPost, "/api/cart/items", body, nil); err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return nil
}

// SetCartQuantity changes a line's quantity in one request. Zero removes it.
func (c *Client) SetCartQuantity(ctx context.Context, itemID, quantity int) error {
	body := struct {
		Quantity int `json:"quantity"`
	}{quantity}
	if err := c.do(ctx, http.MethodPut, "/api/cart/items/"+strconv.Itoa(itemID), body, nil); err != nil {
		return fmt.Errorf("set cart quantity: %w", err)
	}
	return nil
}

func (c *Client) RemoveFromCart(ctx context.Context, itemID int) error {
	if err := c.do(ctx, http.MethodDelete, "/api/cart/items/"+strconv.Itoa(itemID), nil, nil); err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

func (c *Client) ClearCart(ctx context.Context) error {
	if err := c.do(ctx, http.MethodDelete, "/api/cart", nil, nil); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Restaurants lists restaurants; filter keys are passed through as query
// parameters (cuisine, town, search, open).
func (c *Client) Restaurants(ctx context.Context, filter url.Values) ([]Restaurant, error) {
	var out struct {
		Restaurants []Restaurant `json:"restaurants"`
	}
	path := "/api/restaurants"
	if len(filter) > 0 {
		path += "?" + filter.Encode()
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return out.Restaurants, nil
}

func (c *Client) Menu(ctx context.Context, restaurantID string) ([]MenuItem, error) {
	var out struct {
		Menu []MenuItem `json:"menu"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/restaurants/"+url.PathEscape(restaurantID)+"/menu", nil, &out); err != nil {
		return nil, fmt.Errorf("menu: %w", err)
	}
	return out.Menu, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&e) == nil {
			apiErr.Message = e.Error
		}
		return apiErr
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
