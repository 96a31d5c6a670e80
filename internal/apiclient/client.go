// Package apiclient is a typed client for the collector HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Clark-Hu/figure-collector/internal/currency"
	"github.com/Clark-Hu/figure-collector/internal/domain"
	"github.com/Clark-Hu/figure-collector/internal/stats"
)

const maxResponseBody = 8 << 20

// Client talks to the API with an optional bearer session token.
type Client struct {
	baseURL *url.URL
	token   string
	client  *http.Client
	logger  *slog.Logger
}

// New constructs a client for baseURL, e.g. http://localhost:8080.
func New(baseURL, token string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("parse api url: %q is not absolute", baseURL)
	}
	return &Client{
		baseURL: parsed,
		token:   strings.TrimSpace(token),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger: logger.With("component", "apiclient"),
	}, nil
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = strings.TrimSpace(token)
	return &clone
}

// Session is the answer to a successful login.
type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      domain.User `json:"user"`
}

// Catalog is every series name and figure.
type Catalog struct {
	Series  []string        `json:"series"`
	Figures []domain.Figure `json:"figures"`
}

// OwnedInput creates an owned row. An empty Currency means EUR.
type OwnedInput struct {
	FigureID       string   `json:"figureId"`
	PricePaidCents int64    `json:"pricePaidCents"`
	TaxCents       int64    `json:"taxCents"`
	ShippingCents  int64    `json:"shippingCents"`
	Currency       string   `json:"currency,omitempty"`
	FxPerEUR       *float64 `json:"fxPerEUR,omitempty"`
	Note           *string  `json:"note,omitempty"`
}

// OwnedPatch updates only the non-nil fields.
type OwnedPatch struct {
	PricePaidCents *int64   `json:"pricePaidCents,omitempty"`
	TaxCents       *int64   `json:"taxCents,omitempty"`
	ShippingCents  *int64   `json:"shippingCents,omitempty"`
	Currency       *string  `json:"currency,omitempty"`
	FxPerEUR       *float64 `json:"fxPerEUR,omitempty"`
	Note           *string  `json:"note,omitempty"`
}

// WishInput creates or updates the wishlist entry for FigureID.
type WishInput struct {
	FigureID    string  `json:"figureId"`
	WantAnother bool    `json:"wantAnother"`
	Note        *string `json:"note,omitempty"`
}

func (c *Client) Register(ctx context.Context, email, password string) (domain.User, error) {
	var user domain.User
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, body, &user)
	return user, err
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var session Session
	body := map[string]string{"email": email, "password": password}
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &session)
	return session, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var user domain.User
	err := c.do(ctx, http.MethodGet, "/api/me", nil, nil, &user)
	return user, err
}

func (c *Client) Catalog(ctx context.Context) (Catalog, error) {
	var catalog Catalog
	err := c.do(ctx, http.MethodGet, "/api/catalog", nil, nil, &catalog)
	return catalog, err
}

func (c *Client) FX(ctx context.Context) (currency.DailyRates, error) {
	var daily currency.DailyRates
	err := c.do(ctx, http.MethodGet, "/api/fx", nil, nil, &daily)
	return daily, err
}

func (c *Client) ListOwned(ctx context.Context) ([]domain.Owned, error) {
	var items []domain.Owned
	err := c.do(ctx, http.MethodGet, "/api/owned", nil, nil, &items)
	return items, err
}

func (c *Client) CreateOwned(ctx context.Context, in OwnedInput) (domain.Owned, error) {
	var owned domain.Owned
	err := c.do(ctx, http.MethodPost, "/api/owned", nil, in, &owned)
	return owned, err
}

func (c *Client) UpdateOwned(ctx context.Context, id string, patch OwnedPatch) (domain.Owned, error) {
	var owned domain.Owned
	err := c.do(ctx, http.MethodPatch, "/api/owned/"+id, nil, patch, &owned)
	return owned, err
}

func (c *Client) DeleteOwned(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/owned/"+id, nil, nil, nil)
}

// Summary returns the caller's copies/unique/duplicates counts.
func (c *Client) Summary(ctx context.Context) (stats.Summary, error) {
	var summary stats.Summary
	err := c.do(ctx, http.MethodGet, "/api/owned/summary", nil, nil, &summary)
	return summary, err
}

// OwnedCount is how many copies of figureID the caller owns.
func (c *Client) OwnedCount(ctx context.Context, figureID string) (int64, error) {
	var resp struct {
		Count int64 `json:"count"`
	}
	err := c.do(ctx, http.MethodGet, "/api/owned/count", url.Values{"figureId": {figureID}}, nil, &resp)
	return resp.Count, err
}

func (c *Client) ListWishlist(ctx context.Context) ([]domain.Wish, error) {
	var items []domain.Wish
	err := c.do(ctx, http.MethodGet, "/api/wishlist", nil, nil, &items)
	return items, err
}

func (c *Client) UpsertWish(ctx context.Context, in WishInput) (domain.Wish, error) {
	var wish domain.Wish
	err := c.do(ctx, http.MethodPost, "/api/wishlist", nil, in, &wish)
	return wish, err
}

func (c *Client) DeleteWish(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/wishlist/"+id, nil, nil, nil)
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	rel := &url.URL{Path: c.baseURL.Path + path}
	if query != nil {
		rel.RawQuery = query.Encode()
	}
	endpoint := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope errorEnvelope
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Code != "" {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		if resp.StatusCode >= 500 {
			c.logger.Warn("api request failed", "method", method, "path", path, "status", resp.StatusCode, "code", apiErr.Code)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	var envelope dataEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}
