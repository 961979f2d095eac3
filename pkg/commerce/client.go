package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/luisaguirre/cartquotes-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 2048

// OrderItem is one entry of an add-items command.
type OrderItem struct {
	SKUID    string `json:"id"`
	Quantity int    `json:"quantity"`
	SellerID string `json:"seller"`
}

// CartLine is a cart line as re-priced and re-ordered by the commerce engine.
type CartLine struct {
	SKUID        string `json:"id"`
	Name         string `json:"name"`
	Quantity     int    `json:"quantity"`
	SellerID     string `json:"seller"`
	ListPrice    int64  `json:"listPrice"`
	Price        int64  `json:"price"`
	SellingPrice int64  `json:"sellingPrice"`
}

// PriceOverride addresses one line of the engine's positional item-update API.
// Quantity is nil when the line quantity is unchanged.
type PriceOverride struct {
	Index    int   `json:"index"`
	Quantity *int  `json:"quantity"`
	Price    int64 `json:"price"`
}

// Client talks to the checkout/cart engine's order-form APIs.
type Client struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds a commerce client for the given order-form API base URL.
func NewClient(baseURL, authToken string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("commerce base url is required")
	}

	client := &Client{
		baseURL:    trimmed,
		authToken:  strings.TrimSpace(authToken),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// ClearCart removes every item from the target cart.
func (c *Client) ClearCart(ctx context.Context, cartID string) error {
	if err := c.ready(cartID); err != nil {
		return err
	}
	path := fmt.Sprintf("%s/checkout/pub/orderForm/%s/items/removeAll", c.baseURL, url.PathEscape(cartID))
	body := map[string]any{"expectedOrderFormSections": []string{"items"}}
	return c.do(ctx, http.MethodPost, path, body, nil, "clear cart")
}

// AddItems appends the provided items to the cart and returns the cart's
// lines as re-priced and re-ordered by the engine. The returned order is the
// index space for subsequent price overrides.
func (c *Client) AddItems(ctx context.Context, cartID string, items []OrderItem) ([]CartLine, error) {
	if err := c.ready(cartID); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("%s/checkout/pub/orderForm/%s/items", c.baseURL, url.PathEscape(cartID))
	body := map[string]any{
		"expectedOrderFormSections": []string{"items"},
		"orderItems":                items,
	}
	var resp struct {
		Items []CartLine `json:"items"`
	}
	if err := c.do(ctx, http.MethodPost, path, body, &resp, "add items"); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// OverridePrices replaces the engine-computed prices on the addressed lines.
// Requires the store's manual-price setting to be enabled.
func (c *Client) OverridePrices(ctx context.Context, cartID string, overrides []PriceOverride) error {
	if err := c.ready(cartID); err != nil {
		return err
	}
	if len(overrides) == 0 {
		return nil
	}
	path := fmt.Sprintf("%s/checkout/pub/orderForm/%s/items/update", c.baseURL, url.PathEscape(cartID))
	body := map[string]any{"orderItems": overrides}
	return c.do(ctx, http.MethodPost, path, body, nil, "override prices")
}

// SetCustomData replays one app's custom fields onto the cart.
func (c *Client) SetCustomData(ctx context.Context, cartID, appID string, fields map[string]string) error {
	if err := c.ready(cartID); err != nil {
		return err
	}
	if strings.TrimSpace(appID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "custom data app id is required")
	}
	path := fmt.Sprintf("%s/checkout/pub/orderForm/%s/customData/%s", c.baseURL, url.PathEscape(cartID), url.PathEscape(appID))
	return c.do(ctx, http.MethodPut, path, fields, nil, "set custom data")
}

// GetCheckoutConfig fetches the engine's order-form configuration document.
// The document is kept opaque so updates can write it back unmodified apart
// from the flipped flag.
func (c *Client) GetCheckoutConfig(ctx context.Context) (map[string]any, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	path := fmt.Sprintf("%s/checkout/pvt/configuration/orderForm", c.baseURL)
	var cfg map[string]any
	if err := c.do(ctx, http.MethodGet, path, nil, &cfg, "get checkout config"); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UpdateCheckoutConfig writes the configuration document back to the engine.
func (c *Client) UpdateCheckoutConfig(ctx context.Context, cfg map[string]any) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if cfg == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout config is required")
	}
	path := fmt.Sprintf("%s/checkout/pvt/configuration/orderForm", c.baseURL)
	return c.do(ctx, http.MethodPost, path, cfg, nil, "update checkout config")
}

func (c *Client) ready(cartID string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "commerce client not configured")
	}
	if strings.TrimSpace(cartID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, action string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal "+action+" request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build "+action+" request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authToken != "" {
		req.Header.Set("Proxy-Authorization", c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+action+" request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			action+" request failed",
		)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+action+" response")
	}
	return nil
}
