// Package billing wraps the subscription backend. The server only ever asks
// two questions of it: does this customer hold the pro product, and did they
// use a metered feature.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.autumn.com"

	// ProductPro is the paid tier product identifier.
	ProductPro = "pro"
)

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) ChangeBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("billing: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("billing: unexpected status %d", resp.StatusCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("billing: decode: %w", err)
		}
	}
	return nil
}

// Subscription reports whether the customer holds an active pro product.
func (c *Client) Subscription(ctx context.Context, customerID string) (bool, error) {
	var parsed struct {
		Products []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"products"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/customers/"+customerID, nil, &parsed); err != nil {
		return false, err
	}
	for _, p := range parsed.Products {
		if p.ID == ProductPro && p.Status == "active" {
			return true, nil
		}
	}
	return false, nil
}

// Attach starts a checkout for the pro product and returns the URL the
// customer should be sent to. An empty URL means the product attached without
// payment being needed.
func (c *Client) Attach(ctx context.Context, customerID string) (string, error) {
	var parsed struct {
		CheckoutURL string `json:"checkout_url"`
	}
	err := c.do(ctx, http.MethodPost, "/v1/attach", map[string]any{
		"customer_id": customerID,
		"product_id":  ProductPro,
	}, &parsed)
	if err != nil {
		return "", err
	}
	return parsed.CheckoutURL, nil
}

// Track records one use of a metered feature for the customer.
func (c *Client) Track(ctx context.Context, customerID, featureID string) error {
	return c.do(ctx, http.MethodPost, "/v1/usage", map[string]any{
		"customerId": customerID,
		"featureId":  featureID,
		"quantity":   1,
	}, nil)
}
