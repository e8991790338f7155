// Package translate wraps the lingo.dev localization engine. Arbitrary JSON
// payloads go in with a source and target locale and come back with every
// string value translated; nothing is interpreted locally.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://engine.lingo.dev"

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) ChangeBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// Localize translates every string value in content from sourceLocale into
// targetLocale, preserving the payload's structure.
func (c *Client) Localize(ctx context.Context, content json.RawMessage, sourceLocale, targetLocale string) (json.RawMessage, error) {
	body, err := json.Marshal(map[string]any{
		"data": content,
		"locale": map[string]string{
			"source": sourceLocale,
			"target": targetLocale,
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/i18n", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translate: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("translate: unexpected status %d", resp.StatusCode)
	}

	var parsed struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("translate: decode: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("translate: empty response")
	}
	return parsed.Data, nil
}
