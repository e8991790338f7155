// Package extract wraps the Tavily page-extraction REST API.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.tavily.com"

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

// Extraction is the scraped page content plus display metadata.
type Extraction struct {
	URL        string   `json:"url"`
	RawContent string   `json:"raw_content"`
	Favicon    string   `json:"favicon,omitempty"`
	Images     []string `json:"images,omitempty"`
}

// Extract pulls the raw content of a single page.
func (c *Client) Extract(ctx context.Context, pageURL string) (Extraction, error) {
	body, err := json.Marshal(map[string]any{"urls": []string{pageURL}})
	if err != nil {
		return Extraction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return Extraction{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return Extraction{}, fmt.Errorf("tavily extract: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Extraction{}, fmt.Errorf("tavily extract: unexpected status %d", resp.StatusCode)
	}

	var parsed struct {
		Results []Extraction `json:"results"`
		Failed  []struct {
			URL   string `json:"url"`
			Error string `json:"error"`
		} `json:"failed_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Extraction{}, fmt.Errorf("tavily extract: decode: %w", err)
	}
	if len(parsed.Results) == 0 {
		if len(parsed.Failed) > 0 {
			return Extraction{}, fmt.Errorf("tavily extract: %s", parsed.Failed[0].Error)
		}
		return Extraction{}, fmt.Errorf("tavily extract: no results")
	}
	return parsed.Results[0], nil
}
