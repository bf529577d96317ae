// Package confluence is a client for the two page operations the report
// generator needs: reading a page's storage body with its version, and
// writing it back with the incremented version.
//
// The write carries version+1 and no conflict retry: a concurrent external
// edit between fetch and write silently loses one side's change. Only one
// writer is assumed system-wide.
package confluence

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PageSnapshot is one fetched page state: the storage-format body, the
// title, and the version the next write must increment.
type PageSnapshot struct {
	Content string
	Title   string
	Version int
}

// Client talks to the Confluence REST API for a single page.
type Client struct {
	http     *http.Client
	baseURL  string
	username string
	apiToken string
	pageID   string
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient creates a Confluence client bound to one page.
func NewClient(baseURL, username, apiToken, pageID string, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:  strings.TrimRight(baseURL, "/"),
		username: username,
		apiToken: apiToken,
		pageID:   pageID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// pageResponse mirrors the fields of the content API response we read.
type pageResponse struct {
	Title string `json:"title"`
	Body  struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
}

// GetPage fetches the current page snapshot.
func (c *Client) GetPage(ctx context.Context) (*PageSnapshot, error) {
	url := fmt.Sprintf("%s/rest/api/content/%s?expand=body.storage,version", c.baseURL, c.pageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("confluence: create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("confluence: fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("confluence: fetch page: HTTP %d: %s", resp.StatusCode, errorDetail(body))
	}

	var page pageResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("confluence: decode page: %w", err)
	}

	return &PageSnapshot{
		Content: page.Body.Storage.Value,
		Title:   page.Title,
		Version: page.Version.Number,
	}, nil
}

// UpdatePage writes new content over the page, supplying currentVersion+1.
func (c *Client) UpdatePage(ctx context.Context, title, content string, currentVersion int) error {
	payload := map[string]any{
		"version": map[string]int{"number": currentVersion + 1},
		"title":   title,
		"type":    "page",
		"body": map[string]any{
			"storage": map[string]string{
				"value":          content,
				"representation": "storage",
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("confluence: marshal page update: %w", err)
	}

	url := fmt.Sprintf("%s/rest/api/content/%s", c.baseURL, c.pageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("confluence: create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("confluence: update page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("confluence: update page: HTTP %d: %s", resp.StatusCode, errorDetail(respBody))
	}
	return nil
}

// setHeaders applies basic auth with the account username and API token.
func (c *Client) setHeaders(req *http.Request) {
	token := base64.StdEncoding.EncodeToString([]byte(c.username + ":" + c.apiToken))
	req.Header.Set("Authorization", "Basic "+token)
	req.Header.Set("Content-Type", "application/json")
}

// errorDetail extracts the "message" field from a Confluence error body,
// falling back to a truncated raw body.
func errorDetail(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	text := string(body)
	if len(text) > 500 {
		text = text[:500]
	}
	return text
}
