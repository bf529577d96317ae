// Package toggl is a minimal client for the two Toggl Track endpoints the
// report generator needs: the Reports API time-entry search and the core
// API project list.
package toggl

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultAPIURL is the Toggl Track core API base.
	DefaultAPIURL = "https://api.track.toggl.com/api/v9"

	// DefaultReportsAPIURL is the Toggl Reports API base.
	DefaultReportsAPIURL = "https://api.track.toggl.com/reports/api/v3"
)

// TimeEntry is one tracked record returned by the Reports API search.
type TimeEntry struct {
	ID          int64    `json:"id"`
	Description string   `json:"description"`
	Start       string   `json:"start,omitempty"`
	Stop        string   `json:"stop,omitempty"`
	Duration    int64    `json:"duration,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ProjectID   *int64   `json:"project_id"`
}

// Project is one workspace project from the core API.
type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Client talks to the Toggl APIs for a single workspace.
type Client struct {
	http        *http.Client
	apiToken    string
	workspaceID string
	apiURL      string
	reportsURL  string
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

// WithBaseURLs overrides both API bases (used by tests and proxies).
func WithBaseURLs(apiURL, reportsURL string) Option {
	return func(c *Client) {
		c.apiURL = strings.TrimRight(apiURL, "/")
		c.reportsURL = strings.TrimRight(reportsURL, "/")
	}
}

// NewClient creates a Toggl client authenticated with the given API token.
func NewClient(apiToken, workspaceID string, opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiToken:    apiToken,
		workspaceID: workspaceID,
		apiURL:      DefaultAPIURL,
		reportsURL:  DefaultReportsAPIURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TimeEntries fetches tracked records for the date range via the Reports API
// search endpoint. An empty range (start on or after end) returns no entries
// without a network call. A request rejected because start precedes the
// account's earliest retrievable date returns a *RangeError.
func (c *Client) TimeEntries(ctx context.Context, start, end time.Time) ([]TimeEntry, error) {
	if !start.Before(end) {
		return nil, nil
	}

	payload := struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("toggl: marshal search payload: %w", err)
	}

	url := fmt.Sprintf("%s/workspace/%s/search/time_entries", c.reportsURL, c.workspaceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("toggl: create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("toggl: search time entries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("toggl: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if rerr := parseRangeError(resp.StatusCode, respBody); rerr != nil {
			return nil, rerr
		}
		return nil, fmt.Errorf("toggl: search time entries: HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var entries []TimeEntry
	if err := json.Unmarshal(respBody, &entries); err != nil {
		return nil, fmt.Errorf("toggl: decode time entries: %w", err)
	}
	return entries, nil
}

// Projects fetches the workspace's projects as an id-to-name map.
func (c *Client) Projects(ctx context.Context) (map[int64]string, error) {
	url := fmt.Sprintf("%s/workspaces/%s/projects", c.apiURL, c.workspaceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("toggl: create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("toggl: fetch projects: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("toggl: fetch projects: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var projects []Project
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		return nil, fmt.Errorf("toggl: decode projects: %w", err)
	}

	out := make(map[int64]string, len(projects))
	for _, p := range projects {
		out[p.ID] = p.Name
	}
	return out, nil
}

// setHeaders applies Toggl's basic-auth convention: the API token as the
// username with the literal password "api_token".
func (c *Client) setHeaders(req *http.Request) {
	token := base64.StdEncoding.EncodeToString([]byte(c.apiToken + ":api_token"))
	req.Header.Set("Authorization", "Basic "+token)
	req.Header.Set("Content-Type", "application/json")
}

// RangeError is returned when the Reports API rejects a search because the
// requested start date precedes the earliest date the account may retrieve.
// EarliestAllowed carries the boundary parsed out of the rejection so the
// caller can clamp and retry.
type RangeError struct {
	EarliestAllowed time.Time
	Message         string
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("toggl: requested range precedes earliest allowed date %s: %s",
		e.EarliestAllowed.Format("2006-01-02"), e.Message)
}

var isoDateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// parseRangeError recognizes the "start_date must not be earlier than X"
// rejection and extracts X. Returns nil for any other failure shape.
func parseRangeError(status int, body []byte) error {
	if status != http.StatusBadRequest {
		return nil
	}
	text := string(body)
	if !strings.Contains(text, "start_date") {
		return nil
	}
	m := isoDateRe.FindString(text)
	if m == "" {
		return nil
	}
	earliest, err := time.Parse("2006-01-02", m)
	if err != nil {
		return nil
	}
	return &RangeError{
		EarliestAllowed: earliest,
		Message:         strings.TrimSpace(text),
	}
}
