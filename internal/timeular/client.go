// Package timeular is a minimal client for the Timeular v3 API: sign-in,
// activity catalog, and time entries for a single day.
package timeular

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Timeular API.
type Client struct {
	BaseURL    string
	APIKey     string
	APISecret  string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL, apiKey, apiSecret string) *Client {
	return &Client{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		APISecret: apiSecret,
		Timeout:   30 * time.Second,
	}
}

// Activity is one catalog entry: a named, colored category of tracked time.
type Activity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TimeEntry is one recorded interval, already normalized to parsed instants.
type TimeEntry struct {
	ActivityID string
	StartedAt  time.Time
	StoppedAt  time.Time
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

// SignIn exchanges the key/secret pair for a bearer token.
func (c *Client) SignIn(ctx context.Context) (string, error) {
	body := map[string]string{
		"apiKey":    c.APIKey,
		"apiSecret": c.APISecret,
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "developer/sign-in", "", body, &resp); err != nil {
		return "", fmt.Errorf("sign-in: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("sign-in: response carried no token")
	}
	return resp.Token, nil
}

// Activities fetches the activity catalog keyed by activity id.
func (c *Client) Activities(ctx context.Context, token string) (map[string]Activity, error) {
	var resp struct {
		Activities []Activity `json:"activities"`
	}
	if err := c.do(ctx, http.MethodGet, "activities", token, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}
	catalog := make(map[string]Activity, len(resp.Activities))
	for _, a := range resp.Activities {
		catalog[a.ID] = a
	}
	return catalog, nil
}

// TimeEntries fetches all entries for one local date (YYYY-MM-DD), covering
// the whole day at millisecond resolution.
func (c *Client) TimeEntries(ctx context.Context, token, date string) ([]TimeEntry, error) {
	start := date + "T00:00:00.000"
	end := date + "T23:59:59.999"
	var resp struct {
		TimeEntries []wireEntry `json:"timeEntries"`
	}
	endpoint := fmt.Sprintf("time-entries/%s/%s", start, end)
	if err := c.do(ctx, http.MethodGet, endpoint, token, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch time entries: %w", err)
	}
	entries := make([]TimeEntry, 0, len(resp.TimeEntries))
	for _, w := range resp.TimeEntries {
		startedAt, err := ParseTimestamp(w.Duration.StartedAt)
		if err != nil {
			return nil, fmt.Errorf("entry for activity %s: %w", w.ActivityID, err)
		}
		stoppedAt, err := ParseTimestamp(w.Duration.StoppedAt)
		if err != nil {
			return nil, fmt.Errorf("entry for activity %s: %w", w.ActivityID, err)
		}
		entries = append(entries, TimeEntry{
			ActivityID: w.ActivityID,
			StartedAt:  startedAt,
			StoppedAt:  stoppedAt,
		})
	}
	return entries, nil
}

type wireEntry struct {
	ActivityID string `json:"activityId"`
	Duration   struct {
		StartedAt string `json:"startedAt"`
		StoppedAt string `json:"stoppedAt"`
	} `json:"duration"`
}

func (c *Client) do(ctx context.Context, method, endpoint, token string, body, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
