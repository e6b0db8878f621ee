package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"gitea.jw6.us/james/daygrid/internal/metrics"
)

// Client talks to the provider's events API for one calendar.
type Client struct {
	baseURL    string
	calendarID string
	creds      CredentialProvider
	timeout    time.Duration
}

func NewClient(baseURL, calendarID string, creds CredentialProvider) *Client {
	return &Client{
		baseURL:    baseURL,
		calendarID: calendarID,
		creds:      creds,
		timeout:    15 * time.Second,
	}
}

// listResponse is the provider's paged events payload.
type listResponse struct {
	Items         []Event `json:"items"`
	NextPageToken string  `json:"nextPageToken"`
}

// List fetches all events overlapping [from, to).
func (c *Client) List(ctx context.Context, from, to time.Time) ([]Event, error) {
	defer metrics.ObserveProviderLatency(ctx, "calendar.list", time.Now())

	httpClient, err := c.authedClient(ctx)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("timeMin", from.UTC().Format(time.RFC3339))
	q.Set("timeMax", to.UTC().Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")

	var all []Event
	pageToken := ""
	for {
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}
		endpoint := fmt.Sprintf("%s/calendars/%s/events?%s", c.baseURL, url.PathEscape(c.calendarID), q.Encode())

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("create list request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		var page listResponse
		if err := c.do(httpClient, req, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)

		if page.NextPageToken == "" {
			return all, nil
		}
		pageToken = page.NextPageToken
	}
}

// Create posts a new event and returns the created item.
func (c *Client) Create(ctx context.Context, event Event) (Event, error) {
	defer metrics.ObserveProviderLatency(ctx, "calendar.create", time.Now())

	endpoint := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(c.calendarID))
	return c.write(ctx, http.MethodPost, endpoint, event)
}

// Update replaces the event with the given id and returns the updated item.
func (c *Client) Update(ctx context.Context, id string, event Event) (Event, error) {
	defer metrics.ObserveProviderLatency(ctx, "calendar.update", time.Now())

	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s", c.baseURL, url.PathEscape(c.calendarID), url.PathEscape(id))
	return c.write(ctx, http.MethodPut, endpoint, event)
}

func (c *Client) write(ctx context.Context, method, endpoint string, event Event) (Event, error) {
	httpClient, err := c.authedClient(ctx)
	if err != nil {
		return Event{}, err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return Event{}, fmt.Errorf("marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Event{}, fmt.Errorf("create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	var result Event
	if err := c.do(httpClient, req, &result); err != nil {
		return Event{}, err
	}
	return result, nil
}

// authedClient exchanges the ambient credential for a bearer token and wraps
// it into an HTTP client. The token fetch is the first awaited step of every
// provider interaction.
func (c *Client) authedClient(ctx context.Context) (*http.Client, error) {
	tok, err := c.creds.Token(ctx)
	if err != nil {
		return nil, err
	}
	httpClient := oauth2.NewClient(ctx, oauth2.StaticTokenSource(tok))
	httpClient.Timeout = c.timeout
	return httpClient, nil
}

func (c *Client) do(httpClient *http.Client, req *http.Request, out any) error {
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read calendar response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("calendar API error: %s", resp.Status)
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode calendar response: %w", err)
		}
	}
	return nil
}
