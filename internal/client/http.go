package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/groblegark/depgraph/internal/model"
)

// DefaultTimeout bounds a single issue fetch when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// HTTPClient implements Source against the tracker's XML issue views
// (the "/si/tracker.issueviews:issue-xml/KEY/KEY.xml" endpoint).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient creates a new client targeting the tracker at the given base
// URL (e.g. "https://tracker.example.com"). When token is non-empty, every
// request carries it as a Bearer token. A non-positive timeout falls back to
// DefaultTimeout.
func NewHTTPClient(baseURL, token string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var hc *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		hc = oauth2.NewClient(context.Background(), ts)
	} else {
		hc = &http.Client{}
	}
	hc.Timeout = timeout

	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: hc,
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

// GetIssue fetches and parses the XML view of a single issue.
func (c *HTTPClient) GetIssue(ctx context.Context, key string) (*model.Issue, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.issueURL(key), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", key, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response for %s: %w", key, err)
	}

	if resp.StatusCode >= 400 {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	issue, err := decodeIssue(body)
	if err != nil {
		return nil, fmt.Errorf("issue %s: %w", key, err)
	}
	return issue, nil
}

func (c *HTTPClient) issueURL(key string) string {
	k := url.PathEscape(key)
	return c.baseURL + "/si/tracker.issueviews:issue-xml/" + k + "/" + k + ".xml"
}

// APIError represents an error response from the tracker.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}
