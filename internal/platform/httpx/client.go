package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Timeout selects how long a single request may take.
type Timeout int

const (
	Short Timeout = iota
	Normal
	Long
)

func (t Timeout) Duration() time.Duration {
	switch t {
	case Short:
		return 5 * time.Second
	case Long:
		return 30 * time.Second
	default:
		return 10 * time.Second
	}
}

// maxBodyBytes bounds how much of a response body is read into memory.
const maxBodyBytes = 4 << 20

// StatusError is returned for responses with a status code >= 400.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// Client issues GET requests and returns raw response bodies.
// It does not retry. The zero value is not usable; call NewClient.
type Client struct {
	session   *http.Client
	userAgent string
}

func NewClient(userAgent string) *Client {
	return NewClientWith(&http.Client{}, userAgent)
}

// NewClientWith wraps an existing *http.Client (for example httptest's).
// Per-request deadlines come from the Timeout class, not from hc.Timeout.
func NewClientWith(hc *http.Client, userAgent string) *Client {
	return &Client{session: hc, userAgent: userAgent}
}

// Get fetches url and returns the response body.
func (c *Client) Get(ctx context.Context, url string, timeout Timeout) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout.Duration())
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}

func (c *Client) newRequest(ctx context.Context, method string, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, &StatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}
