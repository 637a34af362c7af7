// Package apifootball is a client for the API-Football v3 REST API.
// All requests share one pacing limiter so a batch run never hammers
// the provider, and transient upstream failures (429/5xx, network
// errors, truncated JSON) are retried with exponential backoff before
// giving up on that fetch.
package apifootball

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the API-Football v3 base URL.
	DefaultBaseURL = "https://v3.football.api-sports.io"

	// DefaultTimezone is applied to date-scoped queries.
	DefaultTimezone = "Europe/Belgrade"

	defaultMinInterval = 300 * time.Millisecond
	defaultMaxRetries  = 3
	defaultBackoffBase = 800 * time.Millisecond
	defaultTimeout     = 20 * time.Second
)

// transientStatus are upstream statuses worth retrying.
var transientStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// Client is an API-Football client.
type Client struct {
	baseURL    string
	key        string
	timezone   string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithTimezone sets the timezone attached to date-scoped queries.
func WithTimezone(tz string) ClientOption {
	return func(c *Client) {
		if tz != "" {
			c.timezone = tz
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithMinInterval sets the minimum pause between two requests.
func WithMinInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithRetries sets the attempt cap and the base backoff, which doubles
// after every transient failure.
func WithRetries(max int, backoffBase time.Duration) ClientOption {
	return func(c *Client) {
		if max > 0 {
			c.maxRetries = max
		}
		if backoffBase > 0 {
			c.backoff = backoffBase
		}
	}
}

// NewClient creates an API-Football client. The key is mandatory.
func NewClient(key string, opts ...ClientOption) (*Client, error) {
	if key == "" {
		return nil, errors.New("apifootball: API key is required")
	}

	c := &Client{
		baseURL:  DefaultBaseURL,
		key:      key,
		timezone: DefaultTimezone,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:    rate.NewLimiter(rate.Every(defaultMinInterval), 1),
		maxRetries: defaultMaxRetries,
		backoff:    defaultBackoffBase,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// get performs one paced GET with retries and returns the decoded
// envelope plus the response headers of the successful attempt.
func (c *Client) get(ctx context.Context, path string, params url.Values) (*Envelope, http.Header, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			// base, 2*base, 4*base ... between attempts
			backoff := c.backoff << (attempt - 2)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("rate limiter: %w", err)
		}

		env, header, transient, err := c.doOnce(ctx, u)
		if err == nil {
			return env, header, nil
		}
		if !transient {
			return nil, nil, err
		}
		slog.Warn("upstream request failed",
			"path", path,
			"attempt", attempt,
			"max_attempts", c.maxRetries,
			"error", err)
		lastErr = err
	}
	return nil, nil, fmt.Errorf("request failed after %d attempts: %w", c.maxRetries, lastErr)
}

// doOnce runs a single request. The transient flag tells the caller
// whether retrying can help.
func (c *Client) doOnce(ctx context.Context, u string) (*Envelope, http.Header, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-apisports-key", c.key)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, true, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if transientStatus[resp.StatusCode] {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, nil, true, fmt.Errorf("transient api error %d: %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, nil, false, fmt.Errorf("api error %d: %s", resp.StatusCode, string(body))
	}

	var env Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		// Truncated bodies show up as decode errors; worth a retry.
		return nil, nil, true, fmt.Errorf("decode response: %w", err)
	}
	return &env, resp.Header, false, nil
}
