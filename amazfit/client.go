package amazfit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBandBaseURL   = "https://api-mifit.huami.com"
	defaultEventsBaseURL = "https://api-mifit.zepp.com"
	defaultTimeZone      = "Europe/Berlin"

	// The band data endpoints reject requests that do not look like they
	// came from the official app.
	appName   = "com.xiaomi.hm.health"
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// Client is the core Huami/Zepp API client.
type Client struct {
	httpClient    *http.Client
	bandBaseURL   string
	eventsBaseURL string
	token         string
	userID        string
	timeZone      string

	perDayRequests bool
	eventPageLimit int

	rateLimiter *rateLimiter

	// Services used for communicating with the per-metric endpoints.
	Daily     *DailyService
	Summary   *SummaryService
	Stress    *StressService
	Spo2      *Spo2Service
	Pai       *PaiService
	Readiness *ReadinessService
	Workout   *WorkoutService
}

// NewClient creates a new client for the given app token and user id. Both
// are required; they must be extracted manually from the official app or web
// client.
func NewClient(token, userID string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, &ConfigError{Missing: "app token"}
	}
	if userID == "" {
		return nil, &ConfigError{Missing: "user id"}
	}

	c := &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		bandBaseURL:    defaultBandBaseURL,
		eventsBaseURL:  defaultEventsBaseURL,
		token:          token,
		userID:         userID,
		timeZone:       defaultTimeZone,
		eventPageLimit: defaultEventPageLimit,
		rateLimiter:    newRateLimiter(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Daily = &DailyService{client: c}
	c.Summary = &SummaryService{client: c}
	c.Stress = &StressService{client: c}
	c.Spo2 = &Spo2Service{client: c}
	c.Pai = &PaiService{client: c}
	c.Readiness = &ReadinessService{client: c}
	c.Workout = &WorkoutService{client: c}

	return c, nil
}

// Do executes an HTTP request with context, authentication headers and the
// local courtesy rate limit applied. Error status codes are mapped to typed
// errors; network failures surface as *TransportError.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	// Ensure the request has the provided context attached.
	req = req.WithContext(ctx)

	req.Header.Set("apptoken", c.token)
	req.Header.Set("appname", appName)
	req.Header.Set("lang", "en")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("local rate limit wait interrupted: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// If context is canceled or deadline exceeded, return immediately.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request aborted by context: %w", ctx.Err())
		}
		return nil, &TransportError{URL: req.URL.String(), Err: err}
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, mapHTTPError(resp, body)
	}

	return resp, nil
}

// getJSON issues a GET against url and decodes the response body into v.
// endpoint names the logical endpoint for error reporting.
func (c *Client) getJSON(ctx context.Context, endpoint, url string, v any) error {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &ParseError{Endpoint: endpoint, Err: err}
	}
	return nil
}

// Close releases any pooled connections held by the underlying HTTP client.
// The client must not be used after Close.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// redacted renders the client without its app token for any textual output.
func (c *Client) redacted() string {
	return fmt.Sprintf("amazfit.Client{token:<REDACTED> userID:%s bandBaseURL:%s eventsBaseURL:%s}",
		c.userID, c.bandBaseURL, c.eventsBaseURL)
}

// Format implements fmt.Formatter so the app token cannot leak through %v,
// %+v or %s formatting of the client.
func (c *Client) Format(f fmt.State, verb rune) {
	fmt.Fprint(f, c.redacted())
}

// GoString implements fmt.GoStringer for the %#v verb.
func (c *Client) GoString() string {
	return c.redacted()
}
