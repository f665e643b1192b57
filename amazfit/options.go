package amazfit

import "net/http"

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client used for requests.
// If this is not provided, a default http.Client is used.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithBandBaseURL overrides the default base URL for the band data and
// workout endpoints. This is primarily useful for testing.
func WithBandBaseURL(url string) Option {
	return func(client *Client) {
		client.bandBaseURL = url
	}
}

// WithEventsBaseURL overrides the default base URL for the events endpoint.
// This is primarily useful for testing.
func WithEventsBaseURL(url string) Option {
	return func(client *Client) {
		client.eventsBaseURL = url
	}
}

// WithTimeZone sets the IANA time zone sent to endpoints that group readings
// by local day (currently only blood oxygen). Defaults to Europe/Berlin, the
// value the official app sends when no zone is configured.
func WithTimeZone(tz string) Option {
	return func(client *Client) {
		if tz != "" {
			client.timeZone = tz
		}
	}
}

// WithRateLimiting enables or disables the client-side courtesy rate limit.
// This is primarily used for testing.
func WithRateLimiting(enabled bool) Option {
	return func(client *Client) {
		client.rateLimiter.SetAutoLimiting(enabled)
	}
}

// WithPerDayRequests switches the band data fanout from one ranged request to
// one request per calendar day. Some account regions appear to serve ranged
// queries incompletely; the per-day policy trades extra requests for
// completeness.
func WithPerDayRequests(enabled bool) Option {
	return func(client *Client) {
		client.perDayRequests = enabled
	}
}

// WithEventPageLimit sets the page size requested from the events endpoint.
// The default of 1000 matches the official app.
func WithEventPageLimit(limit int) Option {
	return func(client *Client) {
		if limit > 0 {
			client.eventPageLimit = limit
		}
	}
}
