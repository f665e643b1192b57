package amazfit

import (
	"fmt"
	"net/http"
	"time"
)

// ConfigError indicates the client was constructed without a required
// credential. Both the app token and the user id must be extracted manually
// before the client can be used.
type ConfigError struct {
	Missing string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("amazfit: missing required %s", e.Missing)
}

// RangeError indicates a query was given a date range whose end precedes its
// start. It is returned before any request is issued.
type RangeError struct {
	Start time.Time
	End   time.Time
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("amazfit: invalid date range: end %s before start %s",
		e.End.Format(dateLayout), e.Start.Format(dateLayout))
}

// AuthError represents an authentication failure (401, 403). App tokens
// expire out-of-band; the only remedy is extracting a fresh one.
type AuthError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	msg := fmt.Sprintf("amazfit auth error (%d): %s", e.StatusCode, e.Message)
	if e.Err != nil {
		msg += fmt.Sprintf(" - %v", e.Err)
	}
	return msg
}

// Unwrap implements errors.Unwrap.
func (e *AuthError) Unwrap() error {
	return e.Err
}

// TransportError represents a network-level failure before any usable
// response was received. The client never retries.
type TransportError struct {
	URL string
	Err error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("amazfit transport error at %s: %v", e.URL, e.Err)
}

// Unwrap implements errors.Unwrap.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// APIError represents an error returned by the remote service: an HTTP error
// status, or a response envelope carrying a non-success code.
type APIError struct {
	StatusCode int
	Code       int // envelope code when the HTTP status was 200
	Message    string
	URL        string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("amazfit api error: %d - %s at %s", e.StatusCode, e.Message, e.URL)
	}
	return fmt.Sprintf("amazfit api error: code %d - %s at %s", e.Code, e.Message, e.URL)
}

// Unwrap implements errors.Unwrap.
func (e *APIError) Unwrap() error {
	return e.Err
}

// ParseError indicates a response payload did not have the expected shape.
// Field names the missing or mismatched field in the upstream wire format.
type ParseError struct {
	Endpoint string
	Field    string
	Err      error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("amazfit: %s response missing required field %q", e.Endpoint, e.Field)
	}
	msg := fmt.Sprintf("amazfit: unexpected %s response shape", e.Endpoint)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// mapHTTPError is a helper to convert an unsuccessful HTTP response to an
// appropriate custom error.
func mapHTTPError(resp *http.Response, body []byte) error {
	baseErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    string(body),
		URL:        resp.Request.URL.String(),
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{
			StatusCode: resp.StatusCode,
			Message:    "app token rejected or expired",
			Err:        baseErr,
		}
	default:
		return baseErr
	}
}
