package httpclient

import (
	"errors"
	"fmt"
)

var (
	// ErrAborted matches every request that was cancelled before a
	// response arrived, whether by the caller or by the client timeout.
	ErrAborted = errors.New("request aborted")
	// ErrTimeout matches requests cancelled because their time budget ran out.
	ErrTimeout = fmt.Errorf("%w: timeout", ErrAborted)
	// ErrNetwork matches transport failures (DNS, refused connections, resets).
	ErrNetwork = errors.New("network error")
)

// RequestError describes a request that never produced an HTTP response.
// It matches its Kind (ErrTimeout, ErrAborted or ErrNetwork) and the
// underlying cause with errors.Is.
type RequestError struct {
	Method string
	URL    string
	Kind   error
	Err    error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Method, e.URL, e.Kind, e.Err)
}

func (e *RequestError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	Status int
	// Body is the backend's message or error field when the response was
	// JSON, otherwise the raw response text.
	Body string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Body)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return 0
}
