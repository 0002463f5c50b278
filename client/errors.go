package client

import "fmt"

// HTTPError indicates a non-2xx response other than an authentication challenge
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// NetworkError indicates a transport failure (including cancellation)
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// UnauthorizedError is a 401 whose challenge names a scheme we can capture credentials for
type UnauthorizedError struct {
	URL    string
	Scheme Scheme
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized (%s): %s", e.Scheme, e.URL)
}

// UnsupportedChallengeError is a 401 that advertises neither Basic nor Bearer
type UnsupportedChallengeError struct {
	URL       string
	Challenge string
}

func (e *UnsupportedChallengeError) Error() string {
	if e.Challenge == "" {
		return fmt.Sprintf("unauthorized: %s (no WWW-Authenticate challenge)", e.URL)
	}
	return fmt.Sprintf("unauthorized: %s (unsupported challenge %q)", e.URL, e.Challenge)
}
