package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cmdk/protocol"
)

// Authorizer resolves the Authorization header for an origin
type Authorizer interface {
	AuthorizationHeader(origin string) (string, bool)
}

// Client handles HTTP communication with page servers
type Client struct {
	auth Authorizer
	http *http.Client
}

// Options configures the underlying HTTP client
type Options struct {
	Timeout  time.Duration // zero means no client timeout
	Insecure bool
}

// New creates a client. auth may be nil.
func New(auth Authorizer, opts Options) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.Insecure {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &Client{
		auth: auth,
		http: &http.Client{Timeout: opts.Timeout, Transport: transport},
	}
}

// Request is one call to a page server
type Request struct {
	Method string // defaults to GET
	URL    *url.URL
	Body   any // JSON-encoded when non-nil
}

// IsRead reports whether the request is an idempotent page read
func (r Request) IsRead() bool {
	return r.Method == "" || strings.EqualFold(r.Method, http.MethodGet)
}

// Response is the raw outcome of a request that reached the server
type Response struct {
	URL        *url.URL
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Do sends req with the origin's credential attached. Any status is returned
// as a Response; only transport failures are errors.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := req.URL.String()

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding body for %s: %w", target, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil {
		if authorization, ok := c.auth.AuthorizationHeader(protocol.Origin(req.URL)); ok {
			httpReq.Header.Set("Authorization", authorization)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: target, Err: err}
	}

	log.Printf("client: %s %s -> %d (%s)", method, target, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	return &Response{
		URL:        req.URL,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// FetchPage runs the fetch protocol for one page document
func (c *Client) FetchPage(ctx context.Context, req Request) (protocol.Page, error) {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return protocol.ParsePage(resp.Body)
}

// RunResult is the outcome of a run command the server accepted.
// ChainErr is set when the response body was not a command; the run itself
// still succeeded.
type RunResult struct {
	Next     *protocol.Command
	ChainErr error
}

// Run POSTs a run command. The error is only for requests the server did not
// accept; a nil Next means it sent no further instruction.
func (c *Client) Run(ctx context.Context, target *url.URL, data map[string]any) (RunResult, error) {
	req := Request{Method: http.MethodPost, URL: target}
	if data != nil {
		req.Body = data
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return RunResult{}, err
	}
	if err := checkStatus(resp); err != nil {
		return RunResult{}, err
	}
	if resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(resp.Body)) == 0 {
		return RunResult{}, nil
	}

	next, err := protocol.ParseCommand(resp.Body)
	if err != nil {
		return RunResult{ChainErr: err}, nil
	}
	return RunResult{Next: &next}, nil
}

func checkStatus(resp *Response) error {
	target := resp.URL.String()
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		challenge := strings.Join(resp.Header.Values("WWW-Authenticate"), ", ")
		if scheme, ok := ParseChallenge(challenge); ok {
			return &UnauthorizedError{URL: target, Scheme: scheme}
		}
		return &UnsupportedChallengeError{URL: target, Challenge: challenge}
	case !resp.OK():
		return &HTTPError{URL: target, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	return nil
}
