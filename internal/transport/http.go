// Package transport is the request primitive behind the fetch client.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// RequestIDHeader is stamped on every outbound request that lacks one.
const RequestIDHeader = "X-Request-ID"

const defaultTimeout = 30 * time.Second

// Request is the fully merged set of options handed to a Doer.
type Request struct {
	BaseURL string
	Method  string
	Headers map[string]string
	Body    any
	// Extra carries free-form options. HTTPTransport honours "timeout"
	// (time.Duration) and ignores everything else.
	Extra map[string]any
}

// Doer dispatches one request. url is relative to r.BaseURL unless absolute.
type Doer interface {
	Do(ctx context.Context, url string, r Request) (*Response, error)
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodeBody, err)
	}
	return nil
}

// HTTPTransport implements Doer on top of a resty client.
type HTTPTransport struct {
	client *resty.Client
}

// Option configures an HTTPTransport.
type Option func(*HTTPTransport)

// WithTimeout sets the per-request timeout of the underlying client.
func WithTimeout(d time.Duration) Option {
	return func(t *HTTPTransport) {
		if d > 0 {
			t.client.SetTimeout(d)
		}
	}
}

// WithHTTPClient builds the resty client around c.
func WithHTTPClient(c *http.Client) Option {
	return func(t *HTTPTransport) {
		if c != nil {
			t.client = resty.NewWithClient(c).SetAllowGetMethodPayload(true)
		}
	}
}

// New creates an HTTPTransport with a 30s timeout.
func New(opts ...Option) *HTTPTransport {
	t := &HTTPTransport{
		client: resty.New().
			SetTimeout(defaultTimeout).
			SetAllowGetMethodPayload(true),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Do sends r and reads the whole response. Statuses of 400 and above are
// returned together with a *StatusError.
func (t *HTTPTransport) Do(ctx context.Context, url string, r Request) (*Response, error) {
	full := JoinURL(r.BaseURL, url)

	if d, ok := r.Extra["timeout"].(time.Duration); ok && d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	body, err := encodeBody(r.Body)
	if err != nil {
		return nil, err
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	req := t.client.R().
		SetContext(ctx).
		SetHeaders(r.Headers)
	if body != nil {
		req.SetBody(body)
	}
	if req.Header.Get(RequestIDHeader) == "" {
		req.SetHeader(RequestIDHeader, uuid.NewString())
	}

	resp, err := req.Execute(method, full)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRequest, method, full, err)
	}

	out := &Response{StatusCode: resp.StatusCode(), Header: resp.Header(), Body: resp.Body(), URL: full}
	if resp.IsError() {
		return out, &StatusError{Method: method, URL: full, Response: out}
	}
	return out, nil
}

// JoinURL resolves url against base. Absolute URLs are returned unchanged.
func JoinURL(base, url string) string {
	if base == "" || strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	if url == "" || strings.HasPrefix(url, "?") {
		return base + url
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(url, "/")
}

// encodeBody passes raw payloads through and JSON-encodes everything else.
func encodeBody(v any) (any, error) {
	switch b := v.(type) {
	case nil:
		return nil, nil
	case []byte, string, io.Reader:
		return b, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncodeBody, err)
	}
	return data, nil
}
