// Package fetch builds verb helpers that merge per-call options over a
// default snapshot and hand the result to a transport.Doer.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/okian/fetchkit/internal/registry"
	"github.com/okian/fetchkit/internal/session"
	"github.com/okian/fetchkit/internal/transport"
	"github.com/okian/fetchkit/pkg/logger"
	"github.com/okian/fetchkit/pkg/metrics"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "https://api.nuxtjs.dev"

// adhocLabel tags requests that did not go through the registry.
const adhocLabel = "adhoc"

// Client issues requests sharing one defaults snapshot taken at New.
type Client struct {
	baseURL  string
	tokens   session.TokenSource
	headers  map[string]string
	doer     transport.Doer
	resolver registry.Resolver
	logger   logger.Logger
	metrics  *metrics.Manager

	defaults Options
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithBaseURL sets the base URL every relative path is resolved against.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithTokenSource sets where the session token is read from.
func WithTokenSource(ts session.TokenSource) Option {
	return func(c *Client) {
		if ts != nil {
			c.tokens = ts
		}
	}
}

// WithHeaders adds default headers. They override the built-in defaults.
func WithHeaders(h map[string]string) Option {
	return func(c *Client) {
		for k, v := range h {
			c.headers[k] = v
		}
	}
}

// WithDoer replaces the request primitive.
func WithDoer(d transport.Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.doer = d
		}
	}
}

// WithRegistry replaces the endpoint resolver used by API.
func WithRegistry(r registry.Resolver) Option {
	return func(c *Client) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records request metrics on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// New builds a Client. The session token is read once here; later token
// changes need a new Client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		tokens:   session.None(),
		headers:  map[string]string{},
		doer:     transport.New(),
		resolver: registry.Static{},
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	if tok, ok := c.tokens.Token(); ok {
		headers["Authorization"] = "Bearer " + tok
	}
	for k, v := range c.headers {
		headers[k] = v
	}
	c.defaults = Options{BaseURL: c.baseURL, Headers: headers}
	return c
}

// Defaults returns a copy of the defaults snapshot.
func (c *Client) Defaults() Options {
	return Merge(c.defaults, Options{})
}

// Fetch merges opts over the defaults, attaches body when non-nil, appends
// params as a query string and dispatches.
func (c *Client) Fetch(ctx context.Context, path string, params Params, body any, opts Options) (*transport.Response, error) {
	return c.fetch(ctx, adhocLabel, path, params, body, opts)
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string, params Params, opts Options) (*transport.Response, error) {
	opts.Method = http.MethodGet
	return c.fetch(ctx, adhocLabel, path, params, nil, opts)
}

// Post sends a POST request with body.
func (c *Client) Post(ctx context.Context, path string, body any, opts Options) (*transport.Response, error) {
	opts.Method = http.MethodPost
	return c.fetch(ctx, adhocLabel, path, nil, body, opts)
}

// Put replaces the resource at path/id.
func (c *Client) Put(ctx context.Context, path string, id, body any, opts Options) (*transport.Response, error) {
	return c.withID(ctx, http.MethodPut, path, id, body, opts)
}

// Patch partially updates the resource at path/id.
func (c *Client) Patch(ctx context.Context, path string, id, body any, opts Options) (*transport.Response, error) {
	return c.withID(ctx, http.MethodPatch, path, id, body, opts)
}

// Delete removes the resource at path/id.
func (c *Client) Delete(ctx context.Context, path string, id any, opts Options) (*transport.Response, error) {
	return c.withID(ctx, http.MethodDelete, path, id, nil, opts)
}

// API dispatches the registered endpoint name. Only the descriptor's method
// and URL are used; its Headers and Options are not applied.
func (c *Client) API(ctx context.Context, name registry.Name, params Params, body any, opts Options) (*transport.Response, error) {
	ep, ok := c.resolver.Lookup(name)
	if !ok {
		c.metrics.ClientError("unknown_api")
		return nil, fmt.Errorf("%w: %s", registry.ErrUnknownAPI, name)
	}
	opts.Method = ep.Method
	return c.fetch(ctx, name.String(), ep.URL, params, body, opts)
}

// APIByName is API keyed by the symbolic string form.
func (c *Client) APIByName(ctx context.Context, name string, params Params, body any, opts Options) (*transport.Response, error) {
	n, err := registry.Parse(name)
	if err != nil {
		c.metrics.ClientError("unknown_api")
		return nil, err
	}
	return c.API(ctx, n, params, body, opts)
}

func (c *Client) withID(ctx context.Context, method, path string, id, body any, opts Options) (*transport.Response, error) {
	seg, err := formatID(id)
	if err != nil {
		c.metrics.ClientError("missing_id")
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	opts.Method = method
	return c.fetch(ctx, adhocLabel, path+"/"+seg, nil, body, opts)
}

func (c *Client) fetch(ctx context.Context, label, u string, params Params, body any, opts Options) (*transport.Response, error) {
	if body != nil {
		opts.Body = body
	}
	merged := Merge(c.defaults, opts)
	q := Params(mergeParams(merged.Query, params))
	target := withQuery(u, q)

	req := transport.Request{
		BaseURL: merged.BaseURL,
		Method:  merged.Method,
		Headers: merged.Headers,
		Body:    merged.Body,
		Extra:   merged.Extra,
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}

	c.logger.Debug(ctx, "dispatching request",
		logger.String("api", label),
		logger.String("method", req.Method),
		logger.String("url", target))

	c.metrics.ClientRequestStarted()
	start := time.Now()
	resp, err := c.doer.Do(ctx, target, req)
	elapsed := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	c.metrics.ClientRequestFinished(label, req.Method, strconv.Itoa(status), float64(elapsed.Milliseconds()))

	if err != nil {
		c.metrics.ClientError(errorType(err))
		c.logger.Warn(ctx, "request failed",
			logger.String("api", label),
			logger.String("method", req.Method),
			logger.String("url", target),
			logger.Int("status", status),
			logger.Duration("elapsed", elapsed),
			logger.Error(err))
		return resp, err
	}
	c.logger.Debug(ctx, "request completed",
		logger.String("api", label),
		logger.Int("status", status),
		logger.Duration("elapsed", elapsed))
	return resp, nil
}

func mergeParams(a, b Params) map[string]any {
	if len(a) == 0 {
		return b
	}
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

func formatID(id any) (string, error) {
	rv := reflect.ValueOf(id)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", ErrMissingID
		}
		if _, ok := rv.Interface().(fmt.Stringer); ok {
			break
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return "", ErrMissingID
	}

	var s string
	switch v := rv.Interface().(type) {
	case string:
		s = v
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	if s == "" {
		return "", ErrMissingID
	}
	return url.PathEscape(s), nil
}

func errorType(err error) string {
	switch {
	case transport.StatusCode(err) != 0:
		return "status"
	case errors.Is(err, transport.ErrEncodeBody):
		return "encode"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.Is(err, transport.ErrRequest):
		return "network"
	default:
		return "other"
	}
}
