package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/okian/fetchkit/internal/config"
	"github.com/okian/fetchkit/internal/fetch"
	"github.com/okian/fetchkit/internal/session"
	"github.com/okian/fetchkit/internal/transport"
	"github.com/okian/fetchkit/pkg/logger"
	"github.com/okian/fetchkit/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// paramsFlag collects repeated -param key=value pairs.
type paramsFlag fetch.Params

func (p paramsFlag) String() string { return fetch.EncodeQuery(fetch.Params(p)) }

func (p paramsFlag) Set(v string) error {
	k, val, ok := strings.Cut(v, "=")
	if !ok || k == "" {
		return fmt.Errorf("param %q must be key=value", v)
	}
	if prev, exists := p[k]; exists {
		switch t := prev.(type) {
		case []string:
			p[k] = append(t, val)
		default:
			p[k] = []string{fmt.Sprint(t), val}
		}
		return nil
	}
	p[k] = val
	return nil
}

func main() {
	if err := run(); err != nil {
		os.Stderr.WriteString("fetchkit: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run() error {
	params := paramsFlag{}
	var (
		apiName = flag.String("api", "", "Registered API name to call (e.g. nuxt_beers)")
		method  = flag.String("method", http.MethodGet, "HTTP method when -path is used")
		path    = flag.String("path", "", "Request path relative to the base URL")
		id      = flag.String("id", "", "Resource id appended to -path for PUT, PATCH and DELETE")
		body    = flag.String("body", "", "JSON request body")
		token   = flag.String("token", "", "Session token (overrides config)")
		cookie  = flag.String("cookie", "", "Cookie header to read the session token from")
		baseURL = flag.String("base-url", "", "Base URL (overrides config)")
		verbose = flag.Bool("verbose", false, "Enable debug logging")
		stats   = flag.Bool("metrics", false, "Print client metrics to stderr after the request")
	)
	flag.Var(params, "param", "Query parameter key=value (repeatable)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *token != "" {
		cfg.Token = *token
	}

	if err := logger.Init(logger.WithOutput(os.Stderr), logger.WithFormat(logger.Format(cfg.LogFormat))); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	if *verbose {
		cfg.LogLevel = "debug"
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return err
	}
	log := logger.Named("fetchkit")

	tokens, err := tokenSource(cfg, *cookie)
	if err != nil {
		return err
	}

	client := fetch.New(
		fetch.WithBaseURL(cfg.BaseURL),
		fetch.WithTokenSource(tokens),
		fetch.WithHeaders(cfg.Headers),
		fetch.WithDoer(transport.New(transport.WithTimeout(cfg.Timeout()))),
		fetch.WithLogger(log),
		fetch.WithMetrics(metrics.Default()),
	)

	var payload any
	if *body != "" {
		if !json.Valid([]byte(*body)) {
			return errors.New("-body must be valid JSON")
		}
		payload = json.RawMessage(*body)
	}

	resp, err := dispatch(ctx, client, *apiName, strings.ToUpper(*method), *path, *id, fetch.Params(params), payload)
	if resp != nil {
		fmt.Fprintf(os.Stderr, "%d %s\n", resp.StatusCode, http.StatusText(resp.StatusCode))
		os.Stdout.Write(resp.Body)
		if len(resp.Body) > 0 && resp.Body[len(resp.Body)-1] != '\n' {
			os.Stdout.WriteString("\n")
		}
	}
	if *stats {
		if werr := writeMetrics(os.Stderr, metrics.GetRegistry(), "fetchkit_client_"); werr != nil {
			log.Warn(ctx, "failed to write metrics", logger.Error(werr))
		}
	}
	return err
}

// writeMetrics prints every family gathered from g whose name starts with
// prefix in the Prometheus text format.
func writeMetrics(w io.Writer, g prometheus.Gatherer, prefix string) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func dispatch(ctx context.Context, c *fetch.Client, apiName, method, path, id string, params fetch.Params, body any) (*transport.Response, error) {
	if apiName != "" {
		return c.APIByName(ctx, apiName, params, body, fetch.Options{})
	}
	if path == "" {
		return nil, errors.New("either -api or -path is required")
	}
	var rid any
	if id != "" {
		rid = id
	}
	switch method {
	case http.MethodGet:
		return c.Get(ctx, path, params, fetch.Options{})
	case http.MethodPost:
		return c.Post(ctx, path, body, fetch.Options{})
	case http.MethodPut:
		return c.Put(ctx, path, rid, body, fetch.Options{})
	case http.MethodPatch:
		return c.Patch(ctx, path, rid, body, fetch.Options{})
	case http.MethodDelete:
		return c.Delete(ctx, path, rid, fetch.Options{})
	default:
		return c.Fetch(ctx, path, params, body, fetch.Options{Method: method})
	}
}

// tokenSource prefers an explicit token and falls back to the configured
// cookie inside a Cookie header.
func tokenSource(cfg *config.Config, cookieHeader string) (session.TokenSource, error) {
	if cfg.Token != "" || cookieHeader == "" {
		return session.Static(cfg.Token), nil
	}
	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		return nil, fmt.Errorf("invalid -cookie: %w", err)
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	jar.SetCookies(u, cookies)
	return session.Cookie(jar, u, cfg.TokenCookie), nil
}
