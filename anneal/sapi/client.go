package sapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the public SAPI base URL.
const DefaultEndpoint = "https://cloud.dwavesys.com/sapi"

// Defaults for the client knobs.
const (
	DefaultPollInterval = time.Second
	DefaultHTTPTimeout  = 60 * time.Second

	authHeader   = "X-Auth-Token"
	maxErrorBody = 4 << 10
)

// Option configures a Client.
type Option func(*Client)

// WithSolver sets the solver used when anneal.Params.Solver is empty.
func WithSolver(id string) Option { return func(c *Client) { c.solver = id } }

// WithHTTPClient replaces the default otelhttp-instrumented client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// WithLogger sets the logger (logrus' standard logger by default).
func WithLogger(l logrus.FieldLogger) Option { return func(c *Client) { c.log = l } }

// WithPollInterval sets the minimum delay between two status polls.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.pollEvery = d
		}
	}
}

// WithBreaker overrides the circuit breaker settings. Name, IsSuccessful
// and OnStateChange are filled in when left empty.
func WithBreaker(st gobreaker.Settings) Option {
	return func(c *Client) { c.breakerSettings = &st }
}

// Client talks to one SAPI endpoint. It is safe for concurrent use.
type Client struct {
	base            *url.URL
	token           string
	solver          string
	http            *http.Client
	log             logrus.FieldLogger
	pollEvery       time.Duration
	breakerSettings *gobreaker.Settings
	breaker         *gobreaker.CircuitBreaker
}

// New returns a client for endpoint (DefaultEndpoint when empty).
func New(endpoint, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNoToken
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	base, err := url.Parse(strings.TrimRight(endpoint, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("sapi: endpoint %q: %w", endpoint, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("sapi: endpoint %q: unsupported scheme %q", endpoint, base.Scheme)
	}

	c := &Client{
		base:      base,
		token:     token,
		pollEvery: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   DefaultHTTPTimeout,
		}
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	c.log = c.log.WithField("endpoint", base.Host)
	c.breaker = gobreaker.NewCircuitBreaker(c.breakerConfig())

	return c, nil
}

// Name implements anneal.Sampler; it is the default solver id.
func (c *Client) Name() string { return c.solver }

// breakerConfig trips after 5 consecutive server-side failures by default.
func (c *Client) breakerConfig() gobreaker.Settings {
	st := gobreaker.Settings{
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	if c.breakerSettings != nil {
		st = *c.breakerSettings
	}
	if st.Name == "" {
		st.Name = "sapi:" + c.base.Host
	}
	if st.IsSuccessful == nil {
		st.IsSuccessful = func(err error) bool {
			if err == nil || errors.Is(err, context.Canceled) {
				return true
			}
			var he *HTTPError
			if errors.As(err, &he) {
				return !he.Temporary()
			}
			return false
		}
	}
	if st.OnStateChange == nil {
		log := c.log
		st.OnStateChange = func(name string, from, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("circuit breaker state changed")
		}
	}

	return st
}

// do performs one API round trip through the breaker and decodes a JSON
// answer into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, in, out)
	})

	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, in, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("sapi: path %q: %w", path, err)
	}
	target := c.base.ResolveReference(ref)

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("sapi: encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("sapi: build request: %w", err)
	}
	req.Header.Set(authHeader, c.token)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sapi: %s %s: %w", method, target.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{
			Method:     method,
			Path:       target.Path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}
	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("sapi: decode %s %s: %w", method, target.Path, err)
	}

	return nil
}

// errorMessage extracts {"error_msg": "..."} or falls back to the raw body.
func errorMessage(raw []byte) string {
	var e struct {
		ErrorMsg string `json:"error_msg"`
		Message  string `json:"message"`
	}
	if json.Unmarshal(raw, &e) == nil {
		if e.ErrorMsg != "" {
			return e.ErrorMsg
		}
		if e.Message != "" {
			return e.Message
		}
	}

	return strings.TrimSpace(string(raw))
}

// newPoller paces status polls for one problem.
func (c *Client) newPoller() *rate.Limiter {
	return rate.NewLimiter(rate.Every(c.pollEvery), 1)
}

// waitPoll blocks until lim allows the next poll. Wait refuses early when
// the next slot lies past the ctx deadline; that refusal is reported as
// context.DeadlineExceeded so callers see one deadline error either way.
func waitPoll(ctx context.Context, lim *rate.Limiter) error {
	if err := lim.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if _, ok := ctx.Deadline(); ok {
			return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		return err
	}

	return nil
}
