package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bots-against-war/moduli/pkg/result"
	"golang.org/x/sync/singleflight"
)

// Client talks to the platform backend. Safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	headers    http.Header
	coalesce   bool
	group      singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. A nil client is ignored.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		hc := *c.httpClient
		hc.Timeout = d
		c.httpClient = &hc
	}
}

// WithHeader adds a header to every request, e.g. trusted auth headers of a proxy.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Add(key, value)
	}
}

// WithRequestCoalescing makes concurrent identical GET requests share one round trip.
// The shared request runs under the context of the caller that started it.
func WithRequestCoalescing() Option {
	return func(c *Client) {
		c.coalesce = true
	}
}

// New creates a client for the API rooted at baseURL, e.g. "https://host/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.New(slog.DiscardHandler),
		headers:    make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// apiURL joins the base URL with path segments, percent-encoding each, and appends query.
func (c *Client) apiURL(query url.Values, segments ...string) string {
	var sb strings.Builder
	sb.WriteString(c.baseURL)
	for _, s := range segments {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(s))
	}
	if len(query) > 0 {
		sb.WriteByte('?')
		sb.WriteString(query.Encode())
	}
	return sb.String()
}

type response struct {
	status int
	body   []byte
}

type request struct {
	method      string
	url         string
	body        []byte
	contentType string
}

func jsonRequest(method, u string, payload any) (request, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("encode request body: %w", err)
	}
	return request{method: method, url: u, body: data, contentType: "application/json"}, nil
}

func (c *Client) do(ctx context.Context, r request) (response, error) {
	if r.method == http.MethodGet && c.coalesce {
		v, err, shared := c.group.Do(r.url, func() (any, error) {
			return c.roundTrip(ctx, r)
		})
		if err != nil {
			return response{}, err
		}
		if shared {
			c.logger.Debug("coalesced request", "url", r.url)
		}
		return v.(response), nil
	}
	return c.roundTrip(ctx, r)
}

func (c *Client) roundTrip(ctx context.Context, r request) (response, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, body)
	if err != nil {
		return response{}, err
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("api request failed", "method", r.method, "url", r.url, "error", err)
		return response{}, err
	}
	status, data, err := readResponse(resp)
	if err != nil {
		return response{}, err
	}

	level := slog.LevelDebug
	if !isSuccess(status) {
		level = slog.LevelWarn
	}
	c.logger.Log(ctx, level, "api request",
		"method", r.method,
		"url", r.url,
		"status", status,
		"duration", time.Since(start),
	)
	return response{status: status, body: data}, nil
}

func fetchData[T any](ctx context.Context, c *Client, r request) (result.Result[T], error) {
	resp, err := c.do(ctx, r)
	if err != nil {
		return result.Result[T]{}, err
	}
	return dataResult[T](resp.status, resp.body)
}

func fetchTrivial(ctx context.Context, c *Client, r request) (result.Result[any], error) {
	resp, err := c.do(ctx, r)
	if err != nil {
		return result.Result[any]{}, err
	}
	return trivialResult(resp.status, resp.body), nil
}
