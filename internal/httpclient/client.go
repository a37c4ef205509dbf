package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const defaultTimeout = 10 * time.Second

// Client is an instrumented HTTP client bound to a named provider.
// Every request it issues carries OTel tracing (via otelhttp) and a
// per-provider request counter.
type Client struct {
	httpClient     *http.Client
	providerName   string
	baseURL        string
	tracer         trace.Tracer
	requestCounter metric.Int64Counter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL sets a base URL prepended to relative request paths.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithTransport replaces the underlying transport. The otelhttp wrapper
// is applied on top of whatever transport is given here.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = otelhttp.NewTransport(rt)
	}
}

// New creates an instrumented client for the given provider name.
func New(providerName string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		providerName: providerName,
		tracer:       otel.Tracer("httpclient/" + providerName),
	}

	meter := otel.Meter("httpclient")
	counter, err := meter.Int64Counter("http_client_requests_total",
		metric.WithDescription("Total outbound HTTP requests by provider"),
	)
	if err == nil {
		c.requestCounter = counter
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// R returns a new request builder bound to this client.
func (c *Client) R() Request {
	return &requestBuilder{
		client:         c.httpClient,
		providerName:   c.providerName,
		baseURL:        c.baseURL,
		tracer:         c.tracer,
		requestCounter: c.requestCounter,
	}
}
