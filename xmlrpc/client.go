package xmlrpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultPath is the request path the daemon serves XML-RPC on
	DefaultPath = "/RPC2"

	// DefaultTimeout is the default timeout for one HTTP round trip
	DefaultTimeout = 30 * time.Second

	// DefaultDialTimeout is the default timeout for connecting to the endpoint
	DefaultDialTimeout = 2 * time.Second

	// unixHost is the placeholder host used for requests over a unix socket
	unixHost = "localhost"
)

// Client is an XML-RPC transport over HTTP. The endpoint is either an
// http(s) URL or unix:///path/to/socket. A Client is safe for concurrent use.
type Client struct {
	// URL is the request URL
	URL string

	// SocketPath is the unix socket path, empty for TCP endpoints
	SocketPath string

	httpClient  *http.Client
	dialTimeout time.Duration
	timeout     time.Duration
	path        string
	username    string
	password    string
	logger      *slog.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. For unix endpoints a copy of it
// is used, with a transport that dials the socket.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout for one HTTP round trip
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithDialTimeout sets the timeout for connecting to the endpoint
func WithDialTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.dialTimeout = d
	}
}

// WithPath sets the request path for endpoints that do not include one
func WithPath(path string) Option {
	return func(c *Client) {
		c.path = path
	}
}

// WithBasicAuth sets the credentials sent with every request
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithLogger sets the logger used for request tracing at debug level
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a Client for endpoint
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}

	c := &Client{
		dialTimeout: DefaultDialTimeout,
		timeout:     DefaultTimeout,
		path:        DefaultPath,
		logger:      slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(c)
	}

	switch u.Scheme {
	case "http", "https":
		if u.Path == "" || u.Path == "/" {
			u.Path = c.path
		}
		if c.httpClient == nil {
			c.httpClient = &http.Client{
				Timeout: c.timeout,
				Transport: &http.Transport{
					DialContext: (&net.Dialer{Timeout: c.dialTimeout}).DialContext,
				},
			}
		}

	case "unix":
		c.SocketPath = u.Path
		if c.SocketPath == "" {
			c.SocketPath = u.Opaque
		}
		dialer := &net.Dialer{Timeout: c.dialTimeout}
		transport := &http.Transport{
			DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
				return dialer.DialContext(ctx, "unix", c.SocketPath)
			},
		}
		if c.httpClient == nil {
			c.httpClient = &http.Client{Timeout: c.timeout}
		} else {
			// Copy so the caller's client keeps its own transport
			hc := *c.httpClient
			c.httpClient = &hc
		}
		c.httpClient.Transport = transport
		u = &url.URL{Scheme: "http", Host: unixHost, Path: c.path}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}

	c.URL = u.String()
	return c, nil
}

// Invoke sends one methodCall and decodes the response. A <fault> response
// fails with *Fault; anything else that goes wrong fails with *CallError.
func (c *Client) Invoke(ctx context.Context, name string, args []any) (any, error) {
	start := time.Now()

	body, err := EncodeCall(name, args)
	if err != nil {
		return nil, &CallError{Method: name, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, &CallError{Method: name, Err: err}
	}
	req.Header.Set("Content-Type", "text/xml")
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.DebugContext(ctx, "xmlrpc call failed", "method", name, "error", err)
		return nil, &CallError{Method: name, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.logger.DebugContext(ctx, "xmlrpc call rejected", "method", name, "status", resp.StatusCode)
		return nil, &CallError{Method: name, Err: &HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CallError{Method: name, Err: err}
	}

	result, err := DecodeResponse(data)
	c.logger.DebugContext(ctx, "xmlrpc call",
		"method", name,
		"args", len(args),
		"duration", time.Since(start),
		"fault", err != nil,
	)
	if err != nil {
		if _, ok := err.(*Fault); ok {
			return nil, err
		}
		return nil, &CallError{Method: name, Err: err}
	}

	return result, nil
}
