// Package couchbase talks to the Couchbase views REST endpoint (port 8092 by
// default). It uploads design documents with static basic credentials and
// turns rejected uploads into a SyncError carrying the server's error fields.
package couchbase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of a rejection body is read.
	maxErrorBody = 1 << 20
)

// Client uploads design documents to one Couchbase host.
// It is not safe for concurrent use; uploads are sequential.
type Client struct {
	baseURL    *url.URL
	username   string
	password   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the transport timeout for each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRequestLogging logs every request and response to logger.
// Credentials are masked.
func WithRequestLogging(logger log.FieldLogger) Option {
	return func(c *Client) {
		next := c.httpClient.Transport
		if next == nil {
			next = http.DefaultTransport
		}
		hc := *c.httpClient
		hc.Transport = &loggingTransport{next: next, log: logger}
		c.httpClient = &hc
	}
}

// NewClient creates a Client for host, which must be an absolute http(s) URL
// such as http://localhost:8092.
func NewClient(host, username, password string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(host, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing host %q: %w", host, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("host must be an absolute URL, got %q", host)
	}

	c := &Client{
		baseURL:  u,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Host returns the base URL the client sends to.
func (c *Client) Host() string {
	return c.baseURL.String()
}

// SendDocument PUTs a design document to /<bucket>/_design/<name>.
// The body is serialized with WireBody first. Any 2xx status is success;
// anything else returns a *SyncError.
func (c *Client) SendDocument(ctx context.Context, bucket, name, body string) error {
	target := c.DocumentURL(bucket, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, strings.NewReader(WireBody(body)))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("put design document %s: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &SyncError{
		Bucket:     bucket,
		Document:   name,
		StatusCode: resp.StatusCode,
		Errors:     parseErrors(respBody),
	}
}

// DocumentURL returns the absolute URL of a design document.
func (c *Client) DocumentURL(bucket, name string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + DesignDocPath(bucket, name)
	u.RawPath = ""
	return u.String()
}

// Ping checks that the host answers HTTP. Any response counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String()+"/", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping %s: %w", c.baseURL.Redacted(), err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}
