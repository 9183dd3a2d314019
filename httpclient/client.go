package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/net/publicsuffix"
)

// Client sends single HTTP requests with a shared cookie jar.
type Client struct {
	cfg  Config
	base *url.URL

	mu sync.RWMutex
	hc *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client. Its Jar is replaced
// by the client's own cookie jar.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		cp.Jar = c.hc.Jar
		c.hc = &cp
	}
}

// WithTransport sets the round tripper of the underlying *http.Client.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.hc.Transport = rt }
}

// New creates a new HTTP client with the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("httpclient: invalid base_url: %w", err)
	}

	jar, err := newJar()
	if err != nil {
		return nil, err
	}
	c := &Client{
		cfg:  cfg,
		base: base,
		hc: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Jar:       jar,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func newJar() (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("httpclient: create cookie jar: %w", err)
	}
	return jar, nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// ResolveURL returns the absolute URL for path with query applied.
// Query keys are encoded in sorted order so equal requests produce
// equal URLs.
func (c *Client) ResolveURL(path string, query map[string]string) (string, error) {
	var u *url.URL
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		parsed, err := url.Parse(path)
		if err != nil {
			return "", err
		}
		u = parsed
	} else {
		parsed, err := url.Parse(c.base.String() + "/" + strings.TrimLeft(path, "/"))
		if err != nil {
			return "", err
		}
		u = parsed
	}
	if len(query) > 0 {
		q := u.Query()
		for k, v := range query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// Cookies returns the cookies the jar would send to the base URL.
func (c *Client) Cookies() []*http.Cookie {
	return c.httpClient().Jar.Cookies(c.base)
}

// ResetCookies discards every stored cookie.
func (c *Client) ResetCookies() error {
	jar, err := newJar()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *c.hc
	cp.Jar = jar
	c.hc = &cp
	return nil
}

func (c *Client) httpClient() *http.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hc
}

// Do sends req once. Non-2xx responses are returned together with a
// classified *Error. Cancellation and deadlines come from ctx.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, fmt.Errorf("read response body: %w", err))
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       body,
		URL:        httpReq.URL.String(),
	}
	if classErr := ClassifyStatusCode(resp.StatusCode, body); classErr != nil {
		return result, classErr
	}
	return result, nil
}

func transportError(ctx context.Context, err error) *Error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return NewTimeoutError(err)
	case errors.Is(ctx.Err(), context.Canceled):
		return NewCanceledError(err)
	default:
		return NewConnectionError(err)
	}
}

// buildRequest constructs an *http.Request from the client config and request.
func (c *Client) buildRequest(ctx context.Context, req Request) (*http.Request, error) {
	target, err := c.ResolveURL(req.Path, req.Query)
	if err != nil {
		return nil, NewInvalidRequestError(fmt.Errorf("resolve url: %w", err))
	}

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewInvalidRequestError(fmt.Errorf("encode body: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.EffectiveMethod(), target, body)
	if err != nil {
		return nil, NewInvalidRequestError(fmt.Errorf("create request: %w", err))
	}

	for k, v := range c.cfg.Headers {
		httpReq.Header.Set(k, v)
	}
	if c.cfg.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	// Multipart bodies always carry their own boundary.
	if _, ok := req.Body.(*MultipartBody); ok {
		httpReq.Header.Set("Content-Type", contentType)
	} else if body != nil && contentType != "" && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

// encodeBody converts a body value into an io.Reader and content type.
func encodeBody(body any) (io.Reader, string, error) {
	switch v := body.(type) {
	case nil:
		return nil, "", nil
	case *MultipartBody:
		return v.encode()
	case []byte:
		return bytes.NewReader(v), "", nil
	case io.Reader:
		return v, "", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
