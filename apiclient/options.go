package apiclient

import (
	"net/http"
	"time"

	"github.com/kbukum/tripcart/httpclient"
)

// callOptions is the per-call request descriptor. It is built once per
// Execute call and never shared.
type callOptions struct {
	method    string
	body      any
	multipart bool
	headers   map[string]string
	query     map[string]string
	retries   int
	timeout   time.Duration
	cacheTTL  time.Duration
	noCache   bool
}

// CallOption configures a single Execute call.
type CallOption func(*callOptions)

// WithMethod sets the HTTP method. The default is GET.
func WithMethod(method string) CallOption {
	return func(o *callOptions) { o.method = method }
}

// WithBody sets a JSON request body.
func WithBody(body any) CallOption {
	return func(o *callOptions) {
		o.body = body
		o.multipart = false
	}
}

// WithMultipart sends body as multipart/form-data. The JSON content type
// is dropped so the encoder can set the boundary.
func WithMultipart(body *httpclient.MultipartBody) CallOption {
	return func(o *callOptions) {
		o.body = body
		o.multipart = true
	}
}

// WithHeader sets one request header.
func WithHeader(key, value string) CallOption {
	return func(o *callOptions) {
		if o.headers == nil {
			o.headers = make(map[string]string)
		}
		o.headers[key] = value
	}
}

// WithHeaders merges headers into the request headers.
func WithHeaders(headers map[string]string) CallOption {
	return func(o *callOptions) {
		for k, v := range headers {
			WithHeader(k, v)(o)
		}
	}
}

// WithQuery sets one query parameter.
func WithQuery(key, value string) CallOption {
	return func(o *callOptions) {
		if o.query == nil {
			o.query = make(map[string]string)
		}
		o.query[key] = value
	}
}

// WithRetries overrides the rate-limit retry budget.
func WithRetries(n int) CallOption {
	return func(o *callOptions) {
		if n >= 0 {
			o.retries = n
		}
	}
}

// WithTimeout overrides the per-attempt timeout.
func WithTimeout(d time.Duration) CallOption {
	return func(o *callOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithCacheTTL overrides how long a GET response stays cached.
func WithCacheTTL(d time.Duration) CallOption {
	return func(o *callOptions) {
		if d > 0 {
			o.cacheTTL = d
		}
	}
}

// WithoutCache bypasses the cache for both lookup and store.
func WithoutCache() CallOption {
	return func(o *callOptions) { o.noCache = true }
}

func (o *callOptions) effectiveMethod() string {
	if o.method == "" {
		return http.MethodGet
	}
	return o.method
}
