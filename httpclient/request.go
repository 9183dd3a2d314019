package httpclient

import "net/http"

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method. Empty means GET.
	Method string
	// Path is resolved against the client's BaseURL. Absolute URLs are used as is.
	Path string
	// Headers are request-specific headers (merged over client defaults).
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is the request body. *MultipartBody is sent as multipart/form-data,
	// []byte is sent raw and any other non-nil value is JSON-encoded.
	Body any
}

// EffectiveMethod returns Method, or GET when it is empty.
func (r Request) EffectiveMethod() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
	// URL is the absolute URL the request was sent to.
	URL string
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}
