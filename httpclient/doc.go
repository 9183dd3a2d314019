// Package httpclient is the transport layer of the tripcart client. It
// sends exactly one HTTP request per Do call against the configured base
// URL, carries cookies in a jar shared by every request, and classifies
// failures into typed *Error values.
//
// Retries, caching and user-facing error messages live one layer up in
// the apiclient package.
//
//	c, err := httpclient.New(httpclient.Config{BaseURL: "https://api.example.com"})
//	resp, err := c.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/shopping-requests"})
package httpclient
