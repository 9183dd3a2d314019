// Package apiclient executes typed calls against the marketplace backend.
//
// Every call goes through Execute: GET responses are served from and stored
// in the response cache, HTTP 429 is retried with exponential backoff, each
// attempt is bounded by a timeout, and every failure is normalized,
// logged and notified exactly once before it is returned.
//
//	exec := apiclient.New(httpClient, apiclient.WithCache(cache.NewMemory()))
//	reqs, err := apiclient.Execute[[]marketplace.ShoppingRequest](ctx, exec, "/shopping-requests")
//
// The returned error is always an *errors.Error.
package apiclient
