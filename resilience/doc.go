// Package resilience provides the retry loop used by the request executor.
//
// Retry is an explicit (attempt, delay) loop rather than recursion, with a
// pluggable Sleeper so tests can observe delays without waiting:
//
//	cfg := resilience.RetryConfig{
//	    MaxRetries:     3,
//	    InitialBackoff: time.Second,
//	    BackoffFactor:  2,
//	    RetryIf:        httpclient.IsRateLimit,
//	}
//	resp, err := resilience.Retry(ctx, cfg, func() (*httpclient.Response, error) {
//	    return client.Do(ctx, req)
//	})
package resilience
