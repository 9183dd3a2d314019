package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/tripcart/cache"
	"github.com/kbukum/tripcart/httpclient"
	"github.com/kbukum/tripcart/logger"
	"github.com/kbukum/tripcart/normalizer"
	"github.com/kbukum/tripcart/notify"
	"github.com/kbukum/tripcart/observability"
	"github.com/kbukum/tripcart/resilience"
)

// Defaults applied to calls that do not override them.
const (
	DefaultRetries        = 3
	DefaultTimeout        = 10 * time.Second
	DefaultCacheTTL       = 5 * time.Minute
	DefaultInitialBackoff = time.Second
)

// HeaderRequestID carries the per-call request id.
const HeaderRequestID = "X-Request-ID"

// Executor issues API calls. It owns the response cache and shares the
// HTTP client (and therefore the cookie jar) across all calls.
type Executor struct {
	client   *httpclient.Client
	cache    cache.Cache
	reporter *normalizer.Reporter
	notifier notify.Notifier
	metrics  *observability.Metrics
	log      *logger.Logger

	retries        int
	timeout        time.Duration
	cacheTTL       time.Duration
	initialBackoff time.Duration
	sleep          resilience.Sleeper
	newRequestID   func() string
}

// Option configures an Executor.
type Option func(*Executor)

// WithCache sets the response cache. The default is an empty in-memory cache.
func WithCache(c cache.Cache) Option {
	return func(e *Executor) { e.cache = c }
}

// WithReporter sets the error reporter.
func WithReporter(r *normalizer.Reporter) Option {
	return func(e *Executor) { e.reporter = r }
}

// WithNotifier sets where failure notifications go when no reporter is set.
func WithNotifier(n notify.Notifier) Option {
	return func(e *Executor) { e.notifier = n }
}

// WithMetrics sets the metric instruments.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(e *Executor) { e.log = l.WithComponent("apiclient") }
}

// WithDefaults overrides the executor-wide retry budget, timeout and
// cache TTL. Non-positive values keep the current default, except that
// retries may be zero.
func WithDefaults(retries int, timeout, cacheTTL time.Duration) Option {
	return func(e *Executor) {
		if retries >= 0 {
			e.retries = retries
		}
		if timeout > 0 {
			e.timeout = timeout
		}
		if cacheTTL > 0 {
			e.cacheTTL = cacheTTL
		}
	}
}

// WithSleeper replaces the backoff sleeper.
func WithSleeper(s resilience.Sleeper) Option {
	return func(e *Executor) { e.sleep = s }
}

// WithInitialBackoff sets the delay before the first rate-limit retry.
func WithInitialBackoff(d time.Duration) Option {
	return func(e *Executor) { e.initialBackoff = d }
}

// WithRequestIDGenerator replaces the request id generator.
func WithRequestIDGenerator(fn func() string) Option {
	return func(e *Executor) { e.newRequestID = fn }
}

// New creates an Executor on top of client.
func New(client *httpclient.Client, opts ...Option) *Executor {
	e := &Executor{
		client:         client,
		log:            logger.Get("apiclient"),
		retries:        DefaultRetries,
		timeout:        DefaultTimeout,
		cacheTTL:       DefaultCacheTTL,
		initialBackoff: DefaultInitialBackoff,
		sleep:          resilience.ContextSleep,
		newRequestID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.cache == nil {
		e.cache = cache.NewMemory()
	}
	if e.reporter == nil {
		e.reporter = normalizer.NewReporter(e.log, e.notifier)
	}
	if e.metrics == nil {
		e.metrics = observability.NopMetrics()
	}
	return e
}

// Client returns the underlying HTTP client.
func (e *Executor) Client() *httpclient.Client { return e.client }

// Cache returns the response cache.
func (e *Executor) Cache() cache.Cache { return e.cache }

// ClearCache drops every cached response.
func (e *Executor) ClearCache() { e.cache.Clear() }

// ResetSession drops cached responses and stored cookies.
func (e *Executor) ResetSession() error {
	e.cache.Clear()
	return e.client.ResetCookies()
}

// Execute performs one logical API call and decodes the JSON response into T.
// On failure the returned error is an *errors.Error that has already been
// logged and notified.
func Execute[T any](ctx context.Context, e *Executor, endpoint string, opts ...CallOption) (T, error) {
	var zero T
	co := &callOptions{retries: e.retries, timeout: e.timeout, cacheTTL: e.cacheTTL}
	for _, opt := range opts {
		opt(co)
	}
	method := co.effectiveMethod()
	start := time.Now()

	requestID := e.newRequestID()
	ctx = logger.ContextWithRequestID(ctx, requestID)
	ctx, span := observability.StartSpan(ctx, observability.SpanAPICall, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String(observability.AttrHTTPMethod, method),
		attribute.String(observability.AttrRequestID, requestID),
	)

	log := e.log.WithContext(ctx)
	fields := logger.Fields(logger.FieldMethod, method, logger.FieldPath, endpoint)

	fail := func(raw error) (T, error) {
		n := e.reporter.NormalizeAndReport(ctx, raw, fields)
		span.RecordError(n)
		span.SetStatus(codes.Error, n.Message)
		span.SetAttributes(attribute.String(observability.AttrErrorKind, string(n.Kind)))
		if n.HTTPStatus > 0 {
			span.SetAttributes(attribute.Int(observability.AttrStatusCode, n.HTTPStatus))
		}
		e.metrics.RecordError(ctx, string(n.Kind))
		e.metrics.RecordRequest(ctx, method, string(n.Kind), time.Since(start))
		return zero, n
	}

	target, err := e.client.ResolveURL(endpoint, co.query)
	if err != nil {
		return fail(httpclient.NewInvalidRequestError(err))
	}
	span.SetAttributes(attribute.String(observability.AttrURL, target))

	cacheable := cache.Cacheable(co.method) && !co.noCache
	key := cache.Key(method, target)
	if cacheable {
		payload, hit := e.cache.Get(key)
		e.metrics.RecordCache(ctx, hit)
		span.SetAttributes(attribute.Bool(observability.AttrCacheHit, hit))
		if hit {
			var v T
			if err := json.Unmarshal(payload, &v); err == nil {
				log.Debug("served from cache", logger.Fields(logger.FieldCacheKey, key))
				e.metrics.RecordRequest(ctx, method, "ok", time.Since(start))
				return v, nil
			}
			e.cache.Delete(key)
		}
	}

	req := httpclient.Request{
		Method:  method,
		Path:    target,
		Headers: e.headers(co, requestID),
		Body:    co.body,
	}

	attempts := 0
	resp, err := resilience.Retry(ctx, resilience.RetryConfig{
		MaxRetries:     co.retries,
		InitialBackoff: e.initialBackoff,
		BackoffFactor:  2,
		RetryIf:        httpclient.IsRateLimit,
		Sleep:          e.sleep,
		OnRetry: func(retry int, err error, backoff time.Duration) {
			e.metrics.RecordRetry(ctx)
			log.Warn("rate limited, backing off", logger.Fields(
				logger.FieldAttempt, retry,
				"backoff_ms", backoff.Milliseconds(),
				logger.FieldPath, endpoint,
			))
		},
	}, func() (*httpclient.Response, error) {
		attempts++
		actx, cancel := context.WithTimeout(ctx, co.timeout)
		defer cancel()
		return e.client.Do(actx, req)
	})
	span.SetAttributes(attribute.Int(observability.AttrAttempts, attempts))
	fields[logger.FieldAttempt] = attempts
	if err != nil {
		return fail(err)
	}
	span.SetAttributes(attribute.Int(observability.AttrStatusCode, resp.StatusCode))

	var v T
	if len(bytes.TrimSpace(resp.Body)) > 0 {
		if err := json.Unmarshal(resp.Body, &v); err != nil {
			return fail(httpclient.NewDecodeError(resp.StatusCode, resp.Body, err))
		}
		if cacheable {
			e.cache.Set(key, resp.Body, co.cacheTTL)
		}
	}

	log.Debug("api call completed", logger.MergeWithDuration(logger.Fields(
		logger.FieldMethod, method,
		logger.FieldPath, endpoint,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldAttempt, attempts,
	), time.Since(start)))
	e.metrics.RecordRequest(ctx, method, "ok", time.Since(start))
	return v, nil
}

func (e *Executor) headers(co *callOptions, requestID string) map[string]string {
	h := map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}
	if co.multipart {
		delete(h, "Content-Type")
	}
	for k, v := range co.headers {
		h[k] = v
	}
	h[HeaderRequestID] = requestID
	return h
}
