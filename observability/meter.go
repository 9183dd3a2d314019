package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/tripcart/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter initializes the OpenTelemetry meter provider and installs it
// globally. The caller shuts it down on exit.
func InitMeter(ctx context.Context, cfg MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.ServiceName, cfg.ServiceVersion, cfg.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", cfg.ServiceName,
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the client's metric instruments.
type Metrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	cacheHits       metric.Int64Counter
	cacheMisses     metric.Int64Counter
	retries         metric.Int64Counter
	errorTotal      metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestTotal, err := meter.Int64Counter("tripcart.api.requests",
		metric.WithDescription("API calls by method and outcome"))
	if err != nil {
		return nil, fmt.Errorf("creating tripcart.api.requests counter: %w", err)
	}
	requestDuration, err := meter.Float64Histogram("tripcart.api.duration",
		metric.WithDescription("Duration of API calls including retries"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating tripcart.api.duration histogram: %w", err)
	}
	cacheHits, err := meter.Int64Counter("tripcart.cache.hits",
		metric.WithDescription("Reads served from the response cache"))
	if err != nil {
		return nil, fmt.Errorf("creating tripcart.cache.hits counter: %w", err)
	}
	cacheMisses, err := meter.Int64Counter("tripcart.cache.misses",
		metric.WithDescription("Cacheable reads that went to the network"))
	if err != nil {
		return nil, fmt.Errorf("creating tripcart.cache.misses counter: %w", err)
	}
	retries, err := meter.Int64Counter("tripcart.api.retries",
		metric.WithDescription("Retries after HTTP 429"))
	if err != nil {
		return nil, fmt.Errorf("creating tripcart.api.retries counter: %w", err)
	}
	errorTotal, err := meter.Int64Counter("tripcart.api.errors",
		metric.WithDescription("Normalized errors by kind"))
	if err != nil {
		return nil, fmt.Errorf("creating tripcart.api.errors counter: %w", err)
	}

	return &Metrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		retries:         retries,
		errorTotal:      errorTotal,
	}, nil
}

// NopMetrics returns instruments backed by a no-op meter.
func NopMetrics() *Metrics {
	m, _ := NewMetrics(noop.NewMeterProvider().Meter(InstrumentationName))
	return m
}

// RecordRequest records a finished API call. outcome is "ok" or an error kind.
func (m *Metrics) RecordRequest(ctx context.Context, method, outcome string, duration time.Duration) {
	m.requestTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("outcome", outcome),
	))
	m.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
	))
}

// RecordCache records a cache lookup.
func (m *Metrics) RecordCache(ctx context.Context, hit bool) {
	if hit {
		m.cacheHits.Add(ctx, 1)
		return
	}
	m.cacheMisses.Add(ctx, 1)
}

// RecordRetry records one retry after a rate-limited attempt.
func (m *Metrics) RecordRetry(ctx context.Context) {
	m.retries.Add(ctx, 1)
}

// RecordError records a normalized error.
func (m *Metrics) RecordError(ctx context.Context, kind string) {
	m.errorTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
