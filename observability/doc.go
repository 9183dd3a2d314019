// Package observability wires OpenTelemetry tracing and metrics into the
// tripcart client.
//
//	shutdown, err := observability.Setup(ctx, observability.Config{
//	    ServiceName: "tripcart",
//	    Endpoint:    "localhost:4318",
//	    Insecure:    true,
//	    SampleRate:  1,
//	})
//	defer shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
//
// Without Setup the global providers are no-ops, so instrumented code
// runs unchanged.
package observability
