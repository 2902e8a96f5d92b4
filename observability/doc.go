// Package observability wires OpenTelemetry tracing and metrics.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, &cfg.Tracing)
//	defer tp.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "graphcache.refresh")
//	defer span.End()
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, &cfg.Metrics)
//	metrics, err := observability.NewMetrics(observability.Meter("dagdeps"))
//	metrics.RecordGraphSize(ctx, nodes, edges)
//
// When neither exporter is enabled the global no-op providers stay in place
// and every helper in this package is safe to call.
package observability
