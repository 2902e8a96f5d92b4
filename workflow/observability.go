package workflow

import (
	"context"
	"time"

	"github.com/kbukum/dagdeps/logger"
	"github.com/kbukum/dagdeps/observability"
)

// WithTracing wraps a Source with OpenTelemetry span creation.
// Each listing creates a span named "{prefix}.list".
func WithTracing(src Source, prefix string) Source {
	return &tracingSource{inner: src, prefix: prefix}
}

type tracingSource struct {
	inner  Source
	prefix string
}

func (s *tracingSource) Name() string { return s.inner.Name() }

func (s *tracingSource) ListWorkflows(ctx context.Context) ([]Definition, error) {
	ctx, span := observability.StartSpan(ctx, s.prefix+".list")
	defer span.End()

	observability.SetSpanAttribute(ctx, "workflow.source", s.inner.Name())

	defs, err := s.inner.ListWorkflows(ctx)
	if err != nil {
		observability.SetSpanError(ctx, err)
		return nil, err
	}
	observability.SetSpanAttribute(ctx, "workflow.count", len(defs))
	return defs, nil
}

func (s *tracingSource) ForceRescan(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, s.prefix+".rescan")
	defer span.End()

	err := ForceRescan(ctx, s.inner)
	if err != nil {
		observability.SetSpanError(ctx, err)
	}
	return err
}

// WithMetrics wraps a Source with metric recording.
// Records operation count, duration, and errors.
func WithMetrics(src Source, metrics *observability.Metrics) Source {
	return &metricsSource{inner: src, metrics: metrics}
}

type metricsSource struct {
	inner   Source
	metrics *observability.Metrics
}

func (s *metricsSource) Name() string { return s.inner.Name() }

func (s *metricsSource) ListWorkflows(ctx context.Context) ([]Definition, error) {
	start := time.Now()
	defs, err := s.inner.ListWorkflows(ctx)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		s.metrics.RecordError(ctx, "list", s.inner.Name())
	}
	s.metrics.RecordOperation(ctx, s.inner.Name(), "workflow.list", status, duration)

	return defs, err
}

func (s *metricsSource) ForceRescan(ctx context.Context) error {
	return ForceRescan(ctx, s.inner)
}

// WithLogging wraps a Source with listing logs.
// Logs: source name, workflow count, duration, and errors.
func WithLogging(src Source, log *logger.Logger) Source {
	return &loggingSource{inner: src, log: log}
}

type loggingSource struct {
	inner Source
	log   *logger.Logger
}

func (s *loggingSource) Name() string { return s.inner.Name() }

func (s *loggingSource) ListWorkflows(ctx context.Context) ([]Definition, error) {
	start := time.Now()
	defs, err := s.inner.ListWorkflows(ctx)

	fields := logger.DurationFields("workflow.list", time.Since(start))
	fields["source"] = s.inner.Name()

	if err != nil {
		s.log.Error("listing workflows failed", logger.MergeWithError(fields, err))
		return nil, err
	}
	fields["workflows"] = len(defs)
	s.log.Debug("workflows listed", fields)
	return defs, nil
}

func (s *loggingSource) ForceRescan(ctx context.Context) error {
	err := ForceRescan(ctx, s.inner)
	if err != nil {
		s.log.Warn("forced rescan failed", logger.Fields(
			"source", s.inner.Name(),
			logger.FieldError, err.Error(),
		))
	}
	return err
}

// ForceRescan asks src to drop its own staleness window. It is a no-op for
// sources that do not implement Rescanner.
func ForceRescan(ctx context.Context, src Source) error {
	if r, ok := src.(Rescanner); ok {
		return r.ForceRescan(ctx)
	}
	return nil
}
