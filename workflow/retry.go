package workflow

import (
	"context"
	"time"

	"github.com/kbukum/dagdeps/logger"
	"github.com/kbukum/dagdeps/resilience"
)

// WithRetry wraps a Source so failed listings are retried per cfg before the
// error reaches the caller. A MaxAttempts of one passes calls straight through.
func WithRetry(src Source, cfg resilience.RetryConfig, log *logger.Logger) Source {
	cfg.ApplyDefaults()
	if cfg.OnRetry == nil && log != nil {
		cfg.OnRetry = func(attempt int, err error, backoff time.Duration) {
			log.Warn("retrying workflow listing", logger.Fields(
				"source", src.Name(),
				"attempt", attempt,
				"backoff", backoff.String(),
				logger.FieldError, err.Error(),
			))
		}
	}
	return &retrySource{inner: src, cfg: cfg}
}

type retrySource struct {
	inner Source
	cfg   resilience.RetryConfig
}

func (s *retrySource) Name() string { return s.inner.Name() }

func (s *retrySource) ListWorkflows(ctx context.Context) ([]Definition, error) {
	return resilience.Retry(ctx, s.cfg, func() ([]Definition, error) {
		return s.inner.ListWorkflows(ctx)
	})
}

func (s *retrySource) ForceRescan(ctx context.Context) error {
	return ForceRescan(ctx, s.inner)
}
