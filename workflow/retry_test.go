package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kbukum/dagdeps/logger"
	"github.com/kbukum/dagdeps/resilience"
)

type flakySource struct {
	stubSource
	failures int
	calls    int
}

func (s *flakySource) ListWorkflows(ctx context.Context) ([]Definition, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, errors.New("mount not ready")
	}
	return s.stubSource.ListWorkflows(ctx)
}

func TestWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		failures  int
		wantCalls int
		wantErr   bool
	}{
		{"passthrough on success", 1, 0, 1, false},
		{"single attempt fails", 1, 1, 1, true},
		{"recovers within attempts", 3, 2, 3, false},
		{"gives up after attempts", 2, 5, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &flakySource{stubSource: stubSource{defs: []Definition{{ID: "A"}}}, failures: tt.failures}
			src := WithRetry(inner, resilience.RetryConfig{
				MaxAttempts:    tt.attempts,
				InitialBackoff: time.Millisecond,
				MaxBackoff:     time.Millisecond,
			}, logger.Nop())

			defs, err := src.ListWorkflows(context.Background())
			if inner.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", inner.calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && ids(defs) != "A" {
				t.Errorf("defs = %s", ids(defs))
			}
		})
	}
}

func TestWithRetryForwardsRescan(t *testing.T) {
	inner := &flakySource{}
	src := WithRetry(inner, resilience.DefaultRetryConfig(), nil)
	if src.Name() != "stub" {
		t.Errorf("name = %q", src.Name())
	}
	if err := ForceRescan(context.Background(), src); err != nil || inner.rescans != 1 {
		t.Errorf("ForceRescan: err=%v rescans=%d", err, inner.rescans)
	}
}
