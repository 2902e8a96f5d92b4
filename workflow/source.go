package workflow

import (
	"context"
	"sync"
)

// Source supplies the current set of workflow definitions on demand.
type Source interface {
	Name() string
	ListWorkflows(ctx context.Context) ([]Definition, error)
}

// Rescanner is optionally implemented by sources that keep their own
// staleness window. ForceRescan makes the next ListWorkflows reflect the
// latest underlying definitions.
type Rescanner interface {
	ForceRescan(ctx context.Context) error
}

// MemorySource is a Source backed by an in-memory slice. It is safe for
// concurrent use and is mostly useful for embedding and tests.
type MemorySource struct {
	mu   sync.RWMutex
	defs []Definition
}

// NewMemorySource creates a MemorySource holding defs.
func NewMemorySource(defs ...Definition) *MemorySource {
	s := &MemorySource{}
	s.Set(defs...)
	return s
}

// Name returns the source name.
func (s *MemorySource) Name() string { return "memory" }

// Set replaces the held definitions.
func (s *MemorySource) Set(defs ...Definition) {
	cp := make([]Definition, len(defs))
	copy(cp, defs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.defs = cp
}

// ListWorkflows returns a copy of the held definitions.
func (s *MemorySource) ListWorkflows(ctx context.Context) ([]Definition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Definition, len(s.defs))
	copy(out, s.defs)
	return out, nil
}
