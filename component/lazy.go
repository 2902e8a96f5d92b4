package component

import (
	"context"
	"fmt"
	"sync"
)

// Lazy runs an initializer once and remembers whether it succeeded. A failed
// initialization is retried on the next call.
type Lazy struct {
	name        string
	mu          sync.RWMutex
	initialized bool
	lastError   error
	initializer func(ctx context.Context) error
	healthCheck func(ctx context.Context) error
}

// NewLazy creates a Lazy with the given initializer.
func NewLazy(name string, initializer func(context.Context) error) *Lazy {
	return &Lazy{name: name, initializer: initializer}
}

// Name returns the component name.
func (l *Lazy) Name() string { return l.name }

// Initialize runs the initializer unless a previous run succeeded.
func (l *Lazy) Initialize(ctx context.Context) error {
	l.mu.RLock()
	done := l.initialized
	l.mu.RUnlock()
	if done {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.initialized {
		return nil
	}
	if l.initializer == nil {
		return fmt.Errorf("no initializer for component: %s", l.name)
	}
	if err := l.initializer(ctx); err != nil {
		l.lastError = err
		return fmt.Errorf("failed to initialize %s: %w", l.name, err)
	}
	l.initialized = true
	l.lastError = nil
	return nil
}

// IsInitialized reports whether the initializer has succeeded.
func (l *Lazy) IsInitialized() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.initialized
}

// LastError returns the error of the latest failed initialization.
func (l *Lazy) LastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastError
}

// HealthCheck fails until initialization succeeded, then runs the custom
// check if one is set.
func (l *Lazy) HealthCheck(ctx context.Context) error {
	if !l.IsInitialized() {
		return fmt.Errorf("component %s not initialized", l.name)
	}
	if l.healthCheck != nil {
		return l.healthCheck(ctx)
	}
	return nil
}

// Reset marks the component as uninitialized.
func (l *Lazy) Reset() {
	l.mu.Lock()
	l.initialized = false
	l.mu.Unlock()
}

// WithHealthCheck sets a custom health check function.
func (l *Lazy) WithHealthCheck(fn func(context.Context) error) *Lazy {
	l.healthCheck = fn
	return l
}
