package graphcache

import (
	"context"
	"fmt"

	"github.com/kbukum/dagdeps/component"
	"github.com/kbukum/dagdeps/logger"
)

const componentName = "graph-cache"

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// Component exposes a Cache to the application lifecycle.
type Component struct {
	cache *Cache
	log   *logger.Logger
}

// NewComponent wraps cache.
func NewComponent(cache *Cache, log *logger.Logger) *Component {
	if log == nil {
		log = logger.WithComponent(componentName)
	}
	return &Component{cache: cache, log: log}
}

// Cache returns the wrapped cache.
func (c *Component) Cache() *Cache { return c.cache }

// Name returns the component name used for registration.
func (c *Component) Name() string { return componentName }

// Start warms the cache. A failing source does not abort startup; the next
// read retries.
func (c *Component) Start(ctx context.Context) error {
	if _, err := c.cache.Get(ctx); err != nil {
		c.log.Warn("initial graph build failed, will retry on next read", logger.Fields(
			logger.FieldError, err.Error(),
		))
	}
	return nil
}

// Stop is a no-op; the cache holds no external resources.
func (c *Component) Stop(_ context.Context) error { return nil }

// Health reports healthy after a successful refresh, degraded while serving
// a previous graph after a failed refresh, and unhealthy if no graph was
// ever built.
func (c *Component) Health(_ context.Context) component.Health {
	st := c.cache.Status()
	snap := c.cache.Current()

	switch {
	case !snap.Built():
		msg := "dependency graph not built yet"
		if st.LastError != nil {
			msg = st.LastError.Error()
		}
		return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: msg}
	case st.LastError != nil:
		return component.Health{
			Name:    componentName,
			Status:  component.StatusDegraded,
			Message: fmt.Sprintf("serving graph from %s: %v", snap.RefreshedAt.UTC().Format("2006-01-02T15:04:05Z"), st.LastError),
		}
	default:
		return component.Health{Name: componentName, Status: component.StatusHealthy}
	}
}

// Describe returns summary info for the startup display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Graph Cache",
		Type:    "cache",
		Details: fmt.Sprintf("source=%s refresh=%s", c.cache.source.Name(), c.cache.Interval()),
	}
}
