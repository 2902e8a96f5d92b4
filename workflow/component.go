package workflow

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kbukum/dagdeps/component"
	"github.com/kbukum/dagdeps/logger"
)

const componentName = "workflow-source"

var (
	_ component.Component   = (*DirComponent)(nil)
	_ component.Describable = (*DirComponent)(nil)
)

// DirComponent exposes a DirSource to the application lifecycle. Start
// checks that the definition directories are reachable; a failure is
// logged and retried from Health instead of aborting startup, because the
// graph cache keeps serving its last graph while the source is down.
type DirComponent struct {
	source *DirSource
	lazy   *component.Lazy
	log    *logger.Logger
}

// NewDirComponent wraps source.
func NewDirComponent(source *DirSource, log *logger.Logger) *DirComponent {
	if log == nil {
		log = logger.WithComponent(componentName)
	}
	c := &DirComponent{source: source, log: log}
	c.lazy = component.NewLazy(componentName, c.probe).WithHealthCheck(c.probe)
	return c
}

// Source returns the wrapped source.
func (c *DirComponent) Source() *DirSource { return c.source }

// Name returns the component name used for registration.
func (c *DirComponent) Name() string { return componentName }

// Start probes the definition directories.
func (c *DirComponent) Start(ctx context.Context) error {
	if err := c.lazy.Initialize(ctx); err != nil {
		c.log.Warn("definition directories not reachable yet", logger.Fields(logger.FieldError, err.Error()))
	}
	return nil
}

// Stop is a no-op.
func (c *DirComponent) Stop(_ context.Context) error { return nil }

// Health retries a failed startup probe, then checks the directories are
// still reachable.
func (c *DirComponent) Health(ctx context.Context) component.Health {
	if !c.lazy.IsInitialized() {
		_ = c.lazy.Initialize(ctx)
	}
	if err := c.lazy.HealthCheck(ctx); err != nil {
		msg := err.Error()
		if last := c.lazy.LastError(); last != nil {
			msg = last.Error()
		}
		return component.Health{Name: componentName, Status: component.StatusUnhealthy, Message: msg}
	}
	return component.Health{Name: componentName, Status: component.StatusHealthy}
}

// Describe returns summary info for the startup display.
func (c *DirComponent) Describe() component.Description {
	return component.Description{
		Name:    "Workflow Source",
		Type:    "source",
		Details: fmt.Sprintf("dirs=%s rescan=%s", strings.Join(c.source.cfg.Dirs, ","), c.source.cfg.RescanInterval),
	}
}

func (c *DirComponent) probe(_ context.Context) error {
	for _, dir := range c.source.cfg.Dirs {
		info, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
	}
	return nil
}
