package graphcache

import (
	"fmt"
	"time"

	"github.com/kbukum/dagdeps/depgraph"
)

// DefaultRefreshIntervalSeconds is used when neither the cache nor the
// source configures an interval.
const DefaultRefreshIntervalSeconds = 300

// Config holds graph cache configuration.
type Config struct {
	// RefreshIntervalSeconds is the maximum age of the cached graph. Nil
	// means "inherit the definition rescan interval".
	RefreshIntervalSeconds *int `yaml:"refresh_interval_seconds" mapstructure:"refresh_interval_seconds"`
	// ForceRescan asks the source to rescan before each refresh.
	ForceRescan *bool `yaml:"force_rescan" mapstructure:"force_rescan"`
	// IncludeDanglingReferences creates placeholder nodes for referenced
	// workflows absent from the snapshot.
	IncludeDanglingReferences *bool `yaml:"include_dangling_references" mapstructure:"include_dangling_references"`
}

// ApplyDefaults fills unset fields. fallbackSeconds is the system-wide
// definition rescan interval.
func (c *Config) ApplyDefaults(fallbackSeconds int) {
	if c.RefreshIntervalSeconds == nil {
		v := fallbackSeconds
		if v < 0 {
			v = DefaultRefreshIntervalSeconds
		}
		c.RefreshIntervalSeconds = &v
	}
	if c.ForceRescan == nil {
		v := true
		c.ForceRescan = &v
	}
	if c.IncludeDanglingReferences == nil {
		v := true
		c.IncludeDanglingReferences = &v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.RefreshIntervalSeconds != nil && *c.RefreshIntervalSeconds < 0 {
		return fmt.Errorf("cache.refresh_interval_seconds must be non-negative (got: %d)", *c.RefreshIntervalSeconds)
	}
	return nil
}

// Interval returns the refresh interval. Call ApplyDefaults first.
func (c *Config) Interval() time.Duration {
	if c.RefreshIntervalSeconds == nil {
		return DefaultRefreshIntervalSeconds * time.Second
	}
	return time.Duration(*c.RefreshIntervalSeconds) * time.Second
}

// Options returns the cache options derived from the configuration.
func (c *Config) Options() []Option {
	var opts []Option
	if c.ForceRescan != nil {
		opts = append(opts, WithForceRescan(*c.ForceRescan))
	}
	if c.IncludeDanglingReferences != nil {
		opts = append(opts, WithBuilderOptions(depgraph.Options{
			IncludeDanglingReferences: *c.IncludeDanglingReferences,
		}))
	}
	return opts
}
