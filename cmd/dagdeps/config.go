package main

import (
	"fmt"
	"time"

	"github.com/kbukum/dagdeps/config"
	"github.com/kbukum/dagdeps/depview"
	"github.com/kbukum/dagdeps/graphcache"
	"github.com/kbukum/dagdeps/observability"
	"github.com/kbukum/dagdeps/resilience"
	"github.com/kbukum/dagdeps/server"
	"github.com/kbukum/dagdeps/validation"
)

const serviceName = "dagdeps"

// SourceConfig configures the definition directories.
type SourceConfig struct {
	Dirs                  []string               `yaml:"dirs" mapstructure:"dirs" validate:"min=1,dive,required"`
	RescanIntervalSeconds int                    `yaml:"rescan_interval_seconds" mapstructure:"rescan_interval_seconds" validate:"min=0"`
	FileCacheSize         int                    `yaml:"file_cache_size" mapstructure:"file_cache_size" validate:"min=0"`
	Retry                 resilience.RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// RescanInterval returns the rescan interval as a duration.
func (c *SourceConfig) RescanInterval() time.Duration {
	return time.Duration(c.RescanIntervalSeconds) * time.Second
}

// AppConfig is the full service configuration.
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Source        SourceConfig         `yaml:"source" mapstructure:"source"`
	Cache         graphcache.Config    `yaml:"cache" mapstructure:"cache"`
	View          depview.Config       `yaml:"view" mapstructure:"view"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// defaults are registered with the loader so env vars and the config file
// only need to name what they change.
var defaults = map[string]any{
	"name":                              serviceName,
	"source.rescan_interval_seconds":    graphcache.DefaultRefreshIntervalSeconds,
	"source.file_cache_size":            1024,
	"source.retry.max_attempts":         1,
	"server.enabled":                    true,
	"observability.tracing.sample_rate": 1.0,
}

// ApplyDefaults fills unset fields. The cache interval falls back to the
// definition rescan interval.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Source.FileCacheSize == 0 {
		c.Source.FileCacheSize = 1024
	}
	c.Source.Retry.ApplyDefaults()
	c.Cache.ApplyDefaults(c.Source.RescanIntervalSeconds)
	c.View.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults(c.Name, c.Version, c.Environment)
}

// Validate checks every section.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := validation.Validate(&c.Source); err != nil {
		return fmt.Errorf("config.source: %w", err)
	}
	if err := c.Cache.Validate(); err != nil {
		return err
	}
	if err := c.View.Validate(); err != nil {
		return fmt.Errorf("config.view: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}
