package depview

import (
	"regexp"

	"github.com/kbukum/dagdeps/errors"
	"github.com/kbukum/dagdeps/validation"
)

// Orientations lists the accepted layout directions.
var Orientations = []string{"LR", "TB", "RL", "BT"}

// sizePattern accepts plain numbers, pixel and percent sizes.
var sizePattern = regexp.MustCompile(`^\d+(\.\d+)?(px|%)?$`)

// Config holds the presentation defaults.
type Config struct {
	Title       string `yaml:"title" mapstructure:"title"`
	Orientation string `yaml:"orientation" mapstructure:"orientation" validate:"omitempty,oneof=LR TB RL BT"`
	Width       string `yaml:"width" mapstructure:"width"`
	Height      string `yaml:"height" mapstructure:"height"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Title == "" {
		c.Title = "DAG Dependencies"
	}
	if c.Orientation == "" {
		c.Orientation = "LR"
	}
	if c.Width == "" {
		c.Width = "100%"
	}
	if c.Height == "" {
		c.Height = "800"
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if appErr := c.Params().validate(); appErr != nil {
		return appErr
	}
	return nil
}

// Params returns the configured layout parameters.
func (c *Config) Params() Params {
	return Params{Orientation: c.Orientation, Width: c.Width, Height: c.Height}
}

// Params are the layout hints forwarded to the renderer. They do not
// affect the graph.
type Params struct {
	Orientation string
	Width       string
	Height      string
}

// Merge returns p with empty fields taken from defaults.
func (p Params) Merge(defaults Params) Params {
	if p.Orientation == "" {
		p.Orientation = defaults.Orientation
	}
	if p.Width == "" {
		p.Width = defaults.Width
	}
	if p.Height == "" {
		p.Height = defaults.Height
	}
	return p
}

// Validate reports malformed layout hints as an INVALID_INPUT error.
func (p Params) Validate() error {
	if appErr := p.validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (p Params) validate() *errors.AppError {
	return validation.New().
		OneOf("orientation", p.Orientation, Orientations).
		Pattern("width", p.Width, sizePattern).
		Pattern("height", p.Height, sizePattern).
		Validate()
}
