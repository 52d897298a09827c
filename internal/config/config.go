package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/funtimes-boardgame/internal/ledarray"
)

type Strip struct {
	Enabled    bool    `yaml:"enabled"`
	Port       string  `yaml:"port,omitempty"` // e.g. /dev/spidev0.0, empty for the first port
	Brightness float64 `yaml:"brightness"`
}

type Config struct {
	Driver   string `yaml:"driver"`  // "gpio" | "sim"
	Variant  string `yaml:"variant"` // "indexed" | "plain"
	Pins     []int  `yaml:"pins"`
	Capacity int    `yaml:"capacity,omitempty"` // 0 uses the variant's capacity
	TickMs   int    `yaml:"tick_ms"`
	StepMs   int    `yaml:"step_ms"`
	// HandleLimit bounds live callback handles, 0 for no bound.
	HandleLimit int    `yaml:"handle_limit,omitempty"`
	LogLevel    string `yaml:"log_level"`

	Strip Strip `yaml:"strip"`
}

func Default() *Config {
	return &Config{
		Driver:   "sim",
		Variant:  string(ledarray.Indexed),
		Pins:     []int{2, 3, 4},
		TickMs:   5,
		StepMs:   150,
		LogLevel: "info",
		Strip:    Strip{Brightness: 0.8},
	}
}

// Validate rejects settings the controller cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if _, err := ledarray.ParseVariant(c.Variant); err != nil {
		errs = append(errs, err)
	}
	if len(c.Pins) == 0 {
		errs = append(errs, errors.New("pins: at least one pin is required"))
	}
	if c.Capacity < 0 {
		errs = append(errs, fmt.Errorf("capacity: %d is negative", c.Capacity))
	}
	if c.TickMs <= 0 {
		errs = append(errs, fmt.Errorf("tick_ms: %d must be positive", c.TickMs))
	}
	switch c.Driver {
	case "gpio", "sim":
	default:
		errs = append(errs, fmt.Errorf("driver: unknown %q", c.Driver))
	}
	if c.Strip.Brightness < 0 || c.Strip.Brightness > 1 {
		errs = append(errs, fmt.Errorf("strip.brightness: %v outside [0,1]", c.Strip.Brightness))
	}
	return errors.Join(errs...)
}

// Load reads path over the defaults, so missing keys keep their default value.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return c, nil
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
