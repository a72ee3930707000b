// Package config handles YAML configuration parsing for the vetbuddy
// server and preview window.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Listen   string        `yaml:"listen"`
	Database string        `yaml:"database"`
	Debug    bool          `yaml:"debug"`
	Leads    LeadsConfig   `yaml:"leads"`
	Limits   LimitsConfig  `yaml:"limits"`
	Shutdown time.Duration `yaml:"shutdown_timeout"`
	Preview  PreviewConfig `yaml:"preview"`
}

// LeadsConfig selects the document collection lead captures are written to.
type LeadsConfig struct {
	Collection string `yaml:"collection"`
}

// LimitsConfig throttles the form endpoints per remote host.
type LimitsConfig struct {
	// RPS is the sustained request rate; 0 disables limiting.
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// PreviewConfig controls the desktop preview window.
type PreviewConfig struct {
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	Layout  string `yaml:"layout,omitempty"` // empty uses the built-in landing page
	ShowFPS bool   `yaml:"show_fps"`
	Script  string `yaml:"script,omitempty"` // JSON test script driven through the page
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:   ":8080",
		Database: "vetbuddy.db",
		Leads:    LeadsConfig{Collection: "leads"},
		Limits:   LimitsConfig{RPS: 1, Burst: 5},
		Shutdown: 10 * time.Second,
		Preview:  PreviewConfig{Width: 1280, Height: 800},
	}
}

// LoadConfig reads and parses a YAML configuration file. Keys missing from
// the file keep their Default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values a server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.Database == "" {
		errs = append(errs, errors.New("database path is empty"))
	}
	if c.Leads.Collection == "" {
		errs = append(errs, errors.New("leads collection is empty"))
	}
	if c.Limits.RPS < 0 || c.Limits.Burst < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}
	if c.Limits.RPS > 0 && c.Limits.Burst == 0 {
		errs = append(errs, errors.New("limits.burst must be positive when rps is set"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
