package config

import (
	"fmt"

	"github.com/kbukum/treereduce/logger"
)

// RunConfig holds the tunable surface of one engine.Execute invocation: the
// run's identity for logs/traces plus the logger it drives. A binary that
// wraps the engine (cmd/treereduce-demo is the one shipped here) embeds this
// in its own config struct alongside Processes/Threads/resilience knobs.
//
// Example:
//
//	type demoConfig struct {
//	    config.RunConfig `yaml:",inline" mapstructure:",squash"`
//	    Processes int `yaml:"processes" mapstructure:"processes"`
//	    Threads   int `yaml:"threads" mapstructure:"threads"`
//	}
type RunConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills in a development-shaped RunConfig and propagates the
// run name into Logging so the console logger's tag matches it.
func (c *RunConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Logging.RunName == "" && c.Name != "" {
		c.Logging.RunName = c.Name
	}
	c.Logging.ApplyDefaults()
}

// Validate checks that a RunConfig is runnable. Override in an embedding
// struct and call c.RunConfig.Validate() first.
func (c *RunConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("config.environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
