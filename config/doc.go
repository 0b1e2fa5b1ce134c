// Package config loads one engine run's configuration from a config.yml
// merged with environment overrides, using Viper plus godotenv.
//
// Environment variables override file values, with no name prefix:
// PROCESSES=8 overrides a "processes" key, and LOGGING_LEVEL overrides the
// nested "logging.level" path.
//
// # Usage
//
//	type demoConfig struct {
//	    config.RunConfig `yaml:",inline" mapstructure:",squash"`
//	    Processes int `yaml:"processes" mapstructure:"processes"`
//	}
//	cfg := demoConfig{Processes: 4}
//	err := config.LoadConfig("treereduce-demo", &cfg)
//	cfg.ApplyDefaults()
package config
