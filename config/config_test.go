package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/treereduce/logger"
)

func TestRunConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := RunConfig{Name: "treereduce-demo"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := RunConfig{Name: "treereduce-demo", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})

	t.Run("propagates run name into logging", func(t *testing.T) {
		cfg := RunConfig{Name: "treereduce-demo"}
		cfg.ApplyDefaults()
		if cfg.Logging.RunName != "treereduce-demo" {
			t.Errorf("Logging.RunName = %q, want %q", cfg.Logging.RunName, "treereduce-demo")
		}
	})
}

func TestRunConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     RunConfig
		wantErr bool
		errMsg  string
	}{
		{"valid development", RunConfig{Name: "treereduce-demo", Environment: "development", Logging: logger.Config{Level: "info", Format: "console"}}, false, ""},
		{"valid staging", RunConfig{Name: "treereduce-demo", Environment: "staging", Logging: logger.Config{Level: "info", Format: "console"}}, false, ""},
		{"valid production", RunConfig{Name: "treereduce-demo", Environment: "production", Logging: logger.Config{Level: "info", Format: "console"}}, false, ""},
		{"missing name", RunConfig{Environment: "production", Logging: logger.Config{Level: "info", Format: "console"}}, true, "config.name is required"},
		{"invalid environment", RunConfig{Name: "treereduce-demo", Environment: "invalid", Logging: logger.Config{Level: "info", Format: "console"}}, true, "config.environment must be one of"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !strings.Contains(err.Error(), tc.errMsg) {
					t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadConfigWithYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yml")

	yamlContent := `
run:
  name: treereduce-demo
  environment: staging
  version: "1.0.0"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	type demoConfig struct {
		Run RunConfig `yaml:"run" mapstructure:"run"`
	}

	var cfg demoConfig
	err := LoadConfig("treereduce-demo", &cfg, WithConfigFile(configPath))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Run.Name != "treereduce-demo" {
		t.Errorf("expected name 'treereduce-demo', got %q", cfg.Run.Name)
	}
	if cfg.Run.Environment != "staging" {
		t.Errorf("expected environment 'staging', got %q", cfg.Run.Environment)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	type demoConfig struct {
		Run RunConfig `yaml:"run" mapstructure:"run"`
	}

	var cfg demoConfig
	// With no config file found, LoadConfig should still succeed (just empty config)
	err := LoadConfig("nonexistent-run", &cfg, WithConfigFile("/nonexistent/path.yml"))
	if err != nil {
		t.Fatalf("expected LoadConfig to succeed with missing file, got %v", err)
	}
}

func TestResolverWithMockFS(t *testing.T) {
	fs := &mockFS{files: map[string]bool{
		"./cmd/treereduce-demo/config.yml": true,
	}}
	resolver := &Resolver{FileSystem: fs}
	files := resolver.ResolveFiles("treereduce-demo", LoaderConfig{})
	if files.ConfigFile != "./cmd/treereduce-demo/config.yml" {
		t.Errorf("expected config file at ./cmd/treereduce-demo/config.yml, got %q", files.ConfigFile)
	}
}

type mockFS struct {
	files map[string]bool
}

func (m *mockFS) Exists(path string) bool   { return m.files[path] }
func (m *mockFS) LoadEnv(path string) error { return nil }
func (m *mockFS) Getwd() (string, error)    { return "/mock", nil }

func TestWithFileSystemOption(t *testing.T) {
	var lc LoaderConfig
	fs := &mockFS{}
	WithFileSystem(fs)(&lc)
	if lc.FileSystem == nil {
		t.Error("expected FileSystem to be set")
	}
}

func TestWithConfigFileOption(t *testing.T) {
	var lc LoaderConfig
	WithConfigFile("/path/to/config.yml")(&lc)
	if lc.ConfigFile != "/path/to/config.yml" {
		t.Errorf("expected config file path, got %q", lc.ConfigFile)
	}
}

func TestWithEnvFileOption(t *testing.T) {
	var lc LoaderConfig
	WithEnvFile("/path/to/.env")(&lc)
	if lc.EnvFile != "/path/to/.env" {
		t.Errorf("expected env file path, got %q", lc.EnvFile)
	}
}
