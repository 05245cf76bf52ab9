package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	domainconfig "github.com/felixgeelhaar/agentloop/domain/config"
	"github.com/felixgeelhaar/agentloop/infrastructure/config"
)

const sampleYAML = `
name: calculator
engine:
  provider: openai
  model: gpt-4o
  api_key: ${TEST_LOADER_API_KEY}
loop:
  max_iterations: 12
  recent_window: 6
storage:
  backend: sqlite
  path: traces.db
`

func TestLoader_LoadString(t *testing.T) {
	t.Setenv("TEST_LOADER_API_KEY", "sk-test")

	cfg, err := config.NewLoader().LoadString(sampleYAML, config.FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}

	if cfg.Engine.APIKey != "sk-test" {
		t.Errorf("APIKey = %q, want expanded env value", cfg.Engine.APIKey)
	}
	if cfg.Loop.MaxIterations != 12 {
		t.Errorf("MaxIterations = %d, want 12", cfg.Loop.MaxIterations)
	}
	// Unset fields keep defaults.
	if cfg.Loop.AnswerIterations != 10 {
		t.Errorf("AnswerIterations = %d, want default 10", cfg.Loop.AnswerIterations)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.Path != "traces.db" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
}

func TestLoader_LoadFile(t *testing.T) {
	t.Setenv("TEST_LOADER_API_KEY", "sk-test")

	path := filepath.Join(t.TempDir(), "loop.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.NewLoader().LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if cfg.Name != "calculator" {
		t.Errorf("Name = %s", cfg.Name)
	}
}

func TestLoader_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := config.NewLoader().LoadFile("/does/not/exist.yaml")
	if !errors.Is(err, domainconfig.ErrConfigNotFound) {
		t.Errorf("error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoader_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loop.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := config.NewLoader().LoadFile(path)
	if !errors.Is(err, domainconfig.ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoader_ValidationFailure(t *testing.T) {
	t.Parallel()

	_, err := config.NewLoaderWithOptions(config.WithEnvExpansion(false)).
		LoadString("engine:\n  provider: oracle\n", config.FormatYAML)
	if !errors.Is(err, domainconfig.ErrValidationFailed) {
		t.Errorf("error = %v, want ErrValidationFailed", err)
	}
}

func TestLoader_ValidationDisabled(t *testing.T) {
	t.Parallel()

	cfg, err := config.NewLoaderWithOptions(
		config.WithEnvExpansion(false),
		config.WithValidation(false),
	).LoadString("engine:\n  provider: oracle\n", config.FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	if cfg.Engine.Provider != "oracle" {
		t.Errorf("Provider = %s", cfg.Engine.Provider)
	}
}
