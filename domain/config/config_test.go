package config_test

import (
	"testing"

	"github.com/felixgeelhaar/agentloop/domain/config"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	if cfg.Engine.Provider != "scripted" {
		t.Errorf("Engine.Provider = %s", cfg.Engine.Provider)
	}
	if cfg.Loop.MaxIterations != 20 {
		t.Errorf("Loop.MaxIterations = %d, want 20", cfg.Loop.MaxIterations)
	}
	if cfg.Loop.AnswerIterations != 10 {
		t.Errorf("Loop.AnswerIterations = %d, want 10", cfg.Loop.AnswerIterations)
	}
	if errs := config.NewValidator().Validate(cfg); errs.HasErrors() {
		t.Errorf("default config invalid: %v", errs)
	}
}

func TestValidator(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*config.Config)
		wantField string
	}{
		{
			name:      "missing provider",
			mutate:    func(c *config.Config) { c.Engine.Provider = "" },
			wantField: "engine.provider",
		},
		{
			name:      "unknown provider",
			mutate:    func(c *config.Config) { c.Engine.Provider = "oracle" },
			wantField: "engine.provider",
		},
		{
			name: "openai without api key",
			mutate: func(c *config.Config) {
				c.Engine.Provider = "openai"
				c.Engine.Model = "gpt-4o"
			},
			wantField: "engine.api_key",
		},
		{
			name: "gemini without model",
			mutate: func(c *config.Config) {
				c.Engine.Provider = "gemini"
				c.Engine.APIKey = "key"
			},
			wantField: "engine.model",
		},
		{
			name:      "negative budget",
			mutate:    func(c *config.Config) { c.Loop.MaxIterations = -1 },
			wantField: "loop.max_iterations",
		},
		{
			name:      "unknown backend",
			mutate:    func(c *config.Config) { c.Storage.Backend = "tape" },
			wantField: "storage.backend",
		},
		{
			name:      "sqlite without path",
			mutate:    func(c *config.Config) { c.Storage.Backend = "sqlite" },
			wantField: "storage.path",
		},
		{
			name:      "postgres without dsn",
			mutate:    func(c *config.Config) { c.Storage.Backend = "postgres" },
			wantField: "storage.dsn",
		},
		{
			name:      "redis without addr",
			mutate:    func(c *config.Config) { c.Storage.Backend = "redis" },
			wantField: "storage.addr",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(cfg)

			errs := config.NewValidator().Validate(cfg)
			if !errs.HasErrors() {
				t.Fatal("Validate() returned no errors")
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("no error for field %s in %v", tt.wantField, errs)
			}
		})
	}
}
