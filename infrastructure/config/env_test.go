package config

import (
	"errors"
	"testing"

	domainconfig "github.com/felixgeelhaar/agentloop/domain/config"
)

func TestExpand(t *testing.T) {
	t.Setenv("EXPAND_SET", "value")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bracket", "key: ${EXPAND_SET}", "key: value"},
		{"default used", "key: ${EXPAND_UNSET:-fallback}", "key: fallback"},
		{"default ignored", "key: ${EXPAND_SET:-fallback}", "key: value"},
		{"unset without default", "key: ${EXPAND_UNSET}", "key: "},
		{"simple", "key: $EXPAND_SET", "key: value"},
		{"no variables", "key: plain", "key: plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &envExpander{}
			got, err := e.Expand(tt.input)
			if err != nil {
				t.Fatalf("Expand() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Expand(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestExpand_RequiredMissing(t *testing.T) {
	t.Parallel()

	e := &envExpander{}
	_, err := e.Expand("key: ${EXPAND_REQUIRED:?api key must be set}")
	if !errors.Is(err, domainconfig.ErrMissingEnvVar) {
		t.Errorf("error = %v, want ErrMissingEnvVar", err)
	}
}

func TestExpand_StrictMissing(t *testing.T) {
	t.Parallel()

	e := &envExpander{strict: true}
	_, err := e.Expand("key: ${EXPAND_STRICT_UNSET}")
	if !errors.Is(err, domainconfig.ErrMissingEnvVar) {
		t.Errorf("error = %v, want ErrMissingEnvVar", err)
	}
}
