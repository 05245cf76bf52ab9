package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestApp() (*App, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)
	return app, &stdout, &stderr
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestApp_Version(t *testing.T) {
	app, stdout, _ := newTestApp()

	if err := app.ExecuteWithArgs(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "agentloop version") {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestApp_Help(t *testing.T) {
	app, stdout, _ := newTestApp()

	if err := app.ExecuteWithArgs(context.Background(), []string{"--help"}); err != nil {
		t.Fatalf("help command failed: %v", err)
	}

	output := stdout.String()
	for _, want := range []string{"run", "ask", "check", "replay", "traces", "validate"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q command", want)
		}
	}
}

func TestApp_Validate(t *testing.T) {
	path := writeConfig(t, `
name: test-loop
engine:
  provider: scripted
loop:
  max_iterations: 5
storage:
  backend: memory
`)

	app, stdout, _ := newTestApp()
	if err := app.ExecuteWithArgs(context.Background(), []string{"validate", path}); err != nil {
		t.Fatalf("validate command failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "configuration valid") {
		t.Errorf("validate output = %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "5 iterations") {
		t.Errorf("validate output = %q", stdout.String())
	}
}

func TestApp_Validate_RejectsBadConfig(t *testing.T) {
	path := writeConfig(t, `
engine:
  provider: openai
`)

	app, _, _ := newTestApp()
	err := app.ExecuteWithArgs(context.Background(), []string{"validate", path})
	if err == nil {
		t.Fatal("validate accepted an openai config without model or api key")
	}
}

func TestApp_TracesList_Empty(t *testing.T) {
	app, stdout, _ := newTestApp()

	if err := app.ExecuteWithArgs(context.Background(), []string{"traces", "list"}); err != nil {
		t.Fatalf("traces list failed: %v", err)
	}
	if !strings.Contains(stdout.String(), "no traces stored") {
		t.Errorf("traces list output = %q", stdout.String())
	}
}

func TestApp_Run_ExhaustedScriptAborts(t *testing.T) {
	// The default config uses a scripted engine with no steps, so the
	// opening reasoning call faults and the run aborts.
	app, stdout, _ := newTestApp()

	err := app.ExecuteWithArgs(context.Background(), []string{"run", "anything"})
	if err == nil {
		t.Fatal("run succeeded with an empty script")
	}
	if !strings.Contains(stdout.String(), "aborted") {
		t.Errorf("run output = %q, want aborted outcome", stdout.String())
	}
}

func TestApp_Run_MissingConfigFile(t *testing.T) {
	app, _, _ := newTestApp()

	err := app.ExecuteWithArgs(context.Background(), []string{"run", "-c", "/does/not/exist.yaml", "goal"})
	if err == nil {
		t.Fatal("run accepted a missing config file")
	}
}
