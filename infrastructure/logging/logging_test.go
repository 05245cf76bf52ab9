package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/agentloop/domain/tool"
)

func testEvent() (*LogEvent, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := bolt.New(bolt.NewJSONHandler(buf)).SetLevel(bolt.TRACE)
	return &LogEvent{event: logger.Info()}, buf
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	if config.Level != "info" {
		t.Errorf("Level = %s, want info", config.Level)
	}
	if config.Format != "console" {
		t.Errorf("Format = %s, want console", config.Format)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"info", bolt.INFO},
		{"warn", bolt.WARN},
		{"error", bolt.ERROR},
		{"bogus", bolt.INFO},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	ev, buf := testEvent()
	ev.Add(TaskID("task-1")).
		Add(Goal("add two numbers")).
		Add(Iteration(3)).
		Add(Phase("reasoning")).
		Add(ToolName("add")).
		Add(ResultStatus(tool.StatusSuccess)).
		Add(Engine("scripted")).
		Add(Duration(1500 * time.Millisecond)).
		Add(ErrorField(errors.New("boom"))).
		Msg("iteration done")

	out := buf.String()
	for _, want := range []string{
		`"task_id":"task-1"`,
		`"iteration":3`,
		`"tool":"add"`,
		`"status":"success"`,
		`"duration_ms":1500`,
		"iteration done",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestErrorField_NilError(t *testing.T) {
	t.Parallel()

	ev, buf := testEvent()
	ev.Add(ErrorField(nil)).Msg("no error")

	if strings.Contains(buf.String(), `"error"`) {
		t.Errorf("nil error produced an error field: %s", buf.String())
	}
}
