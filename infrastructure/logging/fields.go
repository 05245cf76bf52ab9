package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/agentloop/domain/tool"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// TaskID adds a task ID field.
func TaskID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("task_id", id)
	}
}

// Goal adds a goal field.
func Goal(goal string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("goal", goal)
	}
}

// Iteration adds the current loop iteration.
func Iteration(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("iteration", n)
	}
}

// Phase adds the loop phase field.
func Phase(phase string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("phase", phase)
	}
}

// ToolName adds a tool name field.
func ToolName(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("tool", name)
	}
}

// ResultStatus adds an invocation result status field.
func ResultStatus(s tool.Status) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("status", string(s))
	}
}

// Engine adds the reasoning engine name.
func Engine(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("engine", name)
	}
}

// TraceID adds a trace ID field.
func TraceID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("trace_id", id)
	}
}

// Steps adds a step count field for replays.
func Steps(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("steps", n)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Str adds a string field with a custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
