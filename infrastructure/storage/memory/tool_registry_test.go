package memory_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/infrastructure/storage/memory"
)

func noopTool(name string) tool.Tool {
	return tool.NewBuilder(name).
		WithHandler(func(ctx context.Context, args json.RawMessage) (tool.Result, error) {
			return tool.NewResult(name, "ok"), nil
		}).
		MustBuild()
}

func TestToolRegistry_RegisterGet(t *testing.T) {
	t.Parallel()

	reg := memory.NewToolRegistry()

	if err := reg.Register(noopTool("add")); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := reg.Register(noopTool("add")); !errors.Is(err, tool.ErrToolExists) {
		t.Errorf("duplicate Register() error = %v, want ErrToolExists", err)
	}

	got, ok := reg.Get("add")
	if !ok || got.Name() != "add" {
		t.Errorf("Get() = %v, %v", got, ok)
	}
	if !reg.Has("add") || reg.Has("sub") {
		t.Error("Has() results wrong")
	}
	if reg.Count() != 1 {
		t.Errorf("Count() = %d", reg.Count())
	}
}

func TestToolRegistry_Unregister(t *testing.T) {
	t.Parallel()

	reg := memory.NewToolRegistry()
	if err := reg.Register(noopTool("add")); err != nil {
		t.Fatal(err)
	}

	if err := reg.Unregister("add"); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	if err := reg.Unregister("add"); !errors.Is(err, tool.ErrToolNotFound) {
		t.Errorf("second Unregister() error = %v, want ErrToolNotFound", err)
	}
}

func TestToolRegistry_ListNames(t *testing.T) {
	t.Parallel()

	reg := memory.NewToolRegistry()
	for _, name := range []string{"add", "mul"} {
		if err := reg.Register(noopTool(name)); err != nil {
			t.Fatal(err)
		}
	}

	if got := len(reg.List()); got != 2 {
		t.Errorf("List() returned %d tools", got)
	}
	if got := len(reg.Names()); got != 2 {
		t.Errorf("Names() returned %d names", got)
	}

	reg.Clear()
	if reg.Count() != 0 {
		t.Errorf("Count() after Clear() = %d", reg.Count())
	}
}
