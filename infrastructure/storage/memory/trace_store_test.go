package memory_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/domain/trace"
	"github.com/felixgeelhaar/agentloop/infrastructure/storage/memory"
)

func sampleTrace(id string) *trace.Trace {
	tr := trace.New(id, "add two numbers")
	tr.Append(tool.NewInvocation("add", json.RawMessage(`{"a":2,"b":3}`)))
	return tr
}

func TestTraceStore_SaveGet(t *testing.T) {
	t.Parallel()

	store := memory.NewTraceStore()
	ctx := context.Background()

	if err := store.Save(ctx, sampleTrace("t1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Goal != "add two numbers" || got.Len() != 1 {
		t.Errorf("Get() = %+v", got)
	}
}

func TestTraceStore_SaveDuplicate(t *testing.T) {
	t.Parallel()

	store := memory.NewTraceStore()
	ctx := context.Background()

	if err := store.Save(ctx, sampleTrace("t1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, sampleTrace("t1")); !errors.Is(err, trace.ErrTraceExists) {
		t.Errorf("duplicate Save() error = %v, want ErrTraceExists", err)
	}
}

func TestTraceStore_GetMissing(t *testing.T) {
	t.Parallel()

	store := memory.NewTraceStore()

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, trace.ErrTraceNotFound) {
		t.Errorf("Get() error = %v, want ErrTraceNotFound", err)
	}
	if _, err := store.Get(context.Background(), ""); !errors.Is(err, trace.ErrInvalidTraceID) {
		t.Errorf("Get(\"\") error = %v, want ErrInvalidTraceID", err)
	}
}

func TestTraceStore_ListDelete(t *testing.T) {
	t.Parallel()

	store := memory.NewTraceStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := store.Save(ctx, sampleTrace(id)); err != nil {
			t.Fatal(err)
		}
	}

	ids, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(ids) != 2 {
		t.Errorf("List() = %v", ids)
	}

	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, "a"); !errors.Is(err, trace.ErrTraceNotFound) {
		t.Errorf("second Delete() error = %v, want ErrTraceNotFound", err)
	}
}

func TestTraceStore_IsolatesStoredSteps(t *testing.T) {
	t.Parallel()

	store := memory.NewTraceStore()
	ctx := context.Background()

	tr := sampleTrace("t1")
	if err := store.Save(ctx, tr); err != nil {
		t.Fatal(err)
	}

	// Appending after save must not change the stored trace.
	tr.Append(tool.NewInvocation("mul", nil))

	got, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 1 {
		t.Errorf("stored trace Len() = %d, want 1", got.Len())
	}
}
