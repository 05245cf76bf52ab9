package sqlite_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/felixgeelhaar/agentloop/domain/tool"
	"github.com/felixgeelhaar/agentloop/domain/trace"
	"github.com/felixgeelhaar/agentloop/infrastructure/storage/sqlite"
)

func newStore(t *testing.T) *sqlite.TraceStore {
	t.Helper()

	store, err := sqlite.NewTraceStore(sqlite.Config{
		DSN:         "file::memory:?cache=shared&mode=memory",
		AutoMigrate: true,
	}, sqlite.WithMaxOpenConns(1))
	if err != nil {
		t.Fatalf("NewTraceStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleTrace(id string) *trace.Trace {
	tr := trace.New(id, "add two numbers")
	tr.Append(tool.NewInvocation("add", json.RawMessage(`{"a":2,"b":3}`)))
	return tr
}

func TestTraceStore_ZeroConfigKeepsDatabaseAlive(t *testing.T) {
	store, err := sqlite.NewTraceStore(sqlite.Config{
		DSN:         "file::memory:?cache=shared&mode=memory",
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("NewTraceStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	// With no idle connections the pool would drop its only connection
	// after migration and take the shared in-memory database with it.
	ctx := context.Background()
	if err := store.Save(ctx, sampleTrace("t1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := store.Get(ctx, "t1"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
}

func TestTraceStore_RoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleTrace("t1")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get(ctx, "t1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Goal != "add two numbers" || got.Len() != 1 || got.Steps[0].Tool != "add" {
		t.Errorf("Get() = %+v", got)
	}
}

func TestTraceStore_SaveDuplicate(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleTrace("t1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Save(ctx, sampleTrace("t1")); !errors.Is(err, trace.ErrTraceExists) {
		t.Errorf("duplicate Save() error = %v, want ErrTraceExists", err)
	}
}

func TestTraceStore_GetMissing(t *testing.T) {
	store := newStore(t)

	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, trace.ErrTraceNotFound) {
		t.Errorf("Get() error = %v, want ErrTraceNotFound", err)
	}
	if _, err := store.Get(context.Background(), ""); !errors.Is(err, trace.ErrInvalidTraceID) {
		t.Errorf("Get(\"\") error = %v, want ErrInvalidTraceID", err)
	}
}

func TestTraceStore_ListDelete(t *testing.T) {
	store := newStore(t)
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
