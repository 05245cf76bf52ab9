// Package filesystem provides filesystem-based storage implementations.
package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/felixgeelhaar/agentloop/domain/trace"
)

// TraceStore implements trace.Store with one JSON file per trace.
type TraceStore struct {
	basePath string
}

// NewTraceStore creates a filesystem trace store rooted at basePath.
func NewTraceStore(basePath string) (*TraceStore, error) {
	if err := os.MkdirAll(basePath, 0750); err != nil {
		return nil, fmt.Errorf("failed to create trace directory: %w", err)
	}
	return &TraceStore{basePath: basePath}, nil
}

func (s *TraceStore) tracePath(id string) string {
	return filepath.Join(s.basePath, id+".json")
}

// validID rejects IDs that would escape the store directory.
func validID(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\`) && id != "." && id != ".."
}

// Save persists a trace.
func (s *TraceStore) Save(ctx context.Context, t *trace.Trace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validID(t.ID) {
		return trace.ErrInvalidTraceID
	}

	path := s.tracePath(t.ID)
	if _, err := os.Stat(path); err == nil {
		return trace.ErrTraceExists
	}

	// Compact encoding keeps the recorded step args byte-identical;
	// indenting would reformat their raw JSON.
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode trace: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write trace: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // #nosec G104 -- best-effort cleanup in error path
		return fmt.Errorf("failed to commit trace: %w", err)
	}
	return nil
}

// Get retrieves a trace by ID.
func (s *TraceStore) Get(ctx context.Context, id string) (*trace.Trace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, trace.ErrInvalidTraceID
	}

	data, err := os.ReadFile(s.tracePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, trace.ErrTraceNotFound
		}
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}

	var t trace.Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to decode trace %s: %w", id, err)
	}
	return &t, nil
}

// List returns all stored trace IDs.
func (s *TraceStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list traces: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

// Delete removes a trace by ID.
func (s *TraceStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validID(id) {
		return trace.ErrInvalidTraceID
	}

	if err := os.Remove(s.tracePath(id)); err != nil {
		if os.IsNotExist(err) {
			return trace.ErrTraceNotFound
		}
		return fmt.Errorf("failed to delete trace: %w", err)
	}
	return nil
}

var _ trace.Store = (*TraceStore)(nil)
