package memory

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/agentloop/domain/trace"
)

// TraceStore is an in-memory implementation of trace.Store.
type TraceStore struct {
	traces map[string]*trace.Trace
	mu     sync.RWMutex
}

// NewTraceStore creates a new in-memory trace store.
func NewTraceStore() *TraceStore {
	return &TraceStore{
		traces: make(map[string]*trace.Trace),
	}
}

// Save persists a trace.
func (s *TraceStore) Save(ctx context.Context, t *trace.Trace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.ID == "" {
		return trace.ErrInvalidTraceID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.traces[t.ID]; exists {
		return trace.ErrTraceExists
	}

	// Copy steps so later appends don't mutate the stored trace.
	stored := *t
	stored.Steps = make([]trace.Step, len(t.Steps))
	copy(stored.Steps, t.Steps)

	s.traces[t.ID] = &stored
	return nil
}

// Get retrieves a trace by ID.
func (s *TraceStore) Get(ctx context.Context, id string) (*trace.Trace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, trace.ErrInvalidTraceID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.traces[id]
	if !ok {
		return nil, trace.ErrTraceNotFound
	}

	out := *t
	out.Steps = make([]trace.Step, len(t.Steps))
	copy(out.Steps, t.Steps)
	return &out, nil
}

// List returns all stored trace IDs.
func (s *TraceStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.traces))
	for id := range s.traces {
		ids = append(ids, id)
	}
	return ids, nil
}

// Delete removes a trace by ID.
func (s *TraceStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return trace.ErrInvalidTraceID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.traces[id]; !exists {
		return trace.ErrTraceNotFound
	}
	delete(s.traces, id)
	return nil
}

var _ trace.Store = (*TraceStore)(nil)
