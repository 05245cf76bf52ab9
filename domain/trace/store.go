package trace

import "context"

// Store defines the interface for trace persistence. Implementations may
// be in-memory, filesystem, SQLite, Postgres, or Redis backed.
type Store interface {
	// Save persists a trace.
	Save(ctx context.Context, t *Trace) error

	// Get retrieves a trace by ID.
	Get(ctx context.Context, id string) (*Trace, error)

	// List returns all stored trace IDs.
	List(ctx context.Context) ([]string, error)

	// Delete removes a trace by ID.
	Delete(ctx context.Context, id string) error
}
