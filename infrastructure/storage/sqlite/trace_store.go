package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver

	"github.com/felixgeelhaar/agentloop/domain/trace"
)

// TraceStore is a SQLite-backed implementation of trace.Store.
type TraceStore struct {
	db *sql.DB
}

// NewTraceStore creates a new SQLite trace store with the given configuration.
func NewTraceStore(cfg Config, opts ...Option) (*TraceStore, error) {
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &TraceStore{db: db}

	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewTraceStoreFromDB creates a trace store from an existing database connection.
func NewTraceStoreFromDB(db *sql.DB) (*TraceStore, error) {
	s := &TraceStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

// migrate creates the traces table if it doesn't exist.
func (s *TraceStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS traces (
			id TEXT PRIMARY KEY,
			goal TEXT NOT NULL,
			recorded_at INTEGER NOT NULL,
			data BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_traces_recorded_at ON traces(recorded_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}
	return nil
}

// Save persists a trace.
func (s *TraceStore) Save(ctx context.Context, t *trace.Trace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.ID == "" {
		return trace.ErrInvalidTraceID
	}

	data, err := json.Marshal(t)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO traces (id, goal, recorded_at, data, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Goal, t.RecordedAt.Unix(), data, time.Now().Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return trace.ErrTraceExists
		}
		return err
	}
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

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM traces WHERE id = ?", id,
	).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, trace.ErrTraceNotFound
	}
	if err != nil {
		return nil, err
	}

	var t trace.Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all stored trace IDs.
func (s *TraceStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id FROM traces ORDER BY recorded_at")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes a trace by ID.
func (s *TraceStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if id == "" {
		return trace.ErrInvalidTraceID
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM traces WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return trace.ErrTraceNotFound
	}
	return nil
}

// Close closes the database connection.
func (s *TraceStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation checks if the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ trace.Store = (*TraceStore)(nil)
