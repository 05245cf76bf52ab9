// Package postgres provides PostgreSQL-backed storage implementations.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/agentloop/domain/trace"
)

// uniqueViolationCode is the SQLSTATE for unique constraint violations.
const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// TraceStore is a PostgreSQL-backed implementation of trace.Store.
type TraceStore struct {
	pool   *pgxpool.Pool
	schema string
}

// NewTraceStore creates a new PostgreSQL trace store. The schema defaults
// to "public".
func NewTraceStore(pool *pgxpool.Pool, schema string) *TraceStore {
	if schema == "" {
		schema = "public"
	}
	return &TraceStore{
		pool:   pool,
		schema: schema,
	}
}

// Connect opens a connection pool for the given DSN and returns a store
// bound to it.
func Connect(ctx context.Context, dsn, schema string) (*TraceStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", trace.ErrConnectionFailed, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", trace.ErrConnectionFailed, err)
	}

	s := NewTraceStore(pool, schema)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *TraceStore) tableName() string {
	return fmt.Sprintf("%s.traces", s.schema)
}

// Migrate creates the traces table if it doesn't exist.
func (s *TraceStore) Migrate(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			goal TEXT NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL,
			data JSONB NOT NULL
		)
	`, s.tableName())

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create traces table: %w", err)
	}
	return nil
}

// Save persists a trace.
func (s *TraceStore) Save(ctx context.Context, t *trace.Trace) error {
	if t.ID == "" {
		return trace.ErrInvalidTraceID
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshal trace: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, goal, recorded_at, data)
		VALUES ($1, $2, $3, $4)
	`, s.tableName())

	if _, err := s.pool.Exec(ctx, query, t.ID, t.Goal, t.RecordedAt, data); err != nil {
		if isUniqueViolation(err) {
			return trace.ErrTraceExists
		}
		return err
	}
	return nil
}

// Get retrieves a trace by ID.
func (s *TraceStore) Get(ctx context.Context, id string) (*trace.Trace, error) {
	if id == "" {
		return nil, trace.ErrInvalidTraceID
	}

	query := fmt.Sprintf("SELECT data FROM %s WHERE id = $1", s.tableName())

	var data []byte
	if err := s.pool.QueryRow(ctx, query, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, trace.ErrTraceNotFound
		}
		return nil, err
	}

	var t trace.Trace
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("unmarshal trace: %w", err)
	}
	return &t, nil
}

// List returns all stored trace IDs.
func (s *TraceStore) List(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT id FROM %s ORDER BY recorded_at", s.tableName())

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

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
	if id == "" {
		return trace.ErrInvalidTraceID
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.tableName())

	tag, err := s.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return trace.ErrTraceNotFound
	}
	return nil
}

// Close closes the connection pool.
func (s *TraceStore) Close() {
	s.pool.Close()
}

var _ trace.Store = (*TraceStore)(nil)
