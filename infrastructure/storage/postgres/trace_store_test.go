package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unique violation",
			err:  &pgconn.PgError{Code: uniqueViolationCode},
			want: true,
		},
		{
			name: "wrapped unique violation",
			err:  fmt.Errorf("exec: %w", &pgconn.PgError{Code: uniqueViolationCode}),
			want: true,
		},
		{
			name: "other pg error",
			err:  &pgconn.PgError{Code: "42P01"},
			want: false,
		},
		{
			name: "plain error mentioning duplicate key",
			err:  errors.New(`duplicate key value violates unique constraint "traces_pkey"`),
			want: false,
		},
		{
			name: "nil",
			err:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
