package postgres_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jungle/notifications-service/internal/platform/postgres"
	"github.com/jungle/notifications-service/internal/store"
)

func pgError(code string) *pgconn.PgError {
	return &pgconn.PgError{
		Code:           code,
		Message:        "error message",
		TableName:      "notifications",
		ColumnName:     "recipient_id",
		ConstraintName: "notifications_pkey",
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected error
		contains string
	}{
		{name: "no rows", err: sql.ErrNoRows, expected: store.ErrNotFound},
		{name: "unique violation", err: pgError("23505"), expected: store.ErrDuplicate},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", pgError("23505")), expected: store.ErrDuplicate},
		{name: "foreign key", err: pgError("23503"), expected: store.ErrInvalidEntity, contains: "notifications_pkey"},
		{name: "check constraint", err: pgError("23514"), expected: store.ErrInvalidEntity, contains: "check constraint"},
		{name: "not null", err: pgError("23502"), expected: store.ErrInvalidEntity, contains: "recipient_id"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapped := postgres.MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.expected)
			if tt.contains != "" {
				assert.Contains(t, mapped.Error(), tt.contains)
			}
		})
	}

	t.Run("nil", func(t *testing.T) {
		assert.NoError(t, postgres.MapError(nil))
	})

	t.Run("unmapped error unchanged", func(t *testing.T) {
		original := errors.New("connection reset by peer")
		assert.Same(t, original, postgres.MapError(original))

		syntax := pgError("42601")
		assert.Equal(t, error(syntax), postgres.MapError(syntax))
	})
}
