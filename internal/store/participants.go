package store

import (
	"context"
	"database/sql"

	"github.com/jungle/notifications-service/internal/domain"
)

// ParticipantStore is the participant registry: one row per task holding the
// creator and the current assignee set.
type ParticipantStore interface {
	// Get returns the participants of a task, or (nil, nil) when the task has
	// never been seen. Callers treat nil as "no known participants".
	Get(ctx context.Context, taskID string) (*domain.TaskParticipants, error)

	// Upsert inserts the row or replaces its assignee set. A creator already
	// stored is never overwritten, and an empty creator never clears one.
	// Repeating an upsert with the same values is a no-op.
	Upsert(ctx context.Context, p *domain.TaskParticipants) error

	// WithTx returns a ParticipantStore bound to tx.
	WithTx(tx *sql.Tx) ParticipantStore
}
