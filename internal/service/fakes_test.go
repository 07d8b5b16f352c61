package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jungle/notifications-service/internal/domain"
	"github.com/jungle/notifications-service/internal/store"
)

// memoryDB backs the fake stores. txRunner snapshots it before running a
// transaction and restores the snapshot on error, so tests observe the
// all-or-nothing behavior of a real transaction.
type memoryDB struct {
	mu            sync.Mutex
	participants  map[string]domain.TaskParticipants
	notifications []*domain.Notification

	getErr    error
	upsertErr error
	createErr error
	commitErr error
}

func newMemoryDB() *memoryDB {
	return &memoryDB{participants: make(map[string]domain.TaskParticipants)}
}

func (m *memoryDB) txRunner() store.TxRunner {
	return func(ctx context.Context, fn store.TxFn) error {
		m.mu.Lock()
		participants := make(map[string]domain.TaskParticipants, len(m.participants))
		for k, v := range m.participants {
			participants[k] = v
		}
		notifications := append([]*domain.Notification(nil), m.notifications...)
		m.mu.Unlock()

		err := fn(ctx, nil)
		if err == nil && m.commitErr != nil {
			err = m.commitErr
		}
		if err != nil {
			m.mu.Lock()
			m.participants = participants
			m.notifications = notifications
			m.mu.Unlock()
		}
		return err
	}
}

func (m *memoryDB) notificationsFor(taskID string) []*domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Notification
	for _, n := range m.notifications {
		if n.TaskID == taskID {
			out = append(out, n)
		}
	}
	return out
}

type fakeParticipantStore struct{ db *memoryDB }

func (f *fakeParticipantStore) Get(ctx context.Context, taskID string) (*domain.TaskParticipants, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.getErr != nil {
		return nil, f.db.getErr
	}
	p, ok := f.db.participants[taskID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeParticipantStore) Upsert(ctx context.Context, p *domain.TaskParticipants) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.upsertErr != nil {
		return f.db.upsertErr
	}
	row := *p
	if existing, ok := f.db.participants[p.TaskID]; ok && existing.CreatorID != "" {
		row.CreatorID = existing.CreatorID
	}
	row.AssigneeIDs = append([]string{}, p.AssigneeIDs...)
	f.db.participants[p.TaskID] = row
	return nil
}

func (f *fakeParticipantStore) WithTx(*sql.Tx) store.ParticipantStore { return f }

type fakeNotificationStore struct {
	db *memoryDB

	getByIDFn     func(id uuid.UUID, recipientID string) (*domain.Notification, error)
	markReadFn    func(id uuid.UUID, recipientID string, at time.Time) (*domain.Notification, error)
	markAllReadFn func(recipientID string, at time.Time) (int64, error)
	listUnreadFn  func(recipientID string, limit, offset int) ([]*domain.Notification, error)
}

func (f *fakeNotificationStore) CreateMany(ctx context.Context, notifications []*domain.Notification) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if f.db.createErr != nil {
		return f.db.createErr
	}
	f.db.notifications = append(f.db.notifications, notifications...)
	return nil
}

func (f *fakeNotificationStore) ListUnread(
	ctx context.Context,
	recipientID string,
	limit, offset int,
) ([]*domain.Notification, error) {
	return f.listUnreadFn(recipientID, limit, offset)
}

func (f *fakeNotificationStore) GetByID(ctx context.Context, id uuid.UUID, recipientID string) (*domain.Notification, error) {
	if f.getByIDFn == nil {
		return &domain.Notification{ID: id, RecipientID: recipientID}, nil
	}
	return f.getByIDFn(id, recipientID)
}

func (f *fakeNotificationStore) MarkRead(
	ctx context.Context,
	id uuid.UUID,
	recipientID string,
	at time.Time,
) (*domain.Notification, error) {
	return f.markReadFn(id, recipientID, at)
}

func (f *fakeNotificationStore) MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error) {
	return f.markAllReadFn(recipientID, at)
}

func (f *fakeNotificationStore) WithTx(*sql.Tx) store.NotificationStore { return f }
