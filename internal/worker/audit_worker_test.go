package worker

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/amqp"
	"fintrack/internal/storage"
)

func newTestWorker(t *testing.T) *AuditWorker {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "fintrack.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return NewAuditWorker(repo)
}

func TestHandleRecordCreated(t *testing.T) {
	w := newTestWorker(t)

	event := amqp.NewRecordCreatedEvent(amqp.KindExpense, 1, 42, 1250)
	require.NoError(t, w.HandleRecordCreated(context.Background(), event))
}

func TestHandleRecordCreatedUnknownKindDropped(t *testing.T) {
	w := newTestWorker(t)

	event := &amqp.RecordCreatedEvent{
		Kind:        "transfer",
		RecordID:    9,
		UserID:      42,
		AmountCents: 100,
		OccurredAt:  time.Now().UTC(),
	}
	assert.NoError(t, w.HandleRecordCreated(context.Background(), event))
}
