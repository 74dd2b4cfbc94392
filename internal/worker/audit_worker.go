// Package worker consumes record-created events and appends them to
// the audit trail in SQLite.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/storage"
)

type AuditWorker struct {
	storage *storage.SQLiteRepository
}

func NewAuditWorker(storage *storage.SQLiteRepository) *AuditWorker {
	return &AuditWorker{storage: storage}
}

// HandleRecordCreated appends one event to the audit trail. A returned
// error requeues the message.
func (w *AuditWorker) HandleRecordCreated(ctx context.Context, event *amqp.RecordCreatedEvent) error {
	slog.InfoContext(ctx, "Processing record event",
		"kind", event.Kind,
		"record_id", event.RecordID,
		"user_id", event.UserID)

	if event.Kind != amqp.KindExpense && event.Kind != amqp.KindIncome {
		// Unknown kinds are logged and dropped, requeueing cannot fix them.
		slog.WarnContext(ctx, "Skipping event of unknown kind", "kind", event.Kind, "record_id", event.RecordID)
		return nil
	}

	if err := w.storage.InsertRecordEvent(ctx, event.Kind, event.RecordID, event.UserID, event.AmountCents, event.OccurredAt); err != nil {
		return fmt.Errorf("insert record event: %w", err)
	}

	slog.InfoContext(ctx, "Record event stored",
		"kind", event.Kind,
		"record_id", event.RecordID)
	return nil
}
