package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// RecordService orchestrates record writes across SQLite and AMQP.
// Persistence is authoritative; event publishing is best effort.
type RecordService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewRecordService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *RecordService {
	return &RecordService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

func (s *RecordService) Storage() *storage.SQLiteRepository {
	return s.storage
}

// CreateExpense validates and saves an expense, then publishes a
// created event. A publish failure never fails the request.
func (s *RecordService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	saved, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publishCreated(ctx, amqp.NewRecordCreatedEvent(amqp.KindExpense, saved.ID, saved.UserID, saved.Amount.Cents))
	return saved, nil
}

// CreateIncome validates and saves an income record, then publishes a
// created event.
func (s *RecordService) CreateIncome(ctx context.Context, in core.Income) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	saved, err := s.storage.CreateIncome(ctx, in)
	if err != nil {
		return core.Income{}, fmt.Errorf("save income: %w", err)
	}

	s.publishCreated(ctx, amqp.NewRecordCreatedEvent(amqp.KindIncome, saved.ID, saved.UserID, saved.Amount.Cents))
	return saved, nil
}

func (s *RecordService) publishCreated(ctx context.Context, event *amqp.RecordCreatedEvent) {
	if s.amqpClient == nil {
		slog.DebugContext(ctx, "AMQP client not available, skipping event publish")
		return
	}

	if err := s.amqpClient.PublishRecordCreated(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record created event",
			"kind", event.Kind,
			"record_id", event.RecordID,
			"error", err)
	}
}

// Close closes both storage and AMQP connections.
func (s *RecordService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close record service: %v", errs)
	}

	return nil
}
