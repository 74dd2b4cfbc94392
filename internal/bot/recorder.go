package bot

import (
	"context"

	"fintrack/internal/api"
	"fintrack/internal/core"
	"fintrack/internal/session"
)

// Recorder submits completed guided entry flows to the record API.
type Recorder struct {
	client *api.Client
}

func NewRecorder(client *api.Client) *Recorder {
	return &Recorder{client: client}
}

func (r *Recorder) RecordExpense(ctx context.Context, draft session.ExpenseDraft) error {
	_, err := r.client.CreateExpense(ctx, api.Expense{
		UserID:      draft.UserID,
		Amount:      core.Money{Cents: draft.AmountCents},
		Category:    draft.Category,
		Description: draft.Note,
		Date:        draft.Date,
	})
	return err
}

func (r *Recorder) RecordIncome(ctx context.Context, draft session.IncomeDraft) error {
	_, err := r.client.CreateIncome(ctx, api.Income{
		UserID: draft.UserID,
		Amount: core.Money{Cents: draft.AmountCents},
		Source: draft.Source,
		Date:   draft.Date,
	})
	return err
}
