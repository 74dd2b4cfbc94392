package amqp

import (
	"encoding/json"
	"time"
)

// Record kinds carried in event messages.
const (
	KindExpense = "expense"
	KindIncome  = "income"
)

// RecordCreatedEvent announces a persisted expense or income record.
// Consumers fetch nothing extra; the event carries what the audit trail
// needs.
type RecordCreatedEvent struct {
	Kind        string    `json:"kind"`
	RecordID    int64     `json:"record_id"`
	UserID      int64     `json:"user_id"`
	AmountCents int64     `json:"amount_cents"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func NewRecordCreatedEvent(kind string, recordID, userID, amountCents int64) *RecordCreatedEvent {
	return &RecordCreatedEvent{
		Kind:        kind,
		RecordID:    recordID,
		UserID:      userID,
		AmountCents: amountCents,
		OccurredAt:  time.Now().UTC(),
	}
}

func (e *RecordCreatedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func RecordCreatedEventFromJSON(data []byte) (*RecordCreatedEvent, error) {
	var e RecordCreatedEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
