package amqp

import (
	"testing"
	"time"
)

func TestNewRecordCreatedEvent(t *testing.T) {
	event := NewRecordCreatedEvent(KindExpense, 12345, 42, 1250)

	if event.Kind != KindExpense {
		t.Errorf("Kind = %v, want %v", event.Kind, KindExpense)
	}
	if event.RecordID != 12345 {
		t.Errorf("RecordID = %v, want 12345", event.RecordID)
	}
	if event.UserID != 42 {
		t.Errorf("UserID = %v, want 42", event.UserID)
	}
	if event.AmountCents != 1250 {
		t.Errorf("AmountCents = %v, want 1250", event.AmountCents)
	}
	if event.OccurredAt.IsZero() {
		t.Error("OccurredAt should not be zero")
	}
	if time.Since(event.OccurredAt) > time.Second {
		t.Error("OccurredAt should be recent")
	}
}

func TestRecordCreatedEvent_JSON(t *testing.T) {
	occurredAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	event := &RecordCreatedEvent{
		Kind:        KindIncome,
		RecordID:    7,
		UserID:      42,
		AmountCents: 250000,
		OccurredAt:  occurredAt,
	}

	jsonBytes, err := event.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsed, err := RecordCreatedEventFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("RecordCreatedEventFromJSON() error = %v", err)
	}

	if parsed.Kind != event.Kind {
		t.Errorf("Parsed Kind = %v, want %v", parsed.Kind, event.Kind)
	}
	if parsed.RecordID != event.RecordID {
		t.Errorf("Parsed RecordID = %v, want %v", parsed.RecordID, event.RecordID)
	}
	if parsed.AmountCents != event.AmountCents {
		t.Errorf("Parsed AmountCents = %v, want %v", parsed.AmountCents, event.AmountCents)
	}
	if !parsed.OccurredAt.Equal(event.OccurredAt) {
		t.Errorf("Parsed OccurredAt = %v, want %v", parsed.OccurredAt, event.OccurredAt)
	}
}

func TestRecordCreatedEvent_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"record_id": "not_a_number"}`)

	_, err := RecordCreatedEventFromJSON(invalidJSON)
	if err == nil {
		t.Error("RecordCreatedEventFromJSON() should fail with invalid JSON")
	}
}
