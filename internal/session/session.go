package session

import (
	"fmt"
	"time"
)

// Key identifies the single session a user may hold per flow kind.
type Key struct {
	UserID int64    `json:"user_id"`
	Kind   FlowKind `json:"kind"`
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%s", k.UserID, k.Kind)
}

// Session is one in-flight guided entry form. Fields fill in as the
// state machine advances; the typed draft is assembled only at submit.
type Session struct {
	Key         Key       `json:"key"`
	State       State     `json:"state"`
	AmountCents int64     `json:"amount_cents"`
	Classifier  string    `json:"classifier"`
	Note        string    `json:"note"`
	StartedAt   time.Time `json:"started_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func newSession(key Key, now time.Time) *Session {
	return &Session{
		Key:       key,
		State:     StateAwaitingAmount,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// IdleSince reports whether the session has seen no input since the
// cutoff.
func (s *Session) IdleSince(cutoff time.Time) bool {
	return s.UpdatedAt.Before(cutoff)
}
