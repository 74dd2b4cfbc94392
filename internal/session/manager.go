package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fintrack/internal/core"
)

// Outcome classifies what a session did with one trigger.
type Outcome int

const (
	// OutcomePrompt means the session advanced (or started) and Text
	// prompts for the next field.
	OutcomePrompt Outcome = iota
	// OutcomeInvalid means the input was rejected and the state is
	// unchanged; Text re-prompts.
	OutcomeInvalid
	// OutcomeSubmitted means the record was created and the session
	// destroyed.
	OutcomeSubmitted
	// OutcomeFailed means submission failed; the session is destroyed
	// and no record was persisted.
	OutcomeFailed
	// OutcomeCancelled means the session was discarded on request.
	OutcomeCancelled
	// OutcomeNoSession means input arrived with no active session for
	// the (user, flow kind) pair.
	OutcomeNoSession
)

// Reply is the user-visible result of one trigger.
type Reply struct {
	Outcome Outcome
	Kind    FlowKind
	// State after processing; empty once the session is gone.
	State State
	Text  string
	// Suggestions are decorated labels to offer as quick buttons.
	Suggestions []string
}

// ExpenseDraft carries the fields of one completed expense flow.
type ExpenseDraft struct {
	UserID      int64
	AmountCents int64
	Category    string
	Note        string
	Date        core.Date
}

// IncomeDraft carries the fields of one completed income flow.
type IncomeDraft struct {
	UserID      int64
	AmountCents int64
	Source      string
	Date        core.Date
}

// Recorder is the single mutating dependency of the state machine.
type Recorder interface {
	RecordExpense(ctx context.Context, draft ExpenseDraft) error
	RecordIncome(ctx context.Context, draft IncomeDraft) error
}

// Manager drives guided entry sessions. Triggers for the same
// (user, flow kind) pair serialize on a per-key lock, so a blocking
// submission suspends only its own session.
type Manager struct {
	store    Store
	recorder Recorder
	ttl      time.Duration

	mu    sync.Mutex
	locks map[Key]*keyLock
}

// keyLock is reference counted so entries leave the map as soon as the
// last trigger for that key releases it, keeping memory bounded by the
// number of in-flight triggers rather than by users ever seen.
type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(store Store, recorder Recorder, ttl time.Duration) *Manager {
	return &Manager{
		store:    store,
		recorder: recorder,
		ttl:      ttl,
		locks:    make(map[Key]*keyLock),
	}
}

// lockKey serializes processing per session key.
func (m *Manager) lockKey(key Key) func() {
	m.mu.Lock()
	lock, ok := m.locks[key]
	if !ok {
		lock = &keyLock{}
		m.locks[key] = lock
	}
	lock.refs++
	m.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()

		m.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(m.locks, key)
		}
		m.mu.Unlock()
	}
}

// Start opens a fresh session, discarding any incomplete one for the
// same pair.
func (m *Manager) Start(ctx context.Context, kind FlowKind, userID int64) (Reply, error) {
	key := Key{UserID: userID, Kind: kind}
	defer m.lockKey(key)()

	s := newSession(key, time.Now().UTC())
	if err := m.store.Put(s); err != nil {
		return Reply{}, fmt.Errorf("store session %s: %w", key, err)
	}

	slog.InfoContext(ctx, "Session started", "user_id", userID, "kind", kind)
	return Reply{
		Outcome: OutcomePrompt,
		Kind:    kind,
		State:   StateAwaitingAmount,
		Text:    amountPrompt(kind),
	}, nil
}

// Input applies one text message to the session for the given pair.
func (m *Manager) Input(ctx context.Context, kind FlowKind, userID int64, text string) (Reply, error) {
	key := Key{UserID: userID, Kind: kind}
	defer m.lockKey(key)()

	s, ok, err := m.store.Get(key)
	if err != nil {
		return Reply{}, fmt.Errorf("load session %s: %w", key, err)
	}
	if !ok {
		return Reply{
			Outcome: OutcomeNoSession,
			Kind:    kind,
			Text:    "No entry in progress. Use /expense or /income to start one.",
		}, nil
	}

	switch s.State {
	case StateAwaitingAmount:
		return m.applyAmount(ctx, s, text)
	case StateAwaitingClassifier:
		return m.applyClassifier(ctx, s, text)
	case StateAwaitingNote:
		note := text
		if note == SkipToken {
			note = ""
		}
		s.Note = note
		return m.submit(ctx, s)
	default:
		// Unknown persisted state, drop the session rather than wedge.
		slog.WarnContext(ctx, "Discarding session in unknown state", "key", key.String(), "state", s.State)
		if err := m.store.Delete(key); err != nil {
			return Reply{}, fmt.Errorf("delete session %s: %w", key, err)
		}
		return Reply{
			Outcome: OutcomeNoSession,
			Kind:    kind,
			Text:    "No entry in progress. Use /expense or /income to start one.",
		}, nil
	}
}

// Cancel discards the session for the pair, from any state.
func (m *Manager) Cancel(ctx context.Context, kind FlowKind, userID int64) (Reply, error) {
	key := Key{UserID: userID, Kind: kind}
	defer m.lockKey(key)()

	if err := m.store.Delete(key); err != nil {
		return Reply{}, fmt.Errorf("delete session %s: %w", key, err)
	}

	slog.InfoContext(ctx, "Session cancelled", "user_id", userID, "kind", kind)
	return Reply{
		Outcome: OutcomeCancelled,
		Kind:    kind,
		Text:    "❌ Action cancelled",
	}, nil
}

func (m *Manager) applyAmount(ctx context.Context, s *Session, text string) (Reply, error) {
	cents, err := core.ParseAmount(text)
	if err != nil {
		// Recoverable: re-prompt without advancing.
		return Reply{
			Outcome: OutcomeInvalid,
			Kind:    s.Key.Kind,
			State:   StateAwaitingAmount,
			Text:    "❌ Invalid amount! Enter a number greater than 0.\nFor example: 500 or 1250.50",
		}, nil
	}

	s.AmountCents = cents
	s.State = StateAwaitingClassifier
	s.UpdatedAt = time.Now().UTC()
	if err := m.store.Put(s); err != nil {
		return Reply{}, fmt.Errorf("store session %s: %w", s.Key, err)
	}

	amount := core.Money{Cents: cents}.String()
	text = "✅ Amount: " + amount + "\n\nChoose a category:"
	if s.Key.Kind == FlowIncome {
		text = "✅ Amount: " + amount + "\n\nChoose the income source:"
	}
	return Reply{
		Outcome:     OutcomePrompt,
		Kind:        s.Key.Kind,
		State:       StateAwaitingClassifier,
		Text:        text,
		Suggestions: ClassifierSuggestions(s.Key.Kind),
	}, nil
}

func (m *Manager) applyClassifier(ctx context.Context, s *Session, text string) (Reply, error) {
	s.Classifier = CanonicalClassifier(s.Key.Kind, text)

	if s.Key.Kind == FlowIncome {
		// Income flow has no note step.
		return m.submit(ctx, s)
	}

	s.State = StateAwaitingNote
	s.UpdatedAt = time.Now().UTC()
	if err := m.store.Put(s); err != nil {
		return Reply{}, fmt.Errorf("store session %s: %w", s.Key, err)
	}

	return Reply{
		Outcome:     OutcomePrompt,
		Kind:        FlowExpense,
		State:       StateAwaitingNote,
		Text:        "📝 Category: " + s.Classifier + "\n\nAdd a note or press '" + SkipToken + "':",
		Suggestions: []string{SkipToken},
	}, nil
}

// submit issues the single record-creation call and destroys the
// session, whatever the outcome. The record date is the flow's start
// date.
func (m *Manager) submit(ctx context.Context, s *Session) (Reply, error) {
	if err := m.store.Delete(s.Key); err != nil {
		return Reply{}, fmt.Errorf("delete session %s: %w", s.Key, err)
	}

	date := core.DateOf(s.StartedAt)
	amount := core.Money{Cents: s.AmountCents}.String()

	var submitErr error
	var successText string
	switch s.Key.Kind {
	case FlowExpense:
		submitErr = m.recorder.RecordExpense(ctx, ExpenseDraft{
			UserID:      s.Key.UserID,
			AmountCents: s.AmountCents,
			Category:    s.Classifier,
			Note:        s.Note,
			Date:        date,
		})
		note := s.Note
		if note == "" {
			note = "None"
		}
		successText = "✅ Expense saved!\n\n💰 Amount: " + amount +
			"\n📂 Category: " + s.Classifier +
			"\n📝 Note: " + note
	case FlowIncome:
		submitErr = m.recorder.RecordIncome(ctx, IncomeDraft{
			UserID:      s.Key.UserID,
			AmountCents: s.AmountCents,
			Source:      s.Classifier,
			Date:        date,
		})
		successText = "✅ Income saved!\n\n💵 Amount: " + amount +
			"\n📂 Source: " + s.Classifier
	}

	if submitErr != nil {
		slog.ErrorContext(ctx, "Record submission failed",
			"user_id", s.Key.UserID,
			"kind", s.Key.Kind,
			"amount_cents", s.AmountCents,
			"error", submitErr)
		return Reply{
			Outcome: OutcomeFailed,
			Kind:    s.Key.Kind,
			Text:    "❌ Could not save the record. Please try again.",
		}, nil
	}

	slog.InfoContext(ctx, "Record submitted",
		"user_id", s.Key.UserID,
		"kind", s.Key.Kind,
		"amount_cents", s.AmountCents,
		"classifier", s.Classifier)
	return Reply{
		Outcome: OutcomeSubmitted,
		Kind:    s.Key.Kind,
		Text:    successText,
	}, nil
}

// ExpireIdle drops sessions with no input for the configured TTL.
func (m *Manager) ExpireIdle(ctx context.Context) int {
	removed, err := m.store.DeleteIdle(time.Now().UTC().Add(-m.ttl))
	if err != nil {
		slog.ErrorContext(ctx, "Session expiry sweep failed", "error", err)
		return 0
	}
	if removed > 0 {
		slog.InfoContext(ctx, "Expired idle sessions", "count", removed)
	}
	return removed
}

// Run sweeps idle sessions periodically until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	interval := m.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.ExpireIdle(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func amountPrompt(kind FlowKind) string {
	if kind == FlowIncome {
		return "💵 Enter the income amount:\nFor example: 50000"
	}
	return "💰 Enter the expense amount:\nFor example: 500 or 1250.50"
}
