// Package session implements the guided entry flows of the bot: a
// per-(user, flow kind) state machine that collects the fields of one
// record before submitting it as a single creation request.
package session

// FlowKind selects which guided entry form a session follows.
type FlowKind string

const (
	FlowExpense FlowKind = "expense"
	FlowIncome  FlowKind = "income"
)

// State is the current position of a session within its flow.
type State string

const (
	// StateAwaitingAmount waits for a positive decimal amount.
	StateAwaitingAmount State = "awaiting_amount"
	// StateAwaitingClassifier waits for a category (expense) or a
	// source (income). Any text is accepted.
	StateAwaitingClassifier State = "awaiting_classifier"
	// StateAwaitingNote waits for an optional note. Expense flow only.
	StateAwaitingNote State = "awaiting_note"
)

// SkipToken is the button label that skips the optional note step.
const SkipToken = "⏭ Skip"

// expenseCategories maps decorated suggestion labels to canonical
// category names. Unmapped input passes through unchanged.
var expenseCategories = map[string]string{
	"🍔 Food":          "Food",
	"🚗 Transport":     "Transport",
	"🏠 Housing":       "Housing",
	"🎬 Entertainment": "Entertainment",
	"👕 Clothes":       "Clothes",
	"💊 Health":        "Health",
	"📚 Education":     "Education",
	"🎁 Gifts":         "Gifts",
	"💰 Other":         "Other",
}

// incomeSources maps decorated suggestion labels to canonical source
// names.
var incomeSources = map[string]string{
	"💼 Salary":      "Salary",
	"💰 Freelance":   "Freelance",
	"🎁 Gift":        "Gift",
	"📈 Investments": "Investments",
	"💸 Other":       "Other",
}

// expenseCategoryOrder fixes the presentation order of the suggestion
// buttons.
var expenseCategoryOrder = []string{
	"🍔 Food", "🚗 Transport",
	"🏠 Housing", "🎬 Entertainment",
	"👕 Clothes", "💊 Health",
	"📚 Education", "🎁 Gifts",
	"💰 Other",
}

var incomeSourceOrder = []string{
	"💼 Salary", "💰 Freelance",
	"🎁 Gift", "📈 Investments",
	"💸 Other",
}

// CanonicalClassifier resolves a suggestion label to its canonical
// form. Free text that matches no suggestion is returned verbatim.
func CanonicalClassifier(kind FlowKind, input string) string {
	var table map[string]string
	switch kind {
	case FlowExpense:
		table = expenseCategories
	case FlowIncome:
		table = incomeSources
	default:
		return input
	}
	if canonical, ok := table[input]; ok {
		return canonical
	}
	return input
}

// ClassifierSuggestions returns the decorated suggestion labels for a
// flow kind, in display order.
func ClassifierSuggestions(kind FlowKind) []string {
	switch kind {
	case FlowExpense:
		return expenseCategoryOrder
	case FlowIncome:
		return incomeSourceOrder
	default:
		return nil
	}
}
