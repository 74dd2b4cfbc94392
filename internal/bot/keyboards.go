package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Quick-action button labels shown on the main reply keyboard.
const (
	buttonAddExpense = "💸 Add expense"
	buttonAddIncome  = "💵 Add income"
	buttonStats      = "📊 Stats"
	buttonBalance    = "💼 Balance"
	buttonDashboard  = "📈 Dashboard"
	buttonCancel     = "❌ Cancel"
)

func mainKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonAddExpense),
			tgbotapi.NewKeyboardButton(buttonAddIncome),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonStats),
			tgbotapi.NewKeyboardButton(buttonBalance),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonDashboard),
		),
	)
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(buttonCancel),
		),
	)
}

// suggestionKeyboard lays out the given labels two per row, with a
// cancel button appended to the last row.
func suggestionKeyboard(labels []string) tgbotapi.ReplyKeyboardMarkup {
	all := make([]string, 0, len(labels)+1)
	all = append(all, labels...)
	all = append(all, buttonCancel)

	var rows [][]tgbotapi.KeyboardButton
	for i := 0; i < len(all); i += 2 {
		end := i + 2
		if end > len(all) {
			end = len(all)
		}
		row := make([]tgbotapi.KeyboardButton, 0, 2)
		for _, label := range all[i:end] {
			row = append(row, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}
