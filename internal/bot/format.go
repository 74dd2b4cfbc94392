package bot

import (
	"fmt"
	"strings"

	"fintrack/internal/api"
)

const topCategories = 5

func formatGreeting(firstName string) string {
	return fmt.Sprintf(
		"👋 Hi, %s!\n\n"+
			"I help you keep track of your finances 💰\n\n"+
			"Available commands:\n"+
			"💸 /expense - Add an expense\n"+
			"💵 /income - Add an income\n"+
			"📊 /stats - Statistics\n"+
			"💼 /balance - Balance\n"+
			"📈 /report - Open the dashboard\n\n"+
			"Or use the quick buttons below! ⬇️",
		firstName,
	)
}

// formatStats renders the summary and the top spending categories of
// the last 30 days. Categories arrive sorted by total, largest first.
func formatStats(summary api.Summary, byCategory []api.CategoryStat) string {
	var b strings.Builder
	b.WriteString("📊 *Expense statistics*\n\n")
	fmt.Fprintf(&b, "📅 Today: %s\n", summary.Today)
	fmt.Fprintf(&b, "📅 Last 7 days: %s\n", summary.Week)
	fmt.Fprintf(&b, "📅 Last 30 days: %s\n", summary.Month)

	if len(byCategory) > 0 {
		b.WriteString("\n📂 *By category (30 days):*\n")
		for i, cat := range byCategory {
			if i == topCategories {
				break
			}
			fmt.Fprintf(&b, "• %s: %s\n", cat.Category, cat.Total)
		}
	}
	return b.String()
}

func formatBalance(balance api.Balance) string {
	marker := "💰"
	if balance.Balance.Cents < 0 {
		marker = "⚠️"
	}

	var b strings.Builder
	b.WriteString("💼 *Balance*\n\n")
	fmt.Fprintf(&b, "💵 Income: %s\n", balance.Income)
	fmt.Fprintf(&b, "💸 Expenses: %s\n", balance.Expenses)
	fmt.Fprintf(&b, "%s Net: %s", marker, balance.Balance)
	return b.String()
}

func formatDashboardLink(dashboardURL string, userID int64) string {
	return fmt.Sprintf(
		"📊 Open the dashboard for detailed analytics:\n\n"+
			"🔗 %s?user_id=%d\n\n"+
			"The dashboard shows:\n"+
			"• 📊 Spending by category\n"+
			"• 📈 Daily spending over time\n"+
			"• 📉 Monthly trends\n"+
			"• 💼 Your current balance",
		dashboardURL, userID,
	)
}
