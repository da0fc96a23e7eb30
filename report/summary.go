package report

import (
	"fmt"
	"time"

	"github.com/m3rciful/spendbot/expense"
)

// FormatSummary renders the monthly overview message shown by /summary.
func FormatSummary(s expense.Summary) string {
	month := s.Month
	if t, err := time.Parse(expense.MonthLayout, s.Month); err == nil {
		month = t.Format("Jan 2006")
	}
	return fmt.Sprintf(
		"📊 Expense Summary for %s\n💰 Monthly Expense: %s\n📅 Average Daily Expense: %s",
		month, s.MonthlyExpense, s.AvgDailyExpense,
	)
}

// FormatQueryResult renders the outcome of a completed query. A result with no
// matches reports that explicitly instead of a zero total.
func FormatQueryResult(res expense.Result) string {
	if !res.Matched() {
		return "No matching records found."
	}
	return fmt.Sprintf("Found %d matching records.\nTotal Amount Spent: *$%.2f*", res.Count, res.Total)
}
