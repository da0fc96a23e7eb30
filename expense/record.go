// Package expense defines the expense ledger model and the query evaluator
// applied to completed query dialogs.
package expense

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar date format used across the ledger.
const DateLayout = "2006-01-02"

// MonthLayout is the derived YYYY-MM month format stored alongside each record.
const MonthLayout = "2006-01"

// Record is a single expense row. Immutable once appended.
type Record struct {
	ID          int64
	Date        time.Time
	Category    string
	Description string
	Amount      float64
	// Tags is the comma-joined, lower-cased tag list ("" when none).
	Tags string
	// Month is derived from Date as YYYY-MM.
	Month string
}

// New builds a Record with normalized category, tags, and derived month.
func New(date time.Time, category, description string, amount float64, tags []string) Record {
	return Record{
		Date:        date,
		Category:    NormalizeCategory(category),
		Description: strings.TrimSpace(description),
		Amount:      amount,
		Tags:        JoinTags(tags),
		Month:       date.Format(MonthLayout),
	}
}

// NormalizeCategory lower-cases and trims a category name. Category uniqueness
// is case-insensitive everywhere, so the normalized form is the stored form.
func NormalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// JoinTags joins tags into the stored comma-separated representation.
func JoinTags(tags []string) string {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, ", ")
}

// SplitTags parses raw user tag input. The literal "none" (any case) yields an
// empty set; otherwise the input is split on commas, trimmed, and lower-cased.
func SplitTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "none") {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

// DefaultCategories is the fixed category set that can never be deleted.
var DefaultCategories = []string{"food", "travel", "shopping", "entertainment", "utilities", "other"}

// IsDefaultCategory reports whether name is one of the protected defaults.
func IsDefaultCategory(name string) bool {
	name = NormalizeCategory(name)
	for _, d := range DefaultCategories {
		if name == d {
			return true
		}
	}
	return false
}

// Summary holds the precomputed monthly overview shown by /summary.
type Summary struct {
	// Month in YYYY-MM form.
	Month string
	// MonthlyExpense and AvgDailyExpense are display strings as stored in the
	// analysis data (they may carry currency formatting).
	MonthlyExpense  string
	AvgDailyExpense string
}

// NewSummary builds a Summary from raw amounts using the standard currency
// formatting. Backends that compute totals themselves go through this so all
// three render identically.
func NewSummary(month string, monthly, avgDaily float64) Summary {
	return Summary{
		Month:           month,
		MonthlyExpense:  Money(monthly),
		AvgDailyExpense: Money(avgDaily),
	}
}

// Money formats an amount as a display currency string.
func Money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}
