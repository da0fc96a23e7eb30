package dialog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/spendbot/expense"
)

// ValidationError keeps the dialog on its current step and sends Message back
// to the user, with an optional keyboard re-offer.
type ValidationError struct {
	Message string
	Options []string
}

func (e *ValidationError) Error() string { return e.Message }

// Invalid builds a plain validation error.
func Invalid(message string) error {
	return &ValidationError{Message: message}
}

// InvalidChoice builds a validation error that re-offers the keyboard.
func InvalidChoice(message string, options []string) error {
	return &ValidationError{Message: message, Options: options}
}

// periodLayout accepts both "1 Dec 2024" and "01 Dec 2024".
const periodLayout = "2 Jan 2006"

// ParseDate accepts "today", "yesterday" (case-insensitive) or a YYYY-MM-DD
// date resolved against now.
func ParseDate(input string, now time.Time) (time.Time, error) {
	switch strings.ToLower(input) {
	case "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	d, err := time.Parse(expense.DateLayout, input)
	if err != nil {
		return time.Time{}, Invalid("Invalid date format. Please use YYYY-MM-DD, 'today', or 'yesterday'.")
	}
	return d, nil
}

// ParseAmount parses a non-negative decimal amount, tolerating a leading
// currency sign.
func ParseAmount(input string) (float64, error) {
	input = strings.TrimPrefix(input, "$")
	v, err := strconv.ParseFloat(input, 64)
	if err != nil || v < 0 {
		return 0, Invalid("Invalid amount. Please enter a numeric value (e.g., 12.50).")
	}
	return v, nil
}

// ParseMonth converts "MMM YYYY" user input into the stored YYYY-MM form.
func ParseMonth(input string) (string, error) {
	t, err := time.Parse("Jan 2006", input)
	if err != nil {
		return "", Invalid("Invalid month format. Please use 'MMM YYYY' (e.g., Dec 2024).")
	}
	return t.Format(expense.MonthLayout), nil
}

// ParsePeriodDate parses a "DD MMM YYYY" boundary date; example feeds the
// error message so start and end prompts can show different samples.
func ParsePeriodDate(input, example string) (time.Time, error) {
	t, err := time.Parse(periodLayout, input)
	if err != nil {
		return time.Time{}, Invalid(fmt.Sprintf("Invalid date format. Please use 'DD MMM YYYY' (e.g., %s).", example))
	}
	return t, nil
}

// FormatPeriodDate renders a period boundary the way prompts echo it back.
func FormatPeriodDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}

// MatchOption matches input against the offered options, ignoring case and
// surrounding whitespace, and returns the canonical option.
func MatchOption(input string, options []string) (string, bool) {
	input = strings.TrimSpace(input)
	for _, opt := range options {
		if strings.EqualFold(input, opt) {
			return opt, true
		}
	}
	return "", false
}

// MatchYesNo interprets a confirm answer. It accepts the keyboard labels as
// well as bare yes/no variants typed by hand.
func MatchYesNo(input string) (yes bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "✅ yes", "yes", "y":
		return true, true
	case "❌ no", "no", "n":
		return false, true
	}
	return false, false
}
