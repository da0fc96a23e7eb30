package report

import (
	"strings"
	"testing"

	"github.com/m3rciful/spendbot/expense"
)

func TestFormatTableAlignment(t *testing.T) {
	headers := []string{"Category", "Total"}
	rows := [][]string{
		{"food", "120.50"},
		{"entertainment", "8.00"},
	}
	got := FormatTable(headers, rows)
	lines := strings.Split(got, "\n")
	if len(lines) != 5 || lines[4] != "" {
		t.Fatalf("expected 4 lines + trailing newline, got %q", got)
	}

	// widest cells: "entertainment" (13), "120.50" (6)
	if lines[1] != strings.Repeat("-", 13+6) {
		t.Errorf("separator = %q, want %d dashes", lines[1], 19)
	}
	if !strings.HasPrefix(lines[0], "Category       ") {
		t.Errorf("header not padded to width+2: %q", lines[0])
	}
}

func TestFormatTableShortRowPlaceholder(t *testing.T) {
	got := FormatTable([]string{"Month", "Total"}, [][]string{{"2024-12"}})
	if !strings.Contains(got, "N/A") {
		t.Errorf("missing N/A placeholder: %q", got)
	}
}

func TestFormatTableNonBreakingSpace(t *testing.T) {
	got := FormatTable([]string{"Total"}, [][]string{{"$ 1 200"}})
	if strings.Contains(got, " ") {
		t.Errorf("non-breaking space survived: %q", got)
	}
	if !strings.Contains(got, "$ 1 200") {
		t.Errorf("cell not normalized: %q", got)
	}
}

// Cells must survive a round trip through formatting and width-based parsing,
// modulo trimming.
func TestFormatTableRoundTrip(t *testing.T) {
	headers := []string{"ID", "Category", "Amount"}
	rows := [][]string{
		{"1", "food", "12.50"},
		{"2", "travel", "1300.00"},
		{"3", "x", "0.99"},
	}
	widths := ColumnWidths(headers, rows)
	out := FormatTable(headers, rows)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != len(rows)+2 {
		t.Fatalf("line count = %d", len(lines))
	}

	parse := func(line string) []string {
		cells := make([]string, 0, len(widths))
		pos := 0
		for _, w := range widths {
			end := pos + w
			if end > len(line) {
				end = len(line)
			}
			cells = append(cells, strings.TrimSpace(line[pos:end]))
			pos = end
		}
		return cells
	}

	if got := parse(lines[0]); !equal(got, headers) {
		t.Errorf("headers round trip = %v", got)
	}
	for i, row := range rows {
		if got := parse(lines[i+2]); !equal(got, row) {
			t.Errorf("row %d round trip = %v, want %v", i, got, row)
		}
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFormatQueryResultNoMatches(t *testing.T) {
	got := FormatQueryResult(expense.Result{})
	if got != "No matching records found." {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "$0.00") {
		t.Error("zero total must not be rendered for empty results")
	}
}

func TestFormatQueryResultTotal(t *testing.T) {
	got := FormatQueryResult(expense.Result{Count: 3, Total: 42.5})
	if !strings.Contains(got, "Found 3 matching records.") || !strings.Contains(got, "$42.50") {
		t.Errorf("got %q", got)
	}
}

func TestFormatSummary(t *testing.T) {
	got := FormatSummary(expense.Summary{Month: "2024-12", MonthlyExpense: "$410.20", AvgDailyExpense: "$13.23"})
	if !strings.Contains(got, "Dec 2024") || !strings.Contains(got, "$410.20") {
		t.Errorf("got %q", got)
	}
}

func TestCell(t *testing.T) {
	if got := Cell(12.5); got != "12.50" {
		t.Errorf("Cell(12.5) = %q", got)
	}
	if got := Cell("x"); got != "x" {
		t.Errorf("Cell(x) = %q", got)
	}
	if got := Cell(7); got != "7" {
		t.Errorf("Cell(7) = %q", got)
	}
}
