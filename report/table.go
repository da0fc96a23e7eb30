// Package report renders tabular query results as fixed-width plain text
// suitable for monospace chat display.
package report

import (
	"fmt"
	"strings"
)

// placeholder fills cells of rows shorter than the header.
const placeholder = "N/A"

// columnMargin is the trailing space padding applied to every column.
const columnMargin = 2

// Cell renders an arbitrary scalar as table text.
func Cell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return fmt.Sprintf("%.2f", x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// sanitize normalizes non-breaking spaces and trims surrounding whitespace, so
// spreadsheet-sourced cells measure and align consistently.
func sanitize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, " ", " "))
}

// FormatTable renders headers and rows into an aligned text table: a header
// line, a dash rule whose length is the sum of the column widths, then one
// line per row. Every cell is left-justified to its column's maximum display
// width plus a two-space margin. Rows shorter than the header are padded with
// an N/A placeholder. Output is deterministic and whitespace-stable.
func FormatTable(headers []string, rows [][]string) string {
	clean := make([]string, len(headers))
	widths := make([]int, len(headers))
	for i, h := range headers {
		clean[i] = sanitize(h)
		widths[i] = len(clean[i])
	}
	for _, row := range rows {
		for i := range headers {
			if i >= len(row) {
				continue
			}
			if w := len(sanitize(row[i])); w > widths[i] {
				widths[i] = w
			}
		}
	}

	total := 0
	for _, w := range widths {
		total += w
	}

	var b strings.Builder
	for i, h := range clean {
		b.WriteString(pad(h, widths[i]+columnMargin))
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("-", total))
	b.WriteByte('\n')

	for _, row := range rows {
		for i := range headers {
			cell := placeholder
			if i < len(row) {
				cell = sanitize(row[i])
			}
			b.WriteString(pad(cell, widths[i]+columnMargin))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// ColumnWidths reports the effective column widths of a table produced by
// FormatTable, margin included. Exposed for width-based parsing in tests.
func ColumnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(sanitize(h))
	}
	for _, row := range rows {
		for i := range headers {
			if i >= len(row) {
				continue
			}
			if w := len(sanitize(row[i])); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		widths[i] += columnMargin
	}
	return widths
}
