package expense

import (
	"strings"
	"time"
)

// FilterKind identifies one predicate of a query.
type FilterKind string

const (
	FilterMonth     FilterKind = "month"
	FilterCategory  FilterKind = "category"
	FilterTags      FilterKind = "tags"
	FilterStartDate FilterKind = "start_date"
	FilterEndDate   FilterKind = "end_date"
)

// Filter is one accumulated (kind, value) pair of a query dialog. Text carries
// month/category/tag values; Date carries period bounds.
type Filter struct {
	Kind FilterKind
	Text string
	Date time.Time
}

// Result aggregates the records that passed all filters.
type Result struct {
	Count int
	Total float64
}

// Matched reports whether any record passed the filters. Callers must render
// a "no matching records" outcome when false rather than a zero total, so an
// empty ledger is distinguishable from zero spend.
func (r Result) Matched() bool {
	return r.Count > 0
}

// Evaluate applies filters as a conjunction over records and aggregates the
// count and amount total of the survivors.
func Evaluate(filters []Filter, records []Record) Result {
	var res Result
	for _, rec := range records {
		if matchesAll(filters, rec) {
			res.Count++
			res.Total += rec.Amount
		}
	}
	return res
}

func matchesAll(filters []Filter, rec Record) bool {
	for _, f := range filters {
		if !matches(f, rec) {
			return false
		}
	}
	return true
}

func matches(f Filter, rec Record) bool {
	switch f.Kind {
	case FilterMonth:
		return rec.Month == f.Text
	case FilterCategory:
		return strings.EqualFold(rec.Category, f.Text)
	case FilterTags:
		return strings.Contains(strings.ToLower(rec.Tags), strings.ToLower(f.Text))
	case FilterStartDate:
		return !rec.Date.Before(f.Date)
	case FilterEndDate:
		return !rec.Date.After(f.Date)
	default:
		return false
	}
}
