// Package store declares the datastore port the dialog flows talk to, plus the
// backend-independent pieces: typed errors, the reserved sheet names, and the
// active-sheet holder.
package store

import (
	"context"

	"github.com/m3rciful/spendbot/expense"
)

// ReportKind selects one of the precomputed report tables.
type ReportKind string

const (
	// ReportCategoryByMonth is the current month broken down by category.
	ReportCategoryByMonth ReportKind = "category_by_month"
	// ReportTrend is the month-over-month spend trend.
	ReportTrend ReportKind = "trend"
	// ReportCategoryAllTime is the all-time per-category breakdown.
	ReportCategoryAllTime ReportKind = "category_all_time"
)

// Reserved worksheet names that never appear in user-facing sheet lists.
const (
	SettingsSheet = "settings"
	AnalysisSheet = "analysis"
)

// Store is the tabular datastore behind the bot. Implementations must assign
// record IDs atomically on their side; callers never compute the next ID from
// a previously observed record count.
type Store interface {
	ListCategories(ctx context.Context) ([]string, error)
	AddCategory(ctx context.Context, name string) error
	RenameCategory(ctx context.Context, oldName, newName string) error
	// DeleteCategory fails with ErrProtected for default categories.
	DeleteCategory(ctx context.Context, name string) error

	// AppendRecord persists rec on the named sheet and returns its assigned id.
	AppendRecord(ctx context.Context, sheet string, rec expense.Record) (int64, error)
	Records(ctx context.Context, sheet string) ([]expense.Record, error)

	ListSheets(ctx context.Context) ([]string, error)
	CreateSheet(ctx context.Context, name string) error
	// SwitchActiveSheet persists the active-sheet pointer.
	SwitchActiveSheet(ctx context.Context, name string) error
	// ActiveSheet reads the persisted active-sheet pointer.
	ActiveSheet(ctx context.Context) (string, error)

	Summary(ctx context.Context) (expense.Summary, error)
	ReportTable(ctx context.Context, kind ReportKind) (headers []string, rows [][]string, err error)
}

// CategoriesOrDefault lists categories, falling back to the fixed default set
// when the store is unreachable or empty.
func CategoriesOrDefault(ctx context.Context, s Store) []string {
	cats, err := s.ListCategories(ctx)
	if err != nil || len(cats) == 0 {
		return append([]string(nil), expense.DefaultCategories...)
	}
	return cats
}

// UserSheets filters reserved bookkeeping worksheets out of a sheet list.
func UserSheets(all []string) []string {
	out := make([]string, 0, len(all))
	for _, name := range all {
		if name == SettingsSheet || name == AnalysisSheet {
			continue
		}
		out = append(out, name)
	}
	return out
}
