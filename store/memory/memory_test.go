package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m3rciful/spendbot/expense"
	"github.com/m3rciful/spendbot/store"
)

func newTestStore(t *testing.T) *Memory {
	t.Helper()
	m := New("expenses")
	m.now = func() time.Time { return time.Date(2024, 12, 10, 12, 0, 0, 0, time.UTC) }
	return m
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(expense.DateLayout, s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestAppendRecordAssignsSequentialIDs(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		id, err := m.AppendRecord(ctx, "expenses", expense.New(mustDate(t, "2024-12-01"), "food", "lunch", 10, nil))
		if err != nil {
			t.Fatal(err)
		}
		if id != want {
			t.Errorf("id = %d, want %d", id, want)
		}
	}

	recs, err := m.Records(ctx, "expenses")
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 || recs[2].ID != 3 {
		t.Errorf("records = %+v", recs)
	}
}

func TestAppendRecordUnknownSheet(t *testing.T) {
	m := newTestStore(t)
	_, err := m.AppendRecord(context.Background(), "nope", expense.Record{})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()

	if err := m.AddCategory(ctx, " Books "); err != nil {
		t.Fatal(err)
	}
	if err := m.AddCategory(ctx, "BOOKS"); !errors.Is(err, store.ErrExists) {
		t.Errorf("duplicate add err = %v, want ErrExists", err)
	}

	if err := m.RenameCategory(ctx, "books", "literature"); err != nil {
		t.Fatal(err)
	}
	if err := m.RenameCategory(ctx, "books", "x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("rename missing err = %v, want ErrNotFound", err)
	}
	if err := m.RenameCategory(ctx, "literature", "food"); !errors.Is(err, store.ErrExists) {
		t.Errorf("rename collision err = %v, want ErrExists", err)
	}

	if err := m.DeleteCategory(ctx, "literature"); err != nil {
		t.Fatal(err)
	}
	cats, err := m.ListCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != len(expense.DefaultCategories) {
		t.Errorf("categories = %v", cats)
	}
}

func TestDeleteDefaultCategoryProtected(t *testing.T) {
	m := newTestStore(t)
	err := m.DeleteCategory(context.Background(), "Food")
	if !errors.Is(err, store.ErrProtected) {
		t.Errorf("err = %v, want ErrProtected", err)
	}

	var se *store.Error
	if !errors.As(err, &se) || se.Code() != "STORE_DELETE_CATEGORY" {
		t.Errorf("code = %v", err)
	}
}

func TestSheetLifecycle(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()

	if err := m.CreateSheet(ctx, "2025"); err != nil {
		t.Fatal(err)
	}
	if err := m.CreateSheet(ctx, "2025"); !errors.Is(err, store.ErrExists) {
		t.Errorf("duplicate create err = %v, want ErrExists", err)
	}
	if err := m.SwitchActiveSheet(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("switch missing err = %v, want ErrNotFound", err)
	}
	if err := m.SwitchActiveSheet(ctx, "2025"); err != nil {
		t.Fatal(err)
	}

	active, err := m.ActiveSheet(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if active != "2025" {
		t.Errorf("active = %q, want 2025", active)
	}

	sheets, err := m.ListSheets(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sheets) != 2 || sheets[0] != "expenses" || sheets[1] != "2025" {
		t.Errorf("sheets = %v", sheets)
	}
}

func TestSummaryCurrentMonthOnly(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()

	seed := []expense.Record{
		expense.New(mustDate(t, "2024-12-01"), "food", "lunch", 30, nil),
		expense.New(mustDate(t, "2024-12-05"), "travel", "train", 70, nil),
		expense.New(mustDate(t, "2024-11-30"), "food", "old", 999, nil),
	}
	for _, rec := range seed {
		if _, err := m.AppendRecord(ctx, "expenses", rec); err != nil {
			t.Fatal(err)
		}
	}

	sum, err := m.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Month != "2024-12" {
		t.Errorf("month = %q", sum.Month)
	}
	if sum.MonthlyExpense != "$100.00" {
		t.Errorf("monthly = %q, want $100.00", sum.MonthlyExpense)
	}
	// now is pinned to the 10th.
	if sum.AvgDailyExpense != "$10.00" {
		t.Errorf("avg daily = %q, want $10.00", sum.AvgDailyExpense)
	}
}

func TestReportTables(t *testing.T) {
	m := newTestStore(t)
	ctx := context.Background()

	seed := []expense.Record{
		expense.New(mustDate(t, "2024-12-01"), "food", "lunch", 30, nil),
		expense.New(mustDate(t, "2024-12-05"), "food", "dinner", 20, nil),
		expense.New(mustDate(t, "2024-11-30"), "travel", "train", 70, nil),
	}
	for _, rec := range seed {
		if _, err := m.AppendRecord(ctx, "expenses", rec); err != nil {
			t.Fatal(err)
		}
	}

	headers, rows, err := m.ReportTable(ctx, store.ReportCategoryByMonth)
	if err != nil {
		t.Fatal(err)
	}
	if headers[0] != "Category" {
		t.Errorf("headers = %v", headers)
	}
	if len(rows) != 1 || rows[0][0] != "food" || rows[0][1] != "$50.00" {
		t.Errorf("current-month rows = %v", rows)
	}

	_, rows, err = m.ReportTable(ctx, store.ReportTrend)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0][0] != "2024-11" || rows[1][0] != "2024-12" {
		t.Errorf("trend rows = %v", rows)
	}

	_, rows, err = m.ReportTable(ctx, store.ReportCategoryAllTime)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Errorf("all-time rows = %v", rows)
	}

	if _, _, err := m.ReportTable(ctx, store.ReportKind("bogus")); err == nil {
		t.Error("expected error for unknown report kind")
	}
}

func TestUserSheetsFiltersReserved(t *testing.T) {
	got := store.UserSheets([]string{"expenses", "settings", "analysis", "2025"})
	if len(got) != 2 || got[0] != "expenses" || got[1] != "2025" {
		t.Errorf("got %v", got)
	}
}
