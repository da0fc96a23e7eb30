// Package memory implements an in-process datastore. It backs tests and local
// development runs where no spreadsheet or database is available.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m3rciful/spendbot/expense"
	"github.com/m3rciful/spendbot/store"
)

// Memory is a mutex-guarded datastore. The zero value is not usable; use New.
type Memory struct {
	mu         sync.RWMutex
	categories []string
	sheets     map[string][]expense.Record
	sheetOrder []string
	active     string
	nextID     int64

	now func() time.Time
}

// New returns a store seeded with the default categories and a single active
// expenses sheet.
func New(expensesSheet string) *Memory {
	m := &Memory{
		categories: append([]string(nil), expense.DefaultCategories...),
		sheets:     map[string][]expense.Record{expensesSheet: nil},
		sheetOrder: []string{expensesSheet},
		active:     expensesSheet,
		now:        time.Now,
	}
	return m
}

func (m *Memory) ListCategories(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.categories...), nil
}

func (m *Memory) AddCategory(_ context.Context, name string) error {
	name = expense.NormalizeCategory(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.indexOfCategory(name) >= 0 {
		return store.E("add_category", store.ErrExists)
	}
	m.categories = append(m.categories, name)
	return nil
}

func (m *Memory) RenameCategory(_ context.Context, oldName, newName string) error {
	oldName = expense.NormalizeCategory(oldName)
	newName = expense.NormalizeCategory(newName)
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOfCategory(oldName)
	if i < 0 {
		return store.E("rename_category", store.ErrNotFound)
	}
	if m.indexOfCategory(newName) >= 0 {
		return store.E("rename_category", store.ErrExists)
	}
	m.categories[i] = newName
	return nil
}

func (m *Memory) DeleteCategory(_ context.Context, name string) error {
	name = expense.NormalizeCategory(name)
	if expense.IsDefaultCategory(name) {
		return store.E("delete_category", store.ErrProtected)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.indexOfCategory(name)
	if i < 0 {
		return store.E("delete_category", store.ErrNotFound)
	}
	m.categories = append(m.categories[:i], m.categories[i+1:]...)
	return nil
}

// indexOfCategory must be called with the lock held.
func (m *Memory) indexOfCategory(name string) int {
	for i, c := range m.categories {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

func (m *Memory) AppendRecord(_ context.Context, sheet string, rec expense.Record) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[sheet]; !ok {
		return 0, store.E("append_record", store.ErrNotFound)
	}
	m.nextID++
	rec.ID = m.nextID
	m.sheets[sheet] = append(m.sheets[sheet], rec)
	return rec.ID, nil
}

func (m *Memory) Records(_ context.Context, sheet string) ([]expense.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	recs, ok := m.sheets[sheet]
	if !ok {
		return nil, store.E("records", store.ErrNotFound)
	}
	return append([]expense.Record(nil), recs...), nil
}

func (m *Memory) ListSheets(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.sheetOrder...), nil
}

func (m *Memory) CreateSheet(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[name]; ok {
		return store.E("create_sheet", store.ErrExists)
	}
	m.sheets[name] = nil
	m.sheetOrder = append(m.sheetOrder, name)
	return nil
}

func (m *Memory) SwitchActiveSheet(_ context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sheets[name]; !ok {
		return store.E("switch_active_sheet", store.ErrNotFound)
	}
	m.active = name
	return nil
}

func (m *Memory) ActiveSheet(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active, nil
}

func (m *Memory) Summary(_ context.Context) (expense.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	month := now.Format(expense.MonthLayout)
	var total float64
	for _, rec := range m.sheets[m.active] {
		if rec.Month == month {
			total += rec.Amount
		}
	}
	avg := total / float64(now.Day())
	return expense.NewSummary(month, total, avg), nil
}

func (m *Memory) ReportTable(_ context.Context, kind store.ReportKind) ([]string, [][]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := m.sheets[m.active]
	switch kind {
	case store.ReportCategoryByMonth:
		month := m.now().Format(expense.MonthLayout)
		var scoped []expense.Record
		for _, rec := range recs {
			if rec.Month == month {
				scoped = append(scoped, rec)
			}
		}
		return []string{"Category", "Total"}, totalsBy(scoped, func(r expense.Record) string { return r.Category }), nil
	case store.ReportTrend:
		return []string{"Month", "Total"}, totalsBy(recs, func(r expense.Record) string { return r.Month }), nil
	case store.ReportCategoryAllTime:
		return []string{"Category", "Total"}, totalsBy(recs, func(r expense.Record) string { return r.Category }), nil
	default:
		return nil, nil, store.E("report_table", store.ErrNotFound)
	}
}

// totalsBy aggregates amounts by key and returns rows sorted by key.
func totalsBy(recs []expense.Record, key func(expense.Record) string) [][]string {
	totals := make(map[string]float64)
	for _, rec := range recs {
		totals[key(rec)] += rec.Amount
	}
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, expense.Money(totals[k])})
	}
	return rows
}
