// Package postgres implements the datastore on Postgres. Sheets become rows in
// a sheets table, records reference their sheet, and aggregates are computed
// with SQL instead of spreadsheet formulas.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/m3rciful/spendbot/expense"
	"github.com/m3rciful/spendbot/store"
)

const activeSheetKey = "active_sheet"

// Client is a Store backed by Postgres via sqlx.
type Client struct {
	db *sqlx.DB
	// expensesSheet is the fallback when no active pointer row exists yet.
	expensesSheet string

	now func() time.Time
}

var _ store.Store = (*Client)(nil)

// New wraps an already connected pool. Schema setup runs through migrations,
// not here.
func New(db *sqlx.DB, expensesSheet string) *Client {
	return &Client{db: db, expensesSheet: expensesSheet, now: time.Now}
}

// uniqueViolation reports whether err is a Postgres unique-constraint error.
func uniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var out []string
	err := c.db.SelectContext(ctx, &out, `SELECT name FROM categories ORDER BY id`)
	if err != nil {
		return nil, store.E("list_categories", err)
	}
	return out, nil
}

func (c *Client) AddCategory(ctx context.Context, name string) error {
	name = expense.NormalizeCategory(name)
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return store.E("add_category", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.E("add_category", store.ErrExists)
	}
	return nil
}

func (c *Client) RenameCategory(ctx context.Context, oldName, newName string) error {
	oldName = expense.NormalizeCategory(oldName)
	newName = expense.NormalizeCategory(newName)
	res, err := c.db.ExecContext(ctx,
		`UPDATE categories SET name = $2 WHERE name = $1`, oldName, newName)
	if err != nil {
		if uniqueViolation(err) {
			return store.E("rename_category", store.ErrExists)
		}
		return store.E("rename_category", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.E("rename_category", store.ErrNotFound)
	}
	return nil
}

func (c *Client) DeleteCategory(ctx context.Context, name string) error {
	name = expense.NormalizeCategory(name)
	if expense.IsDefaultCategory(name) {
		return store.E("delete_category", store.ErrProtected)
	}
	res, err := c.db.ExecContext(ctx, `DELETE FROM categories WHERE name = $1`, name)
	if err != nil {
		return store.E("delete_category", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.E("delete_category", store.ErrNotFound)
	}
	return nil
}

// AppendRecord relies on the bigserial column for ID assignment, so concurrent
// inserts never observe or race on a counter.
func (c *Client) AppendRecord(ctx context.Context, sheet string, rec expense.Record) (int64, error) {
	var id int64
	err := c.db.QueryRowxContext(ctx, `
		INSERT INTO expenses (sheet_id, spent_on, category, description, amount, tags, month)
		SELECT s.id, $2, $3, $4, $5, $6, $7 FROM sheets s WHERE s.name = $1
		RETURNING id`,
		sheet, rec.Date, rec.Category, rec.Description, rec.Amount, rec.Tags, rec.Month,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, store.E("append_record", store.ErrNotFound)
	}
	if err != nil {
		return 0, store.E("append_record", err)
	}
	return id, nil
}

type recordRow struct {
	ID          int64     `db:"id"`
	SpentOn     time.Time `db:"spent_on"`
	Category    string    `db:"category"`
	Description string    `db:"description"`
	Amount      float64   `db:"amount"`
	Tags        string    `db:"tags"`
	Month       string    `db:"month"`
}

func (c *Client) Records(ctx context.Context, sheet string) ([]expense.Record, error) {
	var exists bool
	if err := c.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM sheets WHERE name = $1)`, sheet); err != nil {
		return nil, store.E("records", err)
	}
	if !exists {
		return nil, store.E("records", store.ErrNotFound)
	}

	var rows []recordRow
	err := c.db.SelectContext(ctx, &rows, `
		SELECT e.id, e.spent_on, e.category, e.description, e.amount, e.tags, e.month
		FROM expenses e JOIN sheets s ON s.id = e.sheet_id
		WHERE s.name = $1 ORDER BY e.id`, sheet)
	if err != nil {
		return nil, store.E("records", err)
	}
	recs := make([]expense.Record, len(rows))
	for i, r := range rows {
		recs[i] = expense.Record{
			ID:          r.ID,
			Date:        r.SpentOn,
			Category:    r.Category,
			Description: r.Description,
			Amount:      r.Amount,
			Tags:        r.Tags,
			Month:       r.Month,
		}
	}
	return recs, nil
}

func (c *Client) ListSheets(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.db.SelectContext(ctx, &out, `SELECT name FROM sheets ORDER BY id`); err != nil {
		return nil, store.E("list_sheets", err)
	}
	return out, nil
}

func (c *Client) CreateSheet(ctx context.Context, name string) error {
	res, err := c.db.ExecContext(ctx,
		`INSERT INTO sheets (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return store.E("create_sheet", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.E("create_sheet", store.ErrExists)
	}
	return nil
}

func (c *Client) SwitchActiveSheet(ctx context.Context, name string) error {
	res, err := c.db.ExecContext(ctx, `
		INSERT INTO app_settings (key, value)
		SELECT $1, s.name FROM sheets s WHERE s.name = $2
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		activeSheetKey, name)
	if err != nil {
		return store.E("switch_active_sheet", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.E("switch_active_sheet", store.ErrNotFound)
	}
	return nil
}

func (c *Client) ActiveSheet(ctx context.Context) (string, error) {
	var name string
	err := c.db.GetContext(ctx, &name,
		`SELECT value FROM app_settings WHERE key = $1`, activeSheetKey)
	if errors.Is(err, sql.ErrNoRows) {
		return c.expensesSheet, nil
	}
	if err != nil {
		return "", store.E("active_sheet", err)
	}
	return name, nil
}

func (c *Client) Summary(ctx context.Context) (expense.Summary, error) {
	active, err := c.ActiveSheet(ctx)
	if err != nil {
		return expense.Summary{}, err
	}
	now := c.now()
	month := now.Format(expense.MonthLayout)

	var total float64
	err = c.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(e.amount), 0)
		FROM expenses e JOIN sheets s ON s.id = e.sheet_id
		WHERE s.name = $1 AND e.month = $2`, active, month)
	if err != nil {
		return expense.Summary{}, store.E("summary", err)
	}
	return expense.NewSummary(month, total, total/float64(now.Day())), nil
}

type reportRow struct {
	Key   string  `db:"key"`
	Total float64 `db:"total"`
}

func (c *Client) ReportTable(ctx context.Context, kind store.ReportKind) ([]string, [][]string, error) {
	active, err := c.ActiveSheet(ctx)
	if err != nil {
		return nil, nil, err
	}

	var (
		headers []string
		query   string
		args    []any
	)
	switch kind {
	case store.ReportCategoryByMonth:
		headers = []string{"Category", "Total"}
		query = `
			SELECT e.category AS key, SUM(e.amount) AS total
			FROM expenses e JOIN sheets s ON s.id = e.sheet_id
			WHERE s.name = $1 AND e.month = $2
			GROUP BY e.category ORDER BY e.category`
		args = []any{active, c.now().Format(expense.MonthLayout)}
	case store.ReportTrend:
		headers = []string{"Month", "Total"}
		query = `
			SELECT e.month AS key, SUM(e.amount) AS total
			FROM expenses e JOIN sheets s ON s.id = e.sheet_id
			WHERE s.name = $1
			GROUP BY e.month ORDER BY e.month`
		args = []any{active}
	case store.ReportCategoryAllTime:
		headers = []string{"Category", "Total"}
		query = `
			SELECT e.category AS key, SUM(e.amount) AS total
			FROM expenses e JOIN sheets s ON s.id = e.sheet_id
			WHERE s.name = $1
			GROUP BY e.category ORDER BY e.category`
		args = []any{active}
	default:
		return nil, nil, store.E("report_table", store.ErrNotFound)
	}

	var rows []reportRow
	if err := c.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, nil, store.E("report_table", err)
	}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Key, expense.Money(r.Total)}
	}
	return headers, out, nil
}
