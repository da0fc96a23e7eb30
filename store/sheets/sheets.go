// Package sheets implements the datastore on a Google Spreadsheet.
//
// Layout: each expense worksheet carries a header row (ID, Date, Category,
// Description, Amount, Tags, Month) with data from row 2. The settings
// worksheet holds the category list in column A and the active-sheet pointer
// at C2. The analysis worksheet holds spreadsheet-side aggregates: the monthly
// summary at B3:B5 and the three report tables at fixed ranges.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/m3rciful/spendbot/expense"
	"github.com/m3rciful/spendbot/store"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Report table ranges on the analysis worksheet.
var reportRanges = map[store.ReportKind]string{
	store.ReportCategoryByMonth: "J2:K1000",
	store.ReportTrend:           "D2:E1000",
	store.ReportCategoryAllTime: "P2:Q1000",
}

var recordHeader = []any{"ID", "Date", "Category", "Description", "Amount", "Tags", "Month"}

// Config carries everything needed to open the spreadsheet.
type Config struct {
	SpreadsheetID string
	// CredentialsFile and CredentialsJSON are alternative service-account
	// sources; inline JSON wins when both are set.
	CredentialsFile string
	CredentialsJSON string
	// ExpensesSheet is the fallback data worksheet when no active pointer is
	// persisted yet.
	ExpensesSheet string
}

// Client is a Store backed by the Google Sheets API.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	expensesSheet string
}

var _ store.Store = (*Client)(nil)

// New authenticates with the service account and returns a ready client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	var creds []byte
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		creds = []byte(cfg.CredentialsJSON)
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		creds = b
	default:
		return nil, errors.New("sheets: no service account credentials configured")
	}

	svc, err := gsheet.NewService(ctx,
		option.WithCredentialsJSON(creds),
		option.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		expensesSheet: cfg.ExpensesSheet,
	}, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	values, err := c.get(ctx, store.SettingsSheet+"!A1:A1000")
	if err != nil {
		return nil, store.E("list_categories", err)
	}
	var out []string
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		v := strings.TrimSpace(fmt.Sprint(row[0]))
		if v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

func (c *Client) AddCategory(ctx context.Context, name string) error {
	name = expense.NormalizeCategory(name)
	cats, err := c.ListCategories(ctx)
	if err != nil {
		return store.E("add_category", err)
	}
	if indexFold(cats, name) >= 0 {
		return store.E("add_category", store.ErrExists)
	}
	vr := &gsheet.ValueRange{Values: [][]any{{name}}}
	_, err = c.svc.Spreadsheets.Values.Append(c.spreadsheetID, store.SettingsSheet+"!A:A", vr).
		ValueInputOption("RAW").Context(ctx).Do()
	return store.E("add_category", err)
}

func (c *Client) RenameCategory(ctx context.Context, oldName, newName string) error {
	oldName = expense.NormalizeCategory(oldName)
	newName = expense.NormalizeCategory(newName)
	cats, err := c.ListCategories(ctx)
	if err != nil {
		return store.E("rename_category", err)
	}
	i := indexFold(cats, oldName)
	if i < 0 {
		return store.E("rename_category", store.ErrNotFound)
	}
	if indexFold(cats, newName) >= 0 {
		return store.E("rename_category", store.ErrExists)
	}
	cell := fmt.Sprintf("%s!A%d", store.SettingsSheet, i+1)
	vr := &gsheet.ValueRange{Values: [][]any{{newName}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, cell, vr).
		ValueInputOption("RAW").Context(ctx).Do()
	return store.E("rename_category", err)
}

func (c *Client) DeleteCategory(ctx context.Context, name string) error {
	name = expense.NormalizeCategory(name)
	if expense.IsDefaultCategory(name) {
		return store.E("delete_category", store.ErrProtected)
	}
	cats, err := c.ListCategories(ctx)
	if err != nil {
		return store.E("delete_category", err)
	}
	i := indexFold(cats, name)
	if i < 0 {
		return store.E("delete_category", store.ErrNotFound)
	}
	sheetID, err := c.sheetID(ctx, store.SettingsSheet)
	if err != nil {
		return store.E("delete_category", err)
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		DeleteDimension: &gsheet.DeleteDimensionRequest{
			Range: &gsheet.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "ROWS",
				StartIndex: int64(i),
				EndIndex:   int64(i + 1),
			},
		},
	}}}
	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do()
	return store.E("delete_category", err)
}

// AppendRecord appends the row first and derives the ID from the range the API
// reports back, so concurrent appends cannot race on a read-then-write counter.
func (c *Client) AppendRecord(ctx context.Context, sheet string, rec expense.Record) (int64, error) {
	row := []any{"", rec.Date.Format(expense.DateLayout), rec.Category, rec.Description, rec.Amount, rec.Tags, rec.Month}
	vr := &gsheet.ValueRange{Values: [][]any{row}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheet+"!A:G", vr).
		ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return 0, store.E("append_record", err)
	}
	rowNum, err := appendedRow(resp.Updates.UpdatedRange)
	if err != nil {
		return 0, store.E("append_record", err)
	}
	// Header occupies row 1, so the row number minus one is a dense record id.
	id := rowNum - 1
	cell := fmt.Sprintf("%s!A%d", sheet, rowNum)
	idVR := &gsheet.ValueRange{Values: [][]any{{id}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, cell, idVR).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return 0, store.E("append_record", err)
	}
	return id, nil
}

// appendedRow extracts the row number from an UpdatedRange like "expenses!A5:G5".
func appendedRow(updatedRange string) (int64, error) {
	_, ref, ok := strings.Cut(updatedRange, "!")
	if !ok {
		return 0, fmt.Errorf("unexpected updated range %q", updatedRange)
	}
	first, _, _ := strings.Cut(ref, ":")
	digits := strings.TrimLeftFunc(first, func(r rune) bool { return r < '0' || r > '9' })
	row, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || row < 2 {
		return 0, fmt.Errorf("unexpected updated range %q", updatedRange)
	}
	return row, nil
}

func (c *Client) Records(ctx context.Context, sheet string) ([]expense.Record, error) {
	values, err := c.get(ctx, sheet+"!A2:G")
	if err != nil {
		return nil, store.E("records", err)
	}
	recs := make([]expense.Record, 0, len(values))
	for _, row := range values {
		rec, ok := parseRecord(row)
		if !ok {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func parseRecord(row []any) (expense.Record, bool) {
	cols := make([]string, 7)
	for i := 0; i < len(row) && i < 7; i++ {
		cols[i] = strings.TrimSpace(fmt.Sprint(row[i]))
	}
	date, err := time.Parse(expense.DateLayout, cols[1])
	if err != nil {
		return expense.Record{}, false
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(cols[4], ",", "."), 64)
	if err != nil {
		return expense.Record{}, false
	}
	rec := expense.New(date, cols[2], cols[3], amount, expense.SplitTags(cols[5]))
	rec.ID, _ = strconv.ParseInt(cols[0], 10, 64)
	return rec, true
}

func (c *Client) ListSheets(ctx context.Context) ([]string, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, store.E("list_sheets", err)
	}
	out := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			out = append(out, s.Properties.Title)
		}
	}
	return out, nil
}

func (c *Client) CreateSheet(ctx context.Context, name string) error {
	existing, err := c.ListSheets(ctx)
	if err != nil {
		return store.E("create_sheet", err)
	}
	if indexFold(existing, name) >= 0 {
		return store.E("create_sheet", store.ErrExists)
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{Requests: []*gsheet.Request{{
		AddSheet: &gsheet.AddSheetRequest{
			Properties: &gsheet.SheetProperties{Title: name},
		},
	}}}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return store.E("create_sheet", err)
	}
	vr := &gsheet.ValueRange{Values: [][]any{recordHeader}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, name+"!A1:G1", vr).
		ValueInputOption("RAW").Context(ctx).Do()
	return store.E("create_sheet", err)
}

func (c *Client) SwitchActiveSheet(ctx context.Context, name string) error {
	existing, err := c.ListSheets(ctx)
	if err != nil {
		return store.E("switch_active_sheet", err)
	}
	if indexFold(existing, name) < 0 {
		return store.E("switch_active_sheet", store.ErrNotFound)
	}
	vr := &gsheet.ValueRange{Values: [][]any{{name}}}
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, store.SettingsSheet+"!C2", vr).
		ValueInputOption("RAW").Context(ctx).Do()
	return store.E("switch_active_sheet", err)
}

func (c *Client) ActiveSheet(ctx context.Context) (string, error) {
	values, err := c.get(ctx, store.SettingsSheet+"!C2")
	if err != nil {
		return "", store.E("active_sheet", err)
	}
	if len(values) > 0 && len(values[0]) > 0 {
		if name := strings.TrimSpace(fmt.Sprint(values[0][0])); name != "" {
			return name, nil
		}
	}
	return c.expensesSheet, nil
}

// Summary reads the spreadsheet-side aggregates: month at B3, monthly total at
// B4, average daily at B5. Values are returned as stored, formatting included.
func (c *Client) Summary(ctx context.Context) (expense.Summary, error) {
	values, err := c.get(ctx, store.AnalysisSheet+"!B3:B5")
	if err != nil {
		return expense.Summary{}, store.E("summary", err)
	}
	cell := func(i int) string {
		if i < len(values) && len(values[i]) > 0 {
			return strings.TrimSpace(fmt.Sprint(values[i][0]))
		}
		return ""
	}
	sum := expense.Summary{
		Month:           cell(0),
		MonthlyExpense:  cell(1),
		AvgDailyExpense: cell(2),
	}
	if sum.Month == "" {
		return expense.Summary{}, store.E("summary", store.ErrNotFound)
	}
	return sum, nil
}

func (c *Client) ReportTable(ctx context.Context, kind store.ReportKind) ([]string, [][]string, error) {
	rng, ok := reportRanges[kind]
	if !ok {
		return nil, nil, store.E("report_table", store.ErrNotFound)
	}
	values, err := c.get(ctx, store.AnalysisSheet+"!"+rng)
	if err != nil {
		return nil, nil, store.E("report_table", err)
	}
	if len(values) == 0 {
		return nil, nil, nil
	}
	headers := toStrings(values[0])
	rows := make([][]string, 0, len(values)-1)
	for _, row := range values[1:] {
		rows = append(rows, toStrings(row))
	}
	return headers, rows, nil
}

func (c *Client) get(ctx context.Context, rng string) ([][]any, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}

func (c *Client) sheetID(ctx context.Context, name string) (int64, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, err
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == name {
			return s.Properties.SheetId, nil
		}
	}
	return 0, store.ErrNotFound
}

func indexFold(list []string, target string) int {
	for i, v := range list {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return i
		}
	}
	return -1
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}
