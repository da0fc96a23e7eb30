package sheets

import (
	"testing"
)

func TestAppendedRow(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"expenses!A5:G5", 5, false},
		{"'my sheet'!A12:G12", 12, false},
		{"expenses!A1:G1", 0, true}, // header row can never be an append target
		{"garbage", 0, true},
	}
	for _, tc := range cases {
		got, err := appendedRow(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("appendedRow(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("appendedRow(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("appendedRow(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseRecord(t *testing.T) {
	rec, ok := parseRecord([]any{"3", "2024-12-01", "Food", "lunch", "12,50", "work, team", "2024-12"})
	if !ok {
		t.Fatal("row rejected")
	}
	if rec.ID != 3 || rec.Category != "food" || rec.Amount != 12.5 {
		t.Errorf("rec = %+v", rec)
	}
	if rec.Month != "2024-12" {
		t.Errorf("month = %q", rec.Month)
	}
	if rec.Tags != "work, team" {
		t.Errorf("tags = %q", rec.Tags)
	}

	if _, ok := parseRecord([]any{"", "not-a-date", "x", "y", "1"}); ok {
		t.Error("malformed date should be skipped")
	}
	if _, ok := parseRecord([]any{"1", "2024-12-01", "x", "y", "NaN-ish"}); ok {
		t.Error("malformed amount should be skipped")
	}
}

func TestIndexFold(t *testing.T) {
	list := []string{"Food ", "travel"}
	if i := indexFold(list, "food"); i != 0 {
		t.Errorf("i = %d", i)
	}
	if i := indexFold(list, "books"); i != -1 {
		t.Errorf("i = %d", i)
	}
}
