package expense

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleRecords() []Record {
	return []Record{
		New(date("2024-12-01"), "Food", "lunch", 12.50, []string{"work"}),
		New(date("2024-12-15"), "travel", "train", 30.00, []string{"holiday", "family"}),
		New(date("2025-01-03"), "food", "groceries", 54.20, nil),
	}
}

func TestEvaluateEmptyRecordSet(t *testing.T) {
	res := Evaluate([]Filter{{Kind: FilterMonth, Text: "2024-12"}}, nil)
	if res.Matched() {
		t.Fatal("expected no match on empty record set")
	}
	if res.Count != 0 || res.Total != 0 {
		t.Errorf("got count=%d total=%v, want zeros", res.Count, res.Total)
	}
}

func TestEvaluateMonth(t *testing.T) {
	res := Evaluate([]Filter{{Kind: FilterMonth, Text: "2024-12"}}, sampleRecords())
	if res.Count != 2 {
		t.Errorf("count = %d, want 2", res.Count)
	}
	if res.Total != 42.50 {
		t.Errorf("total = %v, want 42.50", res.Total)
	}
}

func TestEvaluateCategoryCaseInsensitive(t *testing.T) {
	res := Evaluate([]Filter{{Kind: FilterCategory, Text: "FOOD"}}, sampleRecords())
	if res.Count != 2 {
		t.Errorf("count = %d, want 2", res.Count)
	}
}

func TestEvaluateTagsSubstring(t *testing.T) {
	res := Evaluate([]Filter{{Kind: FilterTags, Text: "Fam"}}, sampleRecords())
	if res.Count != 1 {
		t.Errorf("count = %d, want 1", res.Count)
	}
}

func TestEvaluatePeriodInclusive(t *testing.T) {
	filters := []Filter{
		{Kind: FilterStartDate, Date: date("2024-12-01")},
		{Kind: FilterEndDate, Date: date("2024-12-15")},
	}
	res := Evaluate(filters, sampleRecords())
	if res.Count != 2 {
		t.Errorf("count = %d, want 2 (bounds are inclusive)", res.Count)
	}
}

func TestEvaluateConjunction(t *testing.T) {
	filters := []Filter{
		{Kind: FilterMonth, Text: "2024-12"},
		{Kind: FilterCategory, Text: "travel"},
	}
	res := Evaluate(filters, sampleRecords())
	if res.Count != 1 || res.Total != 30.00 {
		t.Errorf("got count=%d total=%v, want 1/30.00", res.Count, res.Total)
	}
}

func TestSplitTags(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"none", ""},
		{"NONE", ""},
		{"", ""},
		{"Work, Lunch ", "work, lunch"},
		{"a,,b", "a, b"},
	}
	for _, tc := range cases {
		got := JoinTags(SplitTags(tc.in))
		if got != tc.want {
			t.Errorf("SplitTags(%q) joined = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNewDerivesMonth(t *testing.T) {
	r := New(date("2024-12-05"), " Food ", " lunch ", 1, nil)
	if r.Month != "2024-12" {
		t.Errorf("month = %q, want 2024-12", r.Month)
	}
	if r.Category != "food" {
		t.Errorf("category = %q, want food", r.Category)
	}
	if r.Description != "lunch" {
		t.Errorf("description = %q, want lunch", r.Description)
	}
}

func TestIsDefaultCategory(t *testing.T) {
	if !IsDefaultCategory("Food") {
		t.Error("Food should be default")
	}
	if IsDefaultCategory("books") {
		t.Error("books should not be default")
	}
}
