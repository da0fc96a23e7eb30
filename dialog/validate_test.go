package dialog

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2024, 12, 10, 15, 0, 0, 0, time.UTC)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("Today", testNow)
	if err != nil || d.Format("2006-01-02") != "2024-12-10" {
		t.Errorf("today = %v, %v", d, err)
	}
	d, err = ParseDate("yesterday", testNow)
	if err != nil || d.Format("2006-01-02") != "2024-12-09" {
		t.Errorf("yesterday = %v, %v", d, err)
	}
	d, err = ParseDate("2024-11-03", testNow)
	if err != nil || d.Format("2006-01-02") != "2024-11-03" {
		t.Errorf("explicit = %v, %v", d, err)
	}

	_, err = ParseDate("03/11/2024", testNow)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if verr.Message != "Invalid date format. Please use YYYY-MM-DD, 'today', or 'yesterday'." {
		t.Errorf("message = %q", verr.Message)
	}
}

func TestParseAmount(t *testing.T) {
	for in, want := range map[string]float64{"12.50": 12.5, "$7": 7, "0": 0} {
		got, err := ParseAmount(in)
		if err != nil || got != want {
			t.Errorf("ParseAmount(%q) = %v, %v", in, got, err)
		}
	}
	for _, in := range []string{"abc", "-5", "12,50"} {
		if _, err := ParseAmount(in); err == nil {
			t.Errorf("ParseAmount(%q): expected error", in)
		}
	}
}

func TestParseMonth(t *testing.T) {
	got, err := ParseMonth("Dec 2024")
	if err != nil || got != "2024-12" {
		t.Errorf("got %q, %v", got, err)
	}
	if _, err := ParseMonth("December 2024"); err == nil {
		t.Error("long month name should be rejected")
	}
	if _, err := ParseMonth("2024-12"); err == nil {
		t.Error("stored form is not valid input")
	}
}

func TestParsePeriodDate(t *testing.T) {
	for _, in := range []string{"01 Dec 2024", "1 Dec 2024"} {
		d, err := ParsePeriodDate(in, "01 Dec 2024")
		if err != nil || d.Format("2006-01-02") != "2024-12-01" {
			t.Errorf("ParsePeriodDate(%q) = %v, %v", in, d, err)
		}
	}

	_, err := ParsePeriodDate("Dec 01 2024", "31 Dec 2024")
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v", err)
	}
	if verr.Message != "Invalid date format. Please use 'DD MMM YYYY' (e.g., 31 Dec 2024)." {
		t.Errorf("message = %q", verr.Message)
	}
}

func TestMatchOption(t *testing.T) {
	opts := []string{"📆 Month", "📁 Category"}
	if got, ok := MatchOption(" 📆 month ", opts); !ok || got != "📆 Month" {
		t.Errorf("got %q, %v", got, ok)
	}
	if _, ok := MatchOption("Tags", opts); ok {
		t.Error("unexpected match")
	}
}

func TestMatchYesNo(t *testing.T) {
	cases := map[string]struct{ yes, ok bool }{
		"✅ Yes": {true, true},
		"y":     {true, true},
		"NO":    {false, true},
		"❌ no":  {false, true},
		"maybe": {false, false},
	}
	for in, want := range cases {
		yes, ok := MatchYesNo(in)
		if yes != want.yes || ok != want.ok {
			t.Errorf("MatchYesNo(%q) = %v, %v", in, yes, ok)
		}
	}
}
