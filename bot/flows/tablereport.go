package flows

import (
	"context"
	"fmt"

	"github.com/m3rciful/spendbot/dialog"
	"github.com/m3rciful/spendbot/report"
	"github.com/m3rciful/spendbot/store"
)

const stTableType dialog.State = "table_type"

var tableOptions = []string{
	"📆 Expense by Category by Month",
	"📁 Expenses Trend",
	"🎯 Expenses by Category all time",
}

var tableKinds = map[string]store.ReportKind{
	"📆 Expense by Category by Month":  store.ReportCategoryByMonth,
	"📁 Expenses Trend":                store.ReportTrend,
	"🎯 Expenses by Category all time": store.ReportCategoryAllTime,
}

// emptyTexts are sent when a report range holds no data rows.
var emptyTexts = map[store.ReportKind]string{
	store.ReportCategoryByMonth: "No data available for expenses by category.",
	store.ReportTrend:           "No data available for expenses trend.",
	store.ReportCategoryAllTime: "No data available for all-time expenses by category.",
}

// Table builds the /table flow: a single selection step that renders one of
// the three precomputed report tables.
func Table(d Deps) dialog.Definition {
	return dialog.Definition{
		Kind:     KindTable,
		Start:    stTableType,
		FailText: "Failed to fetch the data. Please try again later.",
		Steps: map[dialog.State]dialog.Step{
			stTableType: {
				Prompt: func(_ context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{
						Text:        "Which table information are you interested in? (Choose from the options below)",
						Options:     tableOptions,
						Columns:     2,
						Placeholder: "Choose from the options below",
					}
				},
				Handle: func(ctx context.Context, _ *dialog.Session, input string) (dialog.Transition, error) {
					label, ok := dialog.MatchOption(input, tableOptions)
					if !ok {
						return dialog.Transition{}, dialog.InvalidChoice(
							"Invalid option selected. Please choose from the provided options.", tableOptions)
					}
					kind := tableKinds[label]

					headers, rows, err := d.Store.ReportTable(ctx, kind)
					if err != nil {
						return dialog.Transition{}, err
					}
					if len(rows) == 0 {
						return dialog.Finish(dialog.Reply{Text: emptyTexts[kind]}), nil
					}
					return dialog.Finish(dialog.Reply{
						Text: fmt.Sprintf("%s\n\n%s", tableTitle(d, kind), report.FormatTable(headers, rows)),
					}), nil
				},
			},
		},
	}
}

func tableTitle(d Deps, kind store.ReportKind) string {
	switch kind {
	case store.ReportCategoryByMonth:
		return fmt.Sprintf("Expense by Category for %s:", d.now().Format("Jan 2006"))
	case store.ReportTrend:
		return "Expenses Trend:"
	default:
		return "All-Time Expenses by Category:"
	}
}
