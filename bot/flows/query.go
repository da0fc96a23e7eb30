package flows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m3rciful/spendbot/dialog"
	"github.com/m3rciful/spendbot/expense"
	"github.com/m3rciful/spendbot/report"
)

const (
	stFilterType  dialog.State = "filter_type"
	stFilterValue dialog.State = "filter_value"
	stStartDate   dialog.State = "start_date"
	stEndDate     dialog.State = "end_date"
	stAddAnother  dialog.State = "add_another"
)

var filterOptions = []string{"📆 Month", "📁 Category", "🎯 Tags", "⏰ Period"}

var filterKinds = map[string]expense.FilterKind{
	"📆 Month":    expense.FilterMonth,
	"📁 Category": expense.FilterCategory,
	"🎯 Tags":     expense.FilterTags,
	"⏰ Period":   "period",
}

// queryDraft accumulates filters across the dialog.
type queryDraft struct {
	filters []expense.Filter
	current expense.FilterKind
	start   time.Time
}

func draftOf(s *dialog.Session) *queryDraft {
	d, ok := s.Stash.(*queryDraft)
	if !ok {
		d = &queryDraft{}
		s.Stash = d
	}
	return d
}

// Query builds the /query flow: pick a filter kind, enter its value, then
// either loop for another filter or evaluate the accumulated set against the
// active sheet.
func Query(d Deps) dialog.Definition {
	return dialog.Definition{
		Kind:     KindQuery,
		Start:    stFilterType,
		FailText: "Failed to fetch the data. Please try again later.",
		Steps: map[dialog.State]dialog.Step{
			stFilterType: {
				Prompt: func(_ context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{
						Text:        "What would you like to query? (Choose from the options below)",
						Options:     filterOptions,
						Columns:     2,
						Placeholder: "Choose from the options below",
					}
				},
				Handle: handleFilterType,
			},
			stFilterValue: {
				Prompt: func(_ context.Context, s *dialog.Session) dialog.Reply {
					switch draftOf(s).current {
					case expense.FilterMonth:
						return dialog.Reply{Text: "Enter the month (format: MMM YYYY):"}
					case expense.FilterCategory:
						return dialog.Reply{Text: "Enter the category:"}
					default:
						return dialog.Reply{Text: "Enter the tags:"}
					}
				},
				Handle: handleFilterValue,
			},
			stStartDate: {
				Prompt: func(_ context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{Text: "Enter the start date (format: DD MMM YYYY):"}
				},
				Handle: func(_ context.Context, s *dialog.Session, input string) (dialog.Transition, error) {
					start, err := dialog.ParsePeriodDate(input, "01 Dec 2024")
					if err != nil {
						return dialog.Transition{}, err
					}
					draftOf(s).start = start
					return dialog.To(stEndDate), nil
				},
			},
			stEndDate: {
				Prompt: func(_ context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{Text: "Enter the end date (format: DD MMM YYYY):"}
				},
				Handle: handleEndDate,
			},
			stAddAnother: {
				Prompt: func(_ context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{
						Text:    "Do you want to add another filter?",
						Options: confirmOptions,
						Columns: 2,
					}
				},
				Handle: func(_ context.Context, _ *dialog.Session, input string) (dialog.Transition, error) {
					yes, ok := dialog.MatchYesNo(input)
					if !ok {
						return dialog.Transition{}, dialog.InvalidChoice(
							"Invalid response. Please choose 'Yes' or 'No' from the options below.", confirmOptions)
					}
					if yes {
						return dialog.Say(stFilterType, dialog.Reply{
							Text:    "What would you like to filter by? (Choose from the options below)",
							Options: filterOptions,
							Columns: 2,
						}), nil
					}
					return dialog.To(dialog.End), nil
				},
			},
		},
		Finalize: func(ctx context.Context, s *dialog.Session) (dialog.Reply, error) {
			records, err := d.Store.Records(ctx, d.Active.Get())
			if err != nil {
				return dialog.Reply{}, err
			}
			res := expense.Evaluate(draftOf(s).filters, records)
			return dialog.Reply{Text: report.FormatQueryResult(res), Markdown: res.Matched()}, nil
		},
	}
}

func handleFilterType(_ context.Context, s *dialog.Session, input string) (dialog.Transition, error) {
	label, ok := dialog.MatchOption(input, filterOptions)
	if !ok {
		return dialog.Transition{}, dialog.InvalidChoice(
			"Invalid selection. Please choose from the options below.", filterOptions)
	}
	kind := filterKinds[label]
	if kind == "period" {
		return dialog.To(stStartDate), nil
	}
	draftOf(s).current = kind
	return dialog.To(stFilterValue), nil
}

func handleFilterValue(_ context.Context, s *dialog.Session, input string) (dialog.Transition, error) {
	draft := draftOf(s)
	var value string
	switch draft.current {
	case expense.FilterMonth:
		month, err := dialog.ParseMonth(input)
		if err != nil {
			return dialog.Transition{}, err
		}
		value = month
	case expense.FilterCategory:
		value = input
	default:
		value = strings.ToLower(input)
	}
	draft.filters = append(draft.filters, expense.Filter{Kind: draft.current, Text: value})

	return dialog.Say(stAddAnother, dialog.Reply{
		Text:    fmt.Sprintf("Filter '%s' set to '%s'.\nDo you want to add another filter?", draft.current, value),
		Options: confirmOptions,
		Columns: 2,
	}), nil
}

func handleEndDate(_ context.Context, s *dialog.Session, input string) (dialog.Transition, error) {
	end, err := dialog.ParsePeriodDate(input, "31 Dec 2024")
	if err != nil {
		return dialog.Transition{}, err
	}
	draft := draftOf(s)
	if end.Before(draft.start) {
		return dialog.Transition{}, dialog.Invalid("End date cannot be earlier than the start date.")
	}
	draft.filters = append(draft.filters,
		expense.Filter{Kind: expense.FilterStartDate, Date: draft.start},
		expense.Filter{Kind: expense.FilterEndDate, Date: end},
	)
	return dialog.Say(stAddAnother, dialog.Reply{
		Text: fmt.Sprintf("Time period set from %s to %s.\nDo you want to add another filter?",
			dialog.FormatPeriodDate(draft.start), dialog.FormatPeriodDate(end)),
		Options: confirmOptions,
		Columns: 2,
	}), nil
}
