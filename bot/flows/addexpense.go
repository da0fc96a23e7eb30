package flows

import (
	"context"
	"fmt"
	"strconv"

	"github.com/m3rciful/spendbot/dialog"
	"github.com/m3rciful/spendbot/expense"
)

const (
	stWhen        dialog.State = "when"
	stCategory    dialog.State = "category"
	stDescription dialog.State = "description"
	stAmount      dialog.State = "amount"
	stTags        dialog.State = "tags"
)

// AddExpense builds the /add flow: When → Category → Description → Amount →
// Tags, finalizing with an appended record on the active sheet.
func AddExpense(d Deps) dialog.Definition {
	return dialog.Definition{
		Kind:     KindAddExpense,
		Start:    stWhen,
		FailText: "Failed to add entry. Please try again later.",
		Steps: map[dialog.State]dialog.Step{
			stWhen: {
				Prompt: func(_ context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{
						Text: fmt.Sprintf(
							"You're adding to %s. When did you spend this? (Select from the options or type in YYYY-MM-DD)",
							d.Active.Get(),
						),
						Options: []string{"Today", "Yesterday"},
						Columns: 2,
					}
				},
				Handle: func(_ context.Context, s *dialog.Session, input string) (dialog.Transition, error) {
					date, err := dialog.ParseDate(input, d.now())
					if err != nil {
						return dialog.Transition{}, err
					}
					s.Values["date"] = date.Format(expense.DateLayout)
					return dialog.To(stCategory), nil
				},
			},
			stCategory: {
				Prompt: func(ctx context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{
						Text:    "What category of expense is this? (Choose from below):",
						Options: d.categoryOptions(ctx),
					}
				},
				Handle: func(ctx context.Context, s *dialog.Session, input string) (dialog.Transition, error) {
					opts := d.categoryOptions(ctx)
					cat, ok := dialog.MatchOption(input, opts)
					if !ok {
						return dialog.Transition{}, dialog.InvalidChoice(
							"Invalid option selected. Please choose from the provided options.", opts)
					}
					s.Values["category"] = expense.NormalizeCategory(cat)
					return dialog.To(stDescription), nil
				},
			},
			stDescription: {
				Prompt: func(_ context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{Text: "What did you spend on? (e.g., Lunch, Train ticket, etc.)"}
				},
				Handle: func(_ context.Context, s *dialog.Session, input string) (dialog.Transition, error) {
					s.Values["description"] = input
					return dialog.To(stAmount), nil
				},
			},
			stAmount: {
				Prompt: func(_ context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{Text: "How much did you spend? (e.g., $12.50)"}
				},
				Handle: func(_ context.Context, s *dialog.Session, input string) (dialog.Transition, error) {
					amount, err := dialog.ParseAmount(input)
					if err != nil {
						return dialog.Transition{}, err
					}
					s.Values["amount"] = strconv.FormatFloat(amount, 'f', -1, 64)
					return dialog.To(stTags), nil
				},
			},
			stTags: {
				Prompt: func(_ context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{Text: "Any tags you would like to add? (Separate by commas or type 'none')"}
				},
				Handle: func(_ context.Context, s *dialog.Session, input string) (dialog.Transition, error) {
					s.Values["tags"] = input
					return dialog.To(dialog.End), nil
				},
			},
		},
		Finalize: func(ctx context.Context, s *dialog.Session) (dialog.Reply, error) {
			date, err := dialog.ParseDate(s.Values["date"], d.now())
			if err != nil {
				return dialog.Reply{}, err
			}
			amount, _ := strconv.ParseFloat(s.Values["amount"], 64)
			rec := expense.New(date, s.Values["category"], s.Values["description"], amount, expense.SplitTags(s.Values["tags"]))

			sheet := d.Active.Get()
			id, err := d.Store.AppendRecord(ctx, sheet, rec)
			if err != nil {
				return dialog.Reply{}, err
			}

			tags := rec.Tags
			if tags == "" {
				tags = "None"
			}
			return dialog.Reply{Text: fmt.Sprintf(
				"Expense added successfully to %s:\nID: %d\nDate: %s\nCategory: %s\nDescription: %s\nAmount: $%.2f\nTags: %s",
				sheet, id, s.Values["date"], rec.Category, rec.Description, rec.Amount, tags,
			)}, nil
		},
	}
}
