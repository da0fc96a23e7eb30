package flows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m3rciful/spendbot/dialog"
	"github.com/m3rciful/spendbot/store"
)

const (
	stSheetAction dialog.State = "action"
	stSheetName   dialog.State = "new_sheet"
	stSheetPick   dialog.State = "pick_sheet"
)

var sheetActions = []string{"Create", "Switch"}

// Sheets builds the /handlesheets flow: create a new worksheet or switch the
// active one. Switching updates the persisted pointer and the in-process
// active-sheet holder.
func Sheets(d Deps) dialog.Definition {
	return dialog.Definition{
		Kind:     KindSheets,
		Start:    stSheetAction,
		FailText: "Failed to swap sheets. Please try again later.",
		Steps: map[dialog.State]dialog.Step{
			stSheetAction: {
				Prompt: func(_ context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{
						Text:    "What would you like to do with sheets?",
						Options: sheetActions,
						Columns: 2,
					}
				},
				Handle: func(ctx context.Context, _ *dialog.Session, input string) (dialog.Transition, error) {
					action, ok := dialog.MatchOption(input, sheetActions)
					if !ok {
						return dialog.Transition{}, dialog.InvalidChoice(
							"Invalid option. Please select from the options below:", sheetActions)
					}
					if action == "Create" {
						return dialog.Say(stSheetName, dialog.Reply{Text: "Please enter the name of the new sheet:"}), nil
					}
					options, err := d.userSheets(ctx)
					if err != nil {
						return dialog.Transition{}, err
					}
					return dialog.Say(stSheetPick, dialog.Reply{
						Text:    "Which sheet do you want to access?",
						Options: options,
						Columns: 3,
					}), nil
				},
			},
			stSheetName: {
				Prompt: func(_ context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{Text: "Please enter the name of the new sheet:"}
				},
				Handle: func(ctx context.Context, _ *dialog.Session, input string) (dialog.Transition, error) {
					name := strings.TrimSpace(input)
					if name == "" {
						return dialog.Transition{}, dialog.Invalid("Please enter a non-empty sheet name.")
					}
					err := d.Store.CreateSheet(ctx, name)
					if errors.Is(err, store.ErrExists) {
						return dialog.Finish(dialog.Reply{Text: fmt.Sprintf("Sheet '%s' already exists!", name)}), nil
					}
					if err != nil {
						return dialog.Transition{}, err
					}
					return dialog.Finish(dialog.Reply{Text: fmt.Sprintf("Sheet %s created successfully!", name)}), nil
				},
			},
			stSheetPick: {
				Prompt: func(ctx context.Context, _ *dialog.Session) dialog.Reply {
					options, err := d.userSheets(ctx)
					if err != nil {
						options = nil
					}
					return dialog.Reply{
						Text:    "Which sheet do you want to access?",
						Options: options,
						Columns: 3,
					}
				},
				Handle: func(ctx context.Context, _ *dialog.Session, input string) (dialog.Transition, error) {
					options, err := d.userSheets(ctx)
					if err != nil {
						return dialog.Transition{}, err
					}
					name, ok := dialog.MatchOption(input, options)
					if !ok {
						return dialog.Transition{}, dialog.InvalidChoice(
							"Invalid option. Please select from the options below:", options)
					}
					if err := d.Store.SwitchActiveSheet(ctx, name); err != nil {
						return dialog.Transition{}, err
					}
					d.Active.Set(name)
					return dialog.Finish(dialog.Reply{Text: fmt.Sprintf("Switched to %s", name)}), nil
				},
			},
		},
	}
}

func (d Deps) userSheets(ctx context.Context) ([]string, error) {
	all, err := d.Store.ListSheets(ctx)
	if err != nil {
		return nil, err
	}
	return store.UserSheets(all), nil
}
