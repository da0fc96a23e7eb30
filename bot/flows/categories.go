package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/m3rciful/spendbot/dialog"
	"github.com/m3rciful/spendbot/expense"
	"github.com/m3rciful/spendbot/store"
)

const (
	stCatAction dialog.State = "action"
	stCatSelect dialog.State = "select"
	stCatName   dialog.State = "new_name"
)

const (
	actionAdd    = "add"
	actionEdit   = "edit"
	actionDelete = "delete"
)

var categoryActions = []string{"➕ Add Category", "✏️ Edit Category", "🗑️ Delete Category"}

// Categories builds the /handlecategories flow: choose add, edit or delete,
// then collect the names the action needs. Default categories are protected
// from deletion by the store.
func Categories(d Deps) dialog.Definition {
	return dialog.Definition{
		Kind:     KindCategories,
		Start:    stCatAction,
		FailText: "Failed to update category due to an error.",
		Steps: map[dialog.State]dialog.Step{
			stCatAction: {
				Prompt: func(_ context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{
						Text:    "What would you like to do with categories?",
						Options: categoryActions,
						Columns: 3,
					}
				},
				Handle: func(ctx context.Context, s *dialog.Session, input string) (dialog.Transition, error) {
					label, ok := dialog.MatchOption(input, categoryActions)
					if !ok {
						return dialog.Transition{}, dialog.InvalidChoice(
							"Invalid option. Please select from the options below:", categoryActions)
					}
					switch label {
					case "➕ Add Category":
						s.Values["action"] = actionAdd
						return dialog.Say(stCatName, dialog.Reply{Text: "Please enter the name of the new category:"}), nil
					case "✏️ Edit Category":
						s.Values["action"] = actionEdit
						return dialog.Say(stCatSelect, dialog.Reply{
							Text:    "Which category would you like to edit?",
							Options: d.categoryOptions(ctx),
							Columns: 2,
						}), nil
					default:
						s.Values["action"] = actionDelete
						return dialog.Say(stCatSelect, dialog.Reply{
							Text:    "Which category would you like to delete?",
							Options: d.categoryOptions(ctx),
							Columns: 2,
						}), nil
					}
				},
			},
			stCatSelect: {
				Prompt: func(ctx context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{
						Text:    "Which category?",
						Options: d.categoryOptions(ctx),
						Columns: 2,
					}
				},
				Handle: func(ctx context.Context, s *dialog.Session, input string) (dialog.Transition, error) {
					opts := d.categoryOptions(ctx)
					selected, ok := dialog.MatchOption(input, opts)
					if !ok {
						return dialog.Transition{}, dialog.InvalidChoice(
							"Invalid option. Please select from the options below:", opts)
					}
					if s.Values["action"] == actionEdit {
						s.Values["selected"] = selected
						return dialog.Say(stCatName, dialog.Reply{
							Text: fmt.Sprintf("Enter the new name for '%s':", selected),
						}), nil
					}
					return deleteCategory(ctx, d, selected)
				},
			},
			stCatName: {
				Prompt: func(_ context.Context, _ *dialog.Session) dialog.Reply {
					return dialog.Reply{Text: "Please enter the name of the new category:"}
				},
				Handle: func(ctx context.Context, s *dialog.Session, input string) (dialog.Transition, error) {
					name := expense.NormalizeCategory(input)
					if name == "" {
						return dialog.Transition{}, dialog.Invalid("Please enter a non-empty category name.")
					}
					if s.Values["action"] == actionEdit {
						return renameCategory(ctx, d, s.Values["selected"], name)
					}
					return addCategory(ctx, d, name)
				},
			},
		},
	}
}

func addCategory(ctx context.Context, d Deps, name string) (dialog.Transition, error) {
	err := d.Store.AddCategory(ctx, name)
	if errors.Is(err, store.ErrExists) {
		return dialog.Finish(dialog.Reply{Text: fmt.Sprintf("Category '%s' already exists!", name)}), nil
	}
	if err != nil {
		return dialog.Transition{}, err
	}
	return dialog.Finish(dialog.Reply{Text: fmt.Sprintf("Category '%s' added successfully!", name)}), nil
}

func renameCategory(ctx context.Context, d Deps, oldName, newName string) (dialog.Transition, error) {
	err := d.Store.RenameCategory(ctx, oldName, newName)
	switch {
	case errors.Is(err, store.ErrExists):
		return dialog.Finish(dialog.Reply{Text: fmt.Sprintf("Cannot rename to '%s' as it already exists!", newName)}), nil
	case errors.Is(err, store.ErrNotFound):
		return dialog.Finish(dialog.Reply{Text: fmt.Sprintf("Category '%s' not found.", oldName)}), nil
	case err != nil:
		return dialog.Transition{}, err
	}
	return dialog.Finish(dialog.Reply{Text: fmt.Sprintf("Category renamed from '%s' to '%s'.", oldName, newName)}), nil
}

func deleteCategory(ctx context.Context, d Deps, name string) (dialog.Transition, error) {
	err := d.Store.DeleteCategory(ctx, name)
	switch {
	case errors.Is(err, store.ErrProtected):
		return dialog.Finish(dialog.Reply{Text: fmt.Sprintf("Cannot delete default category '%s'.", name)}), nil
	case errors.Is(err, store.ErrNotFound):
		return dialog.Finish(dialog.Reply{Text: fmt.Sprintf("Category '%s' not found.", name)}), nil
	case err != nil:
		return dialog.Transition{}, err
	}
	return dialog.Finish(dialog.Reply{Text: fmt.Sprintf("Category '%s' has been deleted.", name)}), nil
}
