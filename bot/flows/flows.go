// Package flows defines the dialog definitions behind the bot commands. Each
// builder returns a dialog.Definition wired to the datastore; the engine and
// transport stay generic.
package flows

import (
	"context"
	"time"

	"github.com/m3rciful/spendbot/store"
)

// Deps carries the collaborators every flow needs.
type Deps struct {
	Store  store.Store
	Active *store.ActiveSheet
	// Now is overridable in tests; nil means time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Dialog kinds registered with the engine.
const (
	KindAddExpense = "add_expense"
	KindQuery      = "query"
	KindCategories = "categories"
	KindSheets     = "sheets"
	KindTable      = "table"
)

var confirmOptions = []string{"✅ Yes", "❌ No"}

// categoryOptions lists categories for selection keyboards, falling back to
// the defaults when the store cannot serve the list.
func (d Deps) categoryOptions(ctx context.Context) []string {
	return store.CategoriesOrDefault(ctx, d.Store)
}
