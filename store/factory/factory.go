// Package factory opens the configured datastore backend.
package factory

import (
	"context"
	"fmt"
	"log/slog"

	coreconfig "github.com/m3rciful/spendbot/core/config"
	"github.com/m3rciful/spendbot/core/database"
	"github.com/m3rciful/spendbot/core/logger"
	"github.com/m3rciful/spendbot/store"
	"github.com/m3rciful/spendbot/store/memory"
	"github.com/m3rciful/spendbot/store/postgres"
	"github.com/m3rciful/spendbot/store/sheets"
)

// Open builds the Store selected by cfg.Store.Backend. For postgres it also
// connects the pool and applies pending migrations.
func Open(ctx context.Context, cfg *coreconfig.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case coreconfig.BackendMemory:
		logger.Info(ctx, "store", "store.open", slog.String("backend", "memory"))
		return memory.New(cfg.Store.ExpensesSheet), nil

	case coreconfig.BackendSheets:
		client, err := sheets.New(ctx, sheets.Config{
			SpreadsheetID:   cfg.Store.SpreadsheetID,
			CredentialsFile: cfg.Store.CredentialsFile,
			CredentialsJSON: cfg.Store.CredentialsJSON,
			ExpensesSheet:   cfg.Store.ExpensesSheet,
		})
		if err != nil {
			return nil, fmt.Errorf("open sheets backend: %w", err)
		}
		logger.Info(ctx, "store", "store.open",
			slog.String("backend", "sheets"),
			slog.String("sheet", cfg.Store.ExpensesSheet),
		)
		return client, nil

	case coreconfig.BackendPostgres:
		if err := database.RunMigrations(cfg.Database); err != nil {
			return nil, err
		}
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "store", "store.open",
			slog.String("backend", "postgres"),
			slog.String("db", cfg.Database.Name),
		)
		return postgres.New(db, cfg.Store.ExpensesSheet), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
