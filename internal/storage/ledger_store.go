package storage

import (
	"context"
	"fmt"

	"github.com/sheikh-saqib/commission-ledger/internal/config"
	interfaces "github.com/sheikh-saqib/commission-ledger/internal/interfaces"
	"github.com/sheikh-saqib/commission-ledger/internal/storage/cached"
	"github.com/sheikh-saqib/commission-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/commission-ledger/internal/storage/postgres"
	"github.com/sheikh-saqib/commission-ledger/internal/storage/sheets"
	"go.uber.org/zap"
)

// New builds the configured LedgerStore. The returned close function
// releases the underlying connection and is never nil.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (interfaces.LedgerStore, func() error, error) {
	var (
		store   interfaces.LedgerStore
		closeFn = func() error { return nil }
	)

	switch cfg.Storage.Driver {
	case "memory":
		store = memory.NewMemoryLedgerStore()

	case "postgres":
		db, err := postgres.Open(cfg.Database.DSN(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns, cfg.Database.ConnMaxLifetime)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		pg := postgres.NewPostgresLedgerStore(db)
		if err := pg.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate postgres: %w", err)
		}
		store, closeFn = pg, db.Close

	case "sheets":
		api, err := sheets.NewServiceValues(ctx, cfg.Sheets.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		store = sheets.NewSheetsLedgerStore(api, cfg.Sheets.SpreadsheetID, cfg.Sheets.Range)

	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}

	if cfg.Storage.CacheTTL > 0 {
		store = cached.NewCachedLedgerStore(store, cfg.Storage.CacheTTL)
	}

	log.Info("ledger storage ready",
		zap.String("driver", cfg.Storage.Driver),
		zap.Duration("cache_ttl", cfg.Storage.CacheTTL),
	)
	return store, closeFn, nil
}
