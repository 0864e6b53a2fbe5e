package interfaces

import (
	"context"

	"github.com/sheikh-saqib/commission-ledger/internal/models"
)

// LedgerStore is a tabular store of ledger entries. It has no primary key:
// callers read the whole table and write the whole table back.
type LedgerStore interface {
	ReadAll(ctx context.Context) ([]models.LedgerEntry, error)
	ReplaceAll(ctx context.Context, entries []models.LedgerEntry) error
}

// CacheInvalidator is implemented by stores that cache reads.
type CacheInvalidator interface {
	Invalidate(ctx context.Context)
}
