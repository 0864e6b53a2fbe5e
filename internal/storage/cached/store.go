package cached

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	interfaces "github.com/sheikh-saqib/commission-ledger/internal/interfaces"
	"github.com/sheikh-saqib/commission-ledger/internal/models"
)

const tableKey = "ledger:table"

// CachedLedgerStore serves reads of another store from memory until the
// TTL runs out or a write invalidates them.
type CachedLedgerStore struct {
	next  interfaces.LedgerStore
	cache *cache.Cache
}

func NewCachedLedgerStore(next interfaces.LedgerStore, ttl time.Duration) *CachedLedgerStore {
	return &CachedLedgerStore{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CachedLedgerStore) ReadAll(ctx context.Context) ([]models.LedgerEntry, error) {
	if cached, found := c.cache.Get(tableKey); found {
		return clone(cached.([]models.LedgerEntry)), nil
	}

	entries, err := c.next.ReadAll(ctx)
	if err != nil {
		// failures are not cached
		return nil, err
	}

	c.cache.SetDefault(tableKey, clone(entries))
	return entries, nil
}

// ReplaceAll writes through and drops the cached table.
func (c *CachedLedgerStore) ReplaceAll(ctx context.Context, entries []models.LedgerEntry) error {
	defer c.cache.Flush()
	return c.next.ReplaceAll(ctx, entries)
}

func (c *CachedLedgerStore) Invalidate(ctx context.Context) {
	c.cache.Flush()
}

func clone(entries []models.LedgerEntry) []models.LedgerEntry {
	out := make([]models.LedgerEntry, len(entries))
	copy(out, entries)
	return out
}

var (
	_ interfaces.LedgerStore      = (*CachedLedgerStore)(nil)
	_ interfaces.CacheInvalidator = (*CachedLedgerStore)(nil)
)
