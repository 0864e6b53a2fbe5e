package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/commission-ledger/internal/interfaces"
	"github.com/sheikh-saqib/commission-ledger/internal/models"
)

// MemoryLedgerStore is an in-memory implementation of interfaces.LedgerStore.
// It keeps the table in a slice and is safe for concurrent use.
type MemoryLedgerStore struct {
	mu      sync.Mutex           // protects entries
	entries []models.LedgerEntry // the whole table, in row order
}

// NewMemoryLedgerStore creates and returns a new MemoryLedgerStore instance,
// optionally seeded with rows
func NewMemoryLedgerStore(seed ...models.LedgerEntry) *MemoryLedgerStore {
	entries := make([]models.LedgerEntry, len(seed))
	copy(entries, seed)
	return &MemoryLedgerStore{entries: entries}
}

// ReadAll returns a copy of the table so callers can't modify internal state.
func (m *MemoryLedgerStore) ReadAll(ctx context.Context) ([]models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.LedgerEntry, len(m.entries))
	copy(copied, m.entries)
	return copied, nil
}

// ReplaceAll swaps the table for a copy of entries.
func (m *MemoryLedgerStore) ReplaceAll(ctx context.Context, entries []models.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make([]models.LedgerEntry, len(entries))
	copy(m.entries, entries)
	return nil
}

// Compile-time check: ensure MemoryLedgerStore implements LedgerStore interface
var _ interfaces.LedgerStore = (*MemoryLedgerStore)(nil)
