package storage

import (
	"context"
	"testing"
	"time"

	"github.com/sheikh-saqib/commission-ledger/internal/config"
	"github.com/sheikh-saqib/commission-ledger/internal/storage/cached"
	"github.com/sheikh-saqib/commission-ledger/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("memory driver", func(t *testing.T) {
		cfg := &config.Config{Storage: config.StorageConfig{Driver: "memory"}}

		store, closeFn, err := New(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		defer closeFn()

		assert.IsType(t, &memory.MemoryLedgerStore{}, store)
	})

	t.Run("wraps with the cache when a ttl is set", func(t *testing.T) {
		cfg := &config.Config{Storage: config.StorageConfig{Driver: "memory", CacheTTL: time.Minute}}

		store, closeFn, err := New(ctx, cfg, zap.NewNop())
		require.NoError(t, err)
		defer closeFn()

		assert.IsType(t, &cached.CachedLedgerStore{}, store)
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := &config.Config{Storage: config.StorageConfig{Driver: "excel"}}

		_, _, err := New(ctx, cfg, zap.NewNop())
		assert.Error(t, err)
	})
}
