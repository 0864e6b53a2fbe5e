package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	interfaces "github.com/sheikh-saqib/commission-ledger/internal/interfaces"
	"github.com/sheikh-saqib/commission-ledger/internal/models"
	"github.com/sheikh-saqib/commission-ledger/internal/models/events"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrClientRequired = errors.New("client name is required")
	ErrInvalidSale    = errors.New("invalid sale")
	ErrInvalidEntry   = errors.New("invalid ledger entry")
	ErrUnknownSource  = errors.New("unknown source")
)

// DefaultFixedMonthlyFee is the flat monthly figure shown next to the totals.
var DefaultFixedMonthlyFee = decimal.NewFromInt(3000)

// Ledger is the main struct representing our commission ledger
// It holds a reference to the storage layer and a mutex for the
// read-modify-write cycle
type Ledger struct {
	store     interfaces.LedgerStore    // any tabular storage implementation
	publisher interfaces.EventPublisher // domain events, best effort, called outside mu
	logger    *zap.Logger
	newID     IDGenerator
	now       func() time.Time
	fixedFee  decimal.Decimal

	mu sync.Mutex // serializes read-modify-write against the store
}

// Option configures a Ledger.
type Option func(*Ledger)

func WithPublisher(p interfaces.EventPublisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

func WithIDGenerator(gen IDGenerator) Option {
	return func(l *Ledger) { l.newID = gen }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithFixedMonthlyFee(fee decimal.Decimal) Option {
	return func(l *Ledger) { l.fixedFee = fee }
}

// NewLedger is a constructor function that creates a new Ledger instance
// We pass in a storage implementation (memory, postgres, sheets, ...)
func NewLedger(store interfaces.LedgerStore, opts ...Option) *Ledger {
	l := &Ledger{
		store:     store,
		publisher: nopPublisher{},
		logger:    zap.NewNop(),
		newID:     UUIDGenerator(),
		now:       time.Now,
		fixedFee:  DefaultFixedMonthlyFee,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RegisterSale validates a sale, expands it into installments and appends
// them to the stored table. Rows already in the table are kept unmodified,
// so a table that cannot be read is never overwritten.
func (l *Ledger) RegisterSale(ctx context.Context, sale models.Sale) ([]models.LedgerEntry, error) {
	if err := validateSale(sale); err != nil {
		return nil, err
	}

	saleID := l.newID()
	created := Installments(saleID, sale)

	if err := l.appendEntries(ctx, created); err != nil {
		return nil, fmt.Errorf("register sale %s: %w", saleID, err)
	}

	commissionTotal := decimal.Zero
	for _, e := range created {
		commissionTotal = commissionTotal.Add(e.Commission)
	}

	l.logger.Info("sale registered",
		zap.String("sale_id", saleID),
		zap.String("source", string(sale.Source)),
		zap.String("category", string(sale.Category)),
		zap.Int("installments", len(created)),
	)

	l.publish(ctx, saleID, events.SaleRegistered{
		SaleID:          saleID,
		Source:          string(sale.Source),
		Client:          sale.Client,
		Category:        string(sale.Category),
		Installments:    len(created),
		CommissionTotal: commissionTotal,
		Bonus:           sale.Bonus,
		OccurredAt:      l.now(),
	})

	return created, nil
}

func (l *Ledger) appendEntries(ctx context.Context, created []models.LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, err := l.store.ReadAll(ctx)
	if err != nil {
		l.logger.Error("reading ledger failed, nothing written", zap.Error(err))
		return fmt.Errorf("read ledger: %w", err)
	}

	table := make([]models.LedgerEntry, 0, len(existing)+len(created))
	table = append(table, existing...)
	table = append(table, created...)

	return l.write(ctx, table)
}

// Entries returns the full stored table. A failed read yields an empty
// table instead of an error.
func (l *Ledger) Entries(ctx context.Context) ([]models.LedgerEntry, error) {
	return l.readOrEmpty(ctx), nil
}

// EntriesBySource returns the entries of one source in chronological order.
func (l *Ledger) EntriesBySource(ctx context.Context, source models.Source) ([]models.LedgerEntry, error) {
	if !source.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}

	var result []models.LedgerEntry
	for _, e := range l.readOrEmpty(ctx) {
		if e.Source == source {
			result = append(result, e)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SortDate.Before(result[j].SortDate.Time)
	})
	return result, nil
}

// ReplaceEntries writes an edited table back in full. Every entry is
// validated first; nothing is written if any of them is invalid.
func (l *Ledger) ReplaceEntries(ctx context.Context, entries []models.LedgerEntry) error {
	var errs []error
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("row %d: %w", i+1, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEntry, errors.Join(errs...))
	}

	if err := l.replaceAll(ctx, entries); err != nil {
		return fmt.Errorf("replace entries: %w", err)
	}

	l.logger.Info("ledger entries replaced", zap.Int("entry_count", len(entries)))

	l.publish(ctx, "", events.EntriesReplaced{
		EntryCount: len(entries),
		OccurredAt: l.now(),
	})
	return nil
}

// Summary computes the per-source totals over the stored table.
func (l *Ledger) Summary(ctx context.Context) (models.Summary, error) {
	return models.Summary{
		Totals:          Summarize(l.readOrEmpty(ctx)),
		FixedMonthlyFee: l.fixedFee,
	}, nil
}

func (l *Ledger) replaceAll(ctx context.Context, entries []models.LedgerEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.write(ctx, entries)
}

// readOrEmpty backs the read-only views only.
func (l *Ledger) readOrEmpty(ctx context.Context) []models.LedgerEntry {
	entries, err := l.store.ReadAll(ctx)
	if err != nil {
		l.logger.Warn("reading ledger failed, using empty table", zap.Error(err))
		return []models.LedgerEntry{}
	}
	if entries == nil {
		return []models.LedgerEntry{}
	}
	return entries
}

func (l *Ledger) write(ctx context.Context, entries []models.LedgerEntry) error {
	if err := l.store.ReplaceAll(ctx, entries); err != nil {
		l.logger.Error("writing ledger failed", zap.Error(err), zap.Int("entry_count", len(entries)))
		return err
	}
	if inv, ok := l.store.(interfaces.CacheInvalidator); ok {
		inv.Invalidate(ctx)
	}
	return nil
}

func (l *Ledger) publish(ctx context.Context, key string, event any) {
	if err := l.publisher.Publish(ctx, key, event); err != nil {
		l.logger.Error("publishing ledger event failed", zap.Error(err), zap.String("key", key))
	}
}

func validateSale(sale models.Sale) error {
	if strings.TrimSpace(sale.Client) == "" {
		return ErrClientRequired
	}
	if !sale.Source.Valid() {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidSale, sale.Source)
	}
	if !sale.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidSale, sale.Category)
	}
	if sale.BaseAmount.IsNegative() || sale.Bonus.IsNegative() {
		return fmt.Errorf("%w: amounts must not be negative", ErrInvalidSale)
	}
	if sale.SaleDate.IsZero() {
		return fmt.Errorf("%w: sale date is required", ErrInvalidSale)
	}
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, string, any) error { return nil }
