package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	interfaces "github.com/sheikh-saqib/commission-ledger/internal/interfaces" // interface LedgerStore
	"github.com/sheikh-saqib/commission-ledger/internal/models"
)

const tableName = "ledger_entries"

var copyColumns = []string{
	"position", "sale_id", "source", "client", "category",
	"reference_month", "base_amount", "commission", "bonus", "sort_date",
}

const schema = `CREATE TABLE IF NOT EXISTS ledger_entries (
	position        INTEGER PRIMARY KEY,
	sale_id         TEXT NOT NULL,
	source          TEXT NOT NULL,
	client          TEXT NOT NULL,
	category        TEXT NOT NULL,
	reference_month TEXT NOT NULL,
	base_amount     NUMERIC(14,2) NOT NULL DEFAULT 0,
	commission      NUMERIC(14,4) NOT NULL DEFAULT 0,
	bonus           NUMERIC(14,2) NOT NULL DEFAULT 0,
	sort_date       DATE
)`

type PostgresLedgerStore struct {
	db *sql.DB
}

func NewPostgresLedgerStore(db *sql.DB) *PostgresLedgerStore {
	return &PostgresLedgerStore{
		db: db,
	}
}

// Migrate creates the ledger table when it does not exist.
func (p *PostgresLedgerStore) Migrate(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, schema)
	return err
}

func (p *PostgresLedgerStore) ReadAll(ctx context.Context) ([]models.LedgerEntry, error) {
	const query = `SELECT sale_id, source, client, category, reference_month, base_amount, commission, bonus, sort_date FROM ledger_entries ORDER BY position`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.LedgerEntry{}
	for rows.Next() {
		var (
			entry    models.LedgerEntry
			sortDate sql.NullTime
		)
		err := rows.Scan(
			&entry.ID,
			&entry.Source,
			&entry.Client,
			&entry.Category,
			&entry.ReferenceMonth,
			&entry.BaseAmount,
			&entry.Commission,
			&entry.Bonus,
			&sortDate,
		)
		if err != nil {
			return nil, err
		}
		if sortDate.Valid {
			entry.SortDate = models.NewDate(sortDate.Time)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReplaceAll deletes every row and bulk loads entries with COPY, in one
// transaction.
func (p *PostgresLedgerStore) ReplaceAll(ctx context.Context, entries []models.LedgerEntry) (err error) {
	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	if _, err = dbTx.ExecContext(ctx, `DELETE FROM ledger_entries`); err != nil {
		return fmt.Errorf("clear %s: %w", tableName, err)
	}

	stmt, err := dbTx.PrepareContext(ctx, pq.CopyIn(tableName, copyColumns...))
	if err != nil {
		return fmt.Errorf("prepare copy: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		var sortDate interface{}
		if !e.SortDate.IsZero() {
			sortDate = e.SortDate.Time
		}
		_, err = stmt.ExecContext(ctx,
			i,
			e.ID,
			string(e.Source),
			e.Client,
			string(e.Category),
			e.ReferenceMonth,
			e.BaseAmount,
			e.Commission,
			e.Bonus,
			sortDate,
		)
		if err != nil {
			return fmt.Errorf("copy row %d: %w", i, err)
		}
	}

	// flush the COPY buffer
	if _, err = stmt.ExecContext(ctx); err != nil {
		return fmt.Errorf("flush copy: %w", err)
	}

	return dbTx.Commit()
}

// Open connects to PostgreSQL with the lib/pq driver.
func Open(dsn string, maxOpen, maxIdle int, maxLifetime time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)
	return db, nil
}

var _ interfaces.LedgerStore = (*PostgresLedgerStore)(nil)
