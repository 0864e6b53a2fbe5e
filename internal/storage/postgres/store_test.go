package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sheikh-saqib/commission-ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresLedgerStore, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewPostgresLedgerStore(mockDB), mock, mockDB
}

var selectColumns = []string{
	"sale_id", "source", "client", "category", "reference_month",
	"base_amount", "commission", "bonus", "sort_date",
}

func TestPostgresLedgerStore_Migrate(t *testing.T) {
	store, mock, mockDB := newMockStore(t)
	defer mockDB.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS ledger_entries`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLedgerStore_ReadAll(t *testing.T) {
	t.Run("scans rows in position order", func(t *testing.T) {
		store, mock, mockDB := newMockStore(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows(selectColumns).
			AddRow("sale-1", "NB Seguros", "Jane Doe", "PME", "01/2024", "1000.00", "300.0000", "50.00",
				time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)).
			AddRow("sale-2", "Particular", "John Roe", "Apoio", "03/2024", "0", "0", "500", nil)

		mock.ExpectQuery(`SELECT (.+) FROM ledger_entries ORDER BY position`).WillReturnRows(rows)

		entries, err := store.ReadAll(context.Background())
		require.NoError(t, err)
		require.Len(t, entries, 2)

		assert.Equal(t, "sale-1", entries[0].ID)
		assert.Equal(t, models.SourcePartnerA, entries[0].Source)
		assert.Equal(t, models.CategoryGroupPlan, entries[0].Category)
		assert.True(t, entries[0].Commission.Equal(decimal.NewFromInt(300)))
		assert.Equal(t, "2024-01-01", entries[0].SortDate.String())

		assert.Equal(t, models.CategorySupport, entries[1].Category)
		assert.True(t, entries[1].SortDate.IsZero())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table is an empty slice", func(t *testing.T) {
		store, mock, mockDB := newMockStore(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT (.+) FROM ledger_entries`).WillReturnRows(sqlmock.NewRows(selectColumns))

		entries, err := store.ReadAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("query error", func(t *testing.T) {
		store, mock, mockDB := newMockStore(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT (.+) FROM ledger_entries`).WillReturnError(errors.New("relation does not exist"))

		_, err := store.ReadAll(context.Background())
		assert.Error(t, err)
	})
}

func TestPostgresLedgerStore_ReplaceAll(t *testing.T) {
	entries := []models.LedgerEntry{
		{
			ID:             "sale-1",
			Source:         models.SourcePartnerA,
			Client:         "Jane Doe",
			Category:       models.CategoryIndividualPlan,
			ReferenceMonth: "01/2024",
			BaseAmount:     decimal.NewFromInt(1000),
			Commission:     decimal.NewFromInt(300),
			Bonus:          decimal.NewFromInt(50),
			SortDate:       models.NewDate(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)),
		},
		{
			ID:             "sale-2",
			Source:         models.SourceIndependent,
			Client:         "John Roe",
			Category:       models.CategorySupport,
			ReferenceMonth: "03/2024",
		},
	}

	t.Run("deletes and copies in one transaction", func(t *testing.T) {
		store, mock, mockDB := newMockStore(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM ledger_entries`).WillReturnResult(sqlmock.NewResult(0, 5))
		prep := mock.ExpectPrepare(`COPY "ledger_entries"`)
		prep.ExpectExec().
			WithArgs(0, "sale-1", "NB Seguros", "Jane Doe", "PF", "01/2024",
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().
			WithArgs(1, "sale-2", "Particular", "John Roe", "Apoio", "03/2024",
				sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), nil).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		require.NoError(t, store.ReplaceAll(context.Background(), entries))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the copy fails", func(t *testing.T) {
		store, mock, mockDB := newMockStore(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM ledger_entries`).WillReturnResult(sqlmock.NewResult(0, 0))
		prep := mock.ExpectPrepare(`COPY "ledger_entries"`)
		prep.ExpectExec().WillReturnError(errors.New("invalid input syntax"))
		mock.ExpectRollback()

		err := store.ReplaceAll(context.Background(), entries)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "copy row 0")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the delete fails", func(t *testing.T) {
		store, mock, mockDB := newMockStore(t)
		defer mockDB.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM ledger_entries`).WillReturnError(errors.New("lock timeout"))
		mock.ExpectRollback()

		err := store.ReplaceAll(context.Background(), entries)
		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
