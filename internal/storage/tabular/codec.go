// Package tabular converts ledger entries to and from spreadsheet-style rows
// identified by column name.
package tabular

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sheikh-saqib/commission-ledger/internal/models"
	"github.com/shopspring/decimal"
)

// Column names of the canonical table, as they appear in the header row.
const (
	ColumnID             = "ID"
	ColumnSource         = "Origem"
	ColumnClient         = "Cliente"
	ColumnCategory       = "Tipo"
	ColumnReferenceMonth = "Mês Referência"
	ColumnBaseAmount     = "Valor Corretora"
	ColumnCommission     = "Minha Comissão"
	ColumnBonus          = "Premiação"
	ColumnSortDate       = "Data Ordenação"
)

var (
	ErrMissingColumn = errors.New("missing column")
	ErrMalformedRow  = errors.New("malformed row")
)

var header = []string{
	ColumnID,
	ColumnSource,
	ColumnClient,
	ColumnCategory,
	ColumnReferenceMonth,
	ColumnBaseAmount,
	ColumnCommission,
	ColumnBonus,
	ColumnSortDate,
}

// Header returns the canonical column set in order.
func Header() []string {
	h := make([]string, len(header))
	copy(h, header)
	return h
}

// Encode renders entries as rows, header first.
func Encode(entries []models.LedgerEntry) [][]string {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, Header())
	for _, e := range entries {
		rows = append(rows, []string{
			e.ID,
			string(e.Source),
			e.Client,
			string(e.Category),
			e.ReferenceMonth,
			e.BaseAmount.String(),
			e.Commission.String(),
			e.Bonus.String(),
			e.SortDate.String(),
		})
	}
	return rows
}

// Decode parses rows whose first row is a header. Columns are located by
// name, so their order does not matter and unknown columns are ignored.
// Fully blank rows are skipped.
func Decode(rows [][]string) ([]models.LedgerEntry, error) {
	if len(rows) == 0 {
		return []models.LedgerEntry{}, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[strings.TrimSpace(name)] = i
	}
	for _, name := range header {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
	}

	entries := make([]models.LedgerEntry, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}
		cell := func(name string) string {
			i := index[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		e, err := decodeRow(cell)
		if err != nil {
			// +2: one for the header, one for 1-based numbering
			return nil, fmt.Errorf("%w %d: %w", ErrMalformedRow, n+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func decodeRow(cell func(string) string) (models.LedgerEntry, error) {
	e := models.LedgerEntry{
		ID:             cell(ColumnID),
		Source:         models.Source(cell(ColumnSource)),
		Client:         cell(ColumnClient),
		Category:       models.Category(cell(ColumnCategory)),
		ReferenceMonth: cell(ColumnReferenceMonth),
	}

	var err error
	if e.BaseAmount, err = amount(cell(ColumnBaseAmount)); err != nil {
		return e, fmt.Errorf("%s: %w", ColumnBaseAmount, err)
	}
	if e.Commission, err = amount(cell(ColumnCommission)); err != nil {
		return e, fmt.Errorf("%s: %w", ColumnCommission, err)
	}
	if e.Bonus, err = amount(cell(ColumnBonus)); err != nil {
		return e, fmt.Errorf("%s: %w", ColumnBonus, err)
	}

	if s := cell(ColumnSortDate); s != "" {
		if e.SortDate, err = parseSortDate(s); err != nil {
			return e, fmt.Errorf("%s: %w", ColumnSortDate, err)
		}
	}
	return e, nil
}

func amount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// parseSortDate accepts a bare date and the "YYYY-MM-DD hh:mm:ss" form a
// spreadsheet may write back after an edit.
func parseSortDate(s string) (models.Date, error) {
	if len(s) > len(models.SortDateLayout) {
		s = s[:len(models.SortDateLayout)]
	}
	return models.ParseDate(s)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
