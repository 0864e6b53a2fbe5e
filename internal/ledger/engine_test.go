package ledger

import (
	"testing"
	"time"

	"github.com/sheikh-saqib/commission-ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) models.Date {
	return models.NewDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestInstallments_GroupPlan(t *testing.T) {
	entries := Installments("sale-1", models.Sale{
		Source:     models.SourcePartnerA,
		Client:     "Jane Doe",
		Category:   models.CategoryGroupPlan,
		BaseAmount: dec("1000.00"),
		SaleDate:   day(2024, time.January, 15),
		Bonus:      dec("50.00"),
	})

	require.Len(t, entries, 3)

	months := []string{"01/2024", "02/2024", "03/2024"}
	bonuses := []string{"50", "0", "0"}
	sortDates := []models.Date{
		day(2024, time.January, 1),
		day(2024, time.February, 1),
		day(2024, time.March, 1),
	}

	for i, e := range entries {
		assert.Equal(t, "sale-1", e.ID)
		assert.Equal(t, models.SourcePartnerA, e.Source)
		assert.Equal(t, "Jane Doe", e.Client)
		assert.Equal(t, models.CategoryGroupPlan, e.Category)
		assert.Equal(t, months[i], e.ReferenceMonth)
		assert.Equal(t, sortDates[i], e.SortDate)
		assertDecimal(t, "1000", e.BaseAmount)
		assertDecimal(t, "300", e.Commission)
		assertDecimal(t, bonuses[i], e.Bonus)
	}
}

func TestInstallments_UsesThirtyDaySteps(t *testing.T) {
	// Jan 31 + 30 days is Mar 1 in a leap year, so February is skipped.
	entries := Installments("sale-2", models.Sale{
		Source:     models.SourceIndependent,
		Client:     "Ana",
		Category:   models.CategoryGroupPlan,
		BaseAmount: dec("200"),
		SaleDate:   day(2024, time.January, 31),
	})

	require.Len(t, entries, 3)
	assert.Equal(t, "01/2024", entries[0].ReferenceMonth)
	assert.Equal(t, "03/2024", entries[1].ReferenceMonth)
	assert.Equal(t, "03/2024", entries[2].ReferenceMonth)
	assert.Equal(t, day(2024, time.March, 1), entries[1].SortDate)
}

func TestInstallments_SingleInstallmentCategories(t *testing.T) {
	categories := []models.Category{
		models.CategoryEnrollment,
		models.CategoryIndividualPlan,
		models.CategorySupport,
	}

	for _, c := range categories {
		t.Run(string(c), func(t *testing.T) {
			entries := Installments("id", models.Sale{
				Source:     models.SourcePartnerA,
				Client:     "Client",
				Category:   c,
				BaseAmount: dec("500"),
				SaleDate:   day(2024, time.May, 20),
				Bonus:      dec("10"),
			})

			require.Len(t, entries, 1)
			assert.Equal(t, "05/2024", entries[0].ReferenceMonth)
			assertDecimal(t, "10", entries[0].Bonus)
		})
	}
}

func TestInstallments_Commission(t *testing.T) {
	tests := []struct {
		name       string
		category   models.Category
		base       string
		commission string
	}{
		{"enrollment takes 30 percent", models.CategoryEnrollment, "123.45", "37.035"},
		{"individual plan takes 30 percent", models.CategoryIndividualPlan, "1000", "300"},
		{"group plan is not divided", models.CategoryGroupPlan, "90", "27"},
		{"support is always zero", models.CategorySupport, "999", "0"},
		{"zero base yields zero", models.CategoryIndividualPlan, "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := Installments("id", models.Sale{
				Source:     models.SourcePartnerA,
				Client:     "Client",
				Category:   tt.category,
				BaseAmount: dec(tt.base),
				SaleDate:   day(2024, time.June, 1),
			})
			for _, e := range entries {
				assertDecimal(t, tt.commission, e.Commission)
			}
		})
	}
}

func TestInstallments_SupportExample(t *testing.T) {
	entries := Installments("sale-3", models.Sale{
		Source:     models.SourceIndependent,
		Client:     "John Roe",
		Category:   models.CategorySupport,
		BaseAmount: decimal.Zero,
		SaleDate:   day(2024, time.March, 1),
		Bonus:      dec("500.00"),
	})

	require.Len(t, entries, 1)
	assertDecimal(t, "0", entries[0].Commission)
	assertDecimal(t, "500", entries[0].Bonus)
	assert.Equal(t, "03/2024", entries[0].ReferenceMonth)
}

func TestSummarize(t *testing.T) {
	t.Run("empty input yields zero for every source", func(t *testing.T) {
		totals := Summarize(nil)

		require.Len(t, totals, 2)
		assertDecimal(t, "0", totals[models.SourcePartnerA])
		assertDecimal(t, "0", totals[models.SourceIndependent])
	})

	t.Run("adds commission and bonus per source", func(t *testing.T) {
		entries := append(
			Installments("a", models.Sale{
				Source:     models.SourcePartnerA,
				Client:     "Jane Doe",
				Category:   models.CategoryGroupPlan,
				BaseAmount: dec("1000"),
				SaleDate:   day(2024, time.January, 15),
				Bonus:      dec("50"),
			}),
			Installments("b", models.Sale{
				Source:   models.SourceIndependent,
				Client:   "John Roe",
				Category: models.CategorySupport,
				SaleDate: day(2024, time.March, 1),
				Bonus:    dec("500"),
			})...,
		)

		totals := Summarize(entries)
		assertDecimal(t, "950", totals[models.SourcePartnerA])
		assertDecimal(t, "500", totals[models.SourceIndependent])
	})

	t.Run("ignores unknown sources", func(t *testing.T) {
		totals := Summarize([]models.LedgerEntry{
			{Source: "Other", Commission: dec("10"), Bonus: dec("5")},
		})

		require.Len(t, totals, 2)
		assertDecimal(t, "0", totals[models.SourcePartnerA])
		assertDecimal(t, "0", totals[models.SourceIndependent])
	})

	t.Run("is order independent and idempotent", func(t *testing.T) {
		entries := []models.LedgerEntry{
			{Source: models.SourcePartnerA, Commission: dec("30"), Bonus: dec("1.5")},
			{Source: models.SourceIndependent, Commission: dec("12.25")},
			{Source: models.SourcePartnerA, Commission: dec("0"), Bonus: dec("100")},
		}
		reversed := []models.LedgerEntry{entries[2], entries[1], entries[0]}

		first := Summarize(entries)
		second := Summarize(entries)
		third := Summarize(reversed)

		for _, s := range models.Sources {
			assert.True(t, first[s].Equal(second[s]))
			assert.True(t, first[s].Equal(third[s]))
		}
		assertDecimal(t, "131.5", first[models.SourcePartnerA])
		assertDecimal(t, "12.25", first[models.SourceIndependent])
	})
}
