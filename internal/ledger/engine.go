package ledger

import (
	"github.com/sheikh-saqib/commission-ledger/internal/models"
	"github.com/shopspring/decimal"
)

const (
	groupPlanInstallments = 3
	installmentStepDays   = 30 // fixed offset, not calendar months
)

// CommissionRate is the share of the base amount credited as commission.
var CommissionRate = decimal.RequireFromString("0.30")

// InstallmentCount returns how many ledger entries a sale of the given
// category expands into.
func InstallmentCount(c models.Category) int {
	if c == models.CategoryGroupPlan {
		return groupPlanInstallments
	}
	return 1
}

// Installments expands a sale into its ledger entries. Every entry shares
// saleID, installment i is dated SaleDate + 30*i days, and only the first
// installment carries the bonus. The base amount is charged in full to each
// installment.
func Installments(saleID string, sale models.Sale) []models.LedgerEntry {
	count := InstallmentCount(sale.Category)
	entries := make([]models.LedgerEntry, 0, count)

	commission := decimal.Zero
	if sale.Category != models.CategorySupport {
		commission = sale.BaseAmount.Mul(CommissionRate)
	}

	for i := 0; i < count; i++ {
		date := sale.SaleDate.AddDate(0, 0, installmentStepDays*i)

		bonus := decimal.Zero
		if i == 0 {
			bonus = sale.Bonus
		}

		entries = append(entries, models.LedgerEntry{
			ID:             saleID,
			Source:         sale.Source,
			Client:         sale.Client,
			Category:       sale.Category,
			ReferenceMonth: date.Format(models.ReferenceMonthLayout),
			BaseAmount:     sale.BaseAmount,
			Commission:     commission,
			Bonus:          bonus,
			SortDate:       models.NewDate(date.AddDate(0, 0, 1-date.Day())),
		})
	}

	return entries
}

// Summarize totals commission plus bonus per recognized source. Every
// recognized source is present in the result, with zero when it has no
// entries; entries with an unknown source are ignored.
func Summarize(entries []models.LedgerEntry) map[models.Source]decimal.Decimal {
	totals := make(map[models.Source]decimal.Decimal, len(models.Sources))
	for _, s := range models.Sources {
		totals[s] = decimal.Zero
	}

	for _, e := range entries {
		total, ok := totals[e.Source]
		if !ok {
			continue
		}
		totals[e.Source] = total.Add(e.Commission).Add(e.Bonus)
	}

	return totals
}
