package report

import (
	"github.com/sheikh-saqib/commission-ledger/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BrazilianPortuguese)

// BRL renders an amount the way the dashboard shows it, e.g. "R$ 3.000,00".
func BRL(amount decimal.Decimal) string {
	return printer.Sprintf("R$ %.2f", amount.Round(2).InexactFloat64())
}

// Card is one headline figure of the dashboard.
type Card struct {
	Label   string          `json:"label"`
	Amount  decimal.Decimal `json:"amount"`
	Display string          `json:"display"`
}

// Cards lays out a summary as the dashboard's headline figures: one card
// per source, then the fixed monthly fee.
func Cards(summary models.Summary) []Card {
	cards := make([]Card, 0, len(models.Sources)+1)
	for _, s := range models.Sources {
		total := summary.Totals[s]
		cards = append(cards, Card{
			Label:   "Total " + string(s),
			Amount:  total,
			Display: BRL(total),
		})
	}
	return append(cards, Card{
		Label:   "Fixo Mensal",
		Amount:  summary.FixedMonthlyFee,
		Display: BRL(summary.FixedMonthlyFee),
	})
}
