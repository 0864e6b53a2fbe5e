package models

import "github.com/shopspring/decimal"

// Source is the channel a sale originated from. Values match the labels
// stored in the spreadsheet.
type Source string

const (
	SourcePartnerA    Source = "NB Seguros"
	SourceIndependent Source = "Particular"
)

// Sources lists every recognized source in display order.
var Sources = []Source{SourcePartnerA, SourceIndependent}

func (s Source) Valid() bool {
	return s == SourcePartnerA || s == SourceIndependent
}

// Category selects the installment and commission rule of a sale.
type Category string

const (
	CategoryGroupPlan      Category = "PME"
	CategoryEnrollment     Category = "Adesão"
	CategoryIndividualPlan Category = "PF"
	CategorySupport        Category = "Apoio"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryGroupPlan, CategoryEnrollment, CategoryIndividualPlan, CategorySupport:
		return true
	}
	return false
}

// Sale represents the intent to register a sale, before it is expanded
// into installments
type Sale struct {
	Source     Source          `json:"source"`
	Client     string          `json:"client"`
	Category   Category        `json:"category"`
	BaseAmount decimal.Decimal `json:"base_amount"` // must be zero for Support, by convention
	SaleDate   Date            `json:"sale_date"`
	Bonus      decimal.Decimal `json:"bonus"`
}

// Summary is the dashboard view of the ledger
type Summary struct {
	Totals          map[Source]decimal.Decimal
	FixedMonthlyFee decimal.Decimal // static figure, not derived from entries
}
