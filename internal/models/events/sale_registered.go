package events

import (
	"time"

	"github.com/shopspring/decimal"
)

type SaleRegistered struct {
	SaleID          string          `json:"sale_id"`
	Source          string          `json:"source"`
	Client          string          `json:"client"`
	Category        string          `json:"category"`
	Installments    int             `json:"installments"`
	CommissionTotal decimal.Decimal `json:"commission_total"`
	Bonus           decimal.Decimal `json:"bonus"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

type EntriesReplaced struct {
	EntryCount int       `json:"entry_count"`
	OccurredAt time.Time `json:"occurred_at"`
}
