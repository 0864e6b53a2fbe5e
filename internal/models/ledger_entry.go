package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ReferenceMonthLayout is the MM/YYYY layout of LedgerEntry.ReferenceMonth.
const ReferenceMonthLayout = "01/2006"

// SortDateLayout is the layout the sort date is persisted with.
const SortDateLayout = "2006-01-02"

// LedgerEntry represents one installment of a registered sale
type LedgerEntry struct {
	ID             string          `json:"id"`              // shared by every installment of one sale
	Source         Source          `json:"source"`          // where the sale came from
	Client         string          `json:"client"`          // free-form client name
	Category       Category        `json:"category"`        // drives the commission rule
	ReferenceMonth string          `json:"reference_month"` // MM/YYYY
	BaseAmount     decimal.Decimal `json:"base_amount"`     // gross proposal value
	Commission     decimal.Decimal `json:"commission"`      // my share of the base amount
	Bonus          decimal.Decimal `json:"bonus"`           // one-time bonus, first installment only
	SortDate       Date            `json:"sort_date"`       // first day of the installment's month
}

// Validate checks a single entry, as received from a bulk edit.
func (e LedgerEntry) Validate() error {
	var errs []error

	if strings.TrimSpace(e.Client) == "" {
		errs = append(errs, errors.New("client is required"))
	}
	if !e.Source.Valid() {
		errs = append(errs, fmt.Errorf("unknown source %q", e.Source))
	}
	if !e.Category.Valid() {
		errs = append(errs, fmt.Errorf("unknown category %q", e.Category))
	}
	if _, err := time.Parse(ReferenceMonthLayout, e.ReferenceMonth); err != nil {
		errs = append(errs, fmt.Errorf("reference month %q is not MM/YYYY", e.ReferenceMonth))
	}
	if e.BaseAmount.IsNegative() {
		errs = append(errs, errors.New("base amount must not be negative"))
	}
	if e.Commission.IsNegative() {
		errs = append(errs, errors.New("commission must not be negative"))
	}
	if e.Bonus.IsNegative() {
		errs = append(errs, errors.New("bonus must not be negative"))
	}

	return errors.Join(errs...)
}

// Date is a calendar day serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(SortDateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(SortDateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*d = parsed
	return nil
}
