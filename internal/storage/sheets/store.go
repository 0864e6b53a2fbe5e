package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	interfaces "github.com/sheikh-saqib/commission-ledger/internal/interfaces"
	"github.com/sheikh-saqib/commission-ledger/internal/models"
	"github.com/sheikh-saqib/commission-ledger/internal/storage/tabular"
	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// DefaultRange covers the nine canonical columns of the first sheet.
const DefaultRange = "A:I"

// ValuesAPI is the subset of the Sheets values resource the store needs.
type ValuesAPI interface {
	Get(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
	Clear(ctx context.Context, spreadsheetID, clearRange string) error
	Update(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error
}

// SheetsLedgerStore keeps the ledger table in a Google spreadsheet. The
// first row of the range is the header.
type SheetsLedgerStore struct {
	api           ValuesAPI
	spreadsheetID string
	rng           string
}

func NewSheetsLedgerStore(api ValuesAPI, spreadsheetID, rng string) *SheetsLedgerStore {
	if rng == "" {
		rng = DefaultRange
	}
	return &SheetsLedgerStore{api: api, spreadsheetID: spreadsheetID, rng: rng}
}

func (s *SheetsLedgerStore) ReadAll(ctx context.Context) ([]models.LedgerEntry, error) {
	values, err := s.api.Get(ctx, s.spreadsheetID, s.rng)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet %s: %w", s.spreadsheetID, err)
	}

	rows := make([][]string, len(values))
	for i, row := range values {
		rows[i] = make([]string, len(row))
		for j, v := range row {
			rows[i][j] = cellString(v)
		}
	}
	return tabular.Decode(rows)
}

// ReplaceAll overwrites the range from its first row, then clears whatever
// rows the previous table had past the new end. The range must start at
// row 1.
func (s *SheetsLedgerStore) ReplaceAll(ctx context.Context, entries []models.LedgerEntry) error {
	rows := tabular.Encode(entries)
	values := make([][]interface{}, len(rows))
	for i, row := range rows {
		values[i] = make([]interface{}, len(row))
		for j, c := range row {
			values[i][j] = c
			if i > 0 && amountColumn(j) {
				values[i][j] = decimal.RequireFromString(c).InexactFloat64()
			}
		}
	}

	if err := s.api.Update(ctx, s.spreadsheetID, s.rng, values); err != nil {
		return fmt.Errorf("write spreadsheet %s: %w", s.spreadsheetID, err)
	}

	tail := tailRange(s.rng, len(values)+1)
	if err := s.api.Clear(ctx, s.spreadsheetID, tail); err != nil {
		return fmt.Errorf("clear spreadsheet %s range %s: %w", s.spreadsheetID, tail, err)
	}
	return nil
}

// tailRange narrows an A1 range such as "Ledger!A:I" to the rows from
// firstRow down, e.g. "Ledger!A5:I".
func tailRange(rng string, firstRow int) string {
	sheet, cells := "", rng
	if i := strings.LastIndex(rng, "!"); i >= 0 {
		sheet, cells = rng[:i+1], rng[i+1:]
	}

	from, to, _ := strings.Cut(cells, ":")
	from = strings.TrimRightFunc(from, unicode.IsDigit)
	to = strings.TrimRightFunc(to, unicode.IsDigit)
	if to == "" {
		to = from
	}
	return sheet + from + strconv.Itoa(firstRow) + ":" + to
}

func amountColumn(i int) bool {
	switch tabular.Header()[i] {
	case tabular.ColumnBaseAmount, tabular.ColumnCommission, tabular.ColumnBonus:
		return true
	}
	return false
}

func cellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// ServiceValues adapts the generated Sheets client to ValuesAPI.
type ServiceValues struct {
	svc *gsheets.Service
}

// NewServiceValues builds a Sheets client authenticated with a service
// account credentials file.
func NewServiceValues(ctx context.Context, credentialsFile string, opts ...option.ClientOption) (*ServiceValues, error) {
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, option.WithScopes(gsheets.SpreadsheetsScope))

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &ServiceValues{svc: svc}, nil
}

func (v *ServiceValues) Get(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := v.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (v *ServiceValues) Clear(ctx context.Context, spreadsheetID, clearRange string) error {
	_, err := v.svc.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &gsheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	return err
}

func (v *ServiceValues) Update(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	_, err := v.svc.Spreadsheets.Values.Update(spreadsheetID, writeRange, &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

var (
	_ interfaces.LedgerStore = (*SheetsLedgerStore)(nil)
	_ ValuesAPI              = (*ServiceValues)(nil)
)
