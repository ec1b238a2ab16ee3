package sheets

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

const (
	DefaultAccountColumn = "Conta Contábil"
	DefaultTotalColumn   = "total"
)

// DefaultSentinels are the placeholder literals the source workbooks use
// where a cell means "no data". An empty list turns replacement off.
func DefaultSentinels() []decimal.Decimal {
	return []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(11)}
}

// GridOptions controls how a raw values matrix is interpreted.
type GridOptions struct {
	// AccountColumn is the header of the account-name column. Empty means
	// the first column.
	AccountColumn string
	// TotalColumn is the header of the running yearly total, if any.
	TotalColumn string
	// Sentinels are literal values treated as "no value".
	Sentinels []decimal.Decimal
}

// DefaultGridOptions returns the "Dados para AI" workbook layout.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		AccountColumn: DefaultAccountColumn,
		TotalColumn:   DefaultTotalColumn,
		Sentinels:     DefaultSentinels(),
	}
}

func (o GridOptions) isSentinel(d decimal.Decimal) bool {
	for _, s := range o.Sentinels {
		if d.Equal(s) {
			return true
		}
	}
	return false
}

// ParseGrid converts a values matrix (header row first, as returned by the
// Sheets API or a workbook reader) into an AccountTable.
//
// The header must contain the account column and at least one recognizable
// month label; other columns are ignored. Months absent from the header are
// loaded as "no value". Cells that do not parse as numbers, and sentinel
// literals, become "no value".
func ParseGrid(sheet string, values [][]any, opts GridOptions) (core.AccountTable, error) {
	headerRow := -1
	for i, row := range values {
		if !isBlankRow(row) {
			headerRow = i
			break
		}
	}
	if headerRow == -1 {
		return core.AccountTable{}, &core.SchemaError{Sheet: sheet, Reason: "no header row"}
	}
	headers := toStrings(values[headerRow])

	colAccount := 0
	if strings.TrimSpace(opts.AccountColumn) != "" {
		colAccount = indexOf(headers, opts.AccountColumn)
	}
	colTotal := -1
	if strings.TrimSpace(opts.TotalColumn) != "" {
		colTotal = indexOf(headers, opts.TotalColumn)
	}

	monthCols := map[core.Month]int{}
	for i, h := range headers {
		if i == colAccount || i == colTotal || h == "" {
			continue
		}
		m, err := core.ParseMonth(h)
		if err != nil {
			continue
		}
		if prev, dup := monthCols[m]; dup {
			return core.AccountTable{}, &core.SchemaError{
				Sheet:  sheet,
				Reason: fmt.Sprintf("month %s appears in columns %d and %d", m, prev+1, i+1),
			}
		}
		monthCols[m] = i
	}

	var missing []string
	if colAccount == -1 {
		missing = append(missing, opts.AccountColumn)
	}
	if len(monthCols) == 0 {
		missing = append(missing, "month columns")
	}
	if len(missing) > 0 {
		return core.AccountTable{}, &core.SchemaError{Sheet: sheet, Missing: missing, Reason: fmt.Sprintf("got headers=%v", headers)}
	}
	if len(monthCols) < 12 {
		var absent []string
		for _, m := range core.Months() {
			if _, ok := monthCols[m]; !ok {
				absent = append(absent, m.String())
			}
		}
		slog.Warn("Sheet has no column for some months, loading them as no value",
			"sheet", sheet, "months", strings.Join(absent, ","))
	}

	var (
		accounts  []core.Account
		sentinels int
	)
	for r := headerRow + 1; r < len(values); r++ {
		row := values[r]
		name := strings.TrimSpace(cellString(safeGet(row, colAccount)))
		if name == "" {
			continue
		}
		acc := core.Account{Name: name}
		for m, col := range monthCols {
			v, replaced := opts.cellValue(safeGet(row, col))
			if replaced {
				sentinels++
			}
			acc.Values[m.Index()] = v
		}
		if colTotal >= 0 {
			v, replaced := opts.cellValue(safeGet(row, colTotal))
			if replaced {
				sentinels++
			}
			acc.Total = v
		}
		reconcileTotal(sheet, acc)
		accounts = append(accounts, acc)
	}
	if sentinels > 0 {
		slog.Info("Sentinel placeholders loaded as no value", "sheet", sheet, "cells", sentinels)
	}
	return core.NewAccountTable(sheet, accounts)
}

// cellValue coerces one cell. The second result reports a sentinel hit.
func (o GridOptions) cellValue(cell any) (core.Value, bool) {
	var d decimal.Decimal
	switch v := cell.(type) {
	case nil:
		return core.None(), false
	case float64:
		d = decimal.NewFromFloat(v)
	case float32:
		d = decimal.NewFromFloat32(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int64:
		d = decimal.NewFromInt(v)
	case decimal.Decimal:
		d = v
	case string:
		parsed, err := core.ParseAmount(v)
		if err != nil {
			return core.None(), false
		}
		d = parsed
	default:
		parsed, err := core.ParseAmount(fmt.Sprint(v))
		if err != nil {
			return core.None(), false
		}
		d = parsed
	}
	if o.isSentinel(d) {
		return core.None(), true
	}
	return core.Some(d), false
}

// reconcileTotal logs accounts whose declared total disagrees with the sum
// of their month values. Sentinel removal is the usual cause.
func reconcileTotal(sheet string, acc core.Account) {
	if !acc.Total.Valid {
		return
	}
	sum := decimal.Zero
	for _, v := range acc.Values {
		if v.Valid {
			sum = sum.Add(v.Decimal)
		}
	}
	if !sum.Equal(acc.Total.Decimal) {
		slog.Warn("Declared total differs from sum of months",
			"sheet", sheet, "account", acc.Name,
			"declared", acc.Total.Decimal.String(), "computed", sum.String())
	}
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = cellString(v)
	}
	return out
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func isBlankRow(row []any) bool {
	for _, v := range row {
		if cellString(v) != "" {
			return false
		}
	}
	return true
}

func indexOf(arr []string, target string) int {
	want := core.NormalizeHeader(target)
	for i, v := range arr {
		if core.NormalizeHeader(v) == want {
			return i
		}
	}
	return -1
}

func safeGet(arr []any, idx int) any {
	if idx < 0 || idx >= len(arr) {
		return nil
	}
	return arr[idx]
}
