package core

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Direction of an account trend.
type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
	Flat    Direction = "flat"
)

// Bucket is the revenue/expense class an account is summed into.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketRevenue
	BucketExpense
)

func (b Bucket) String() string {
	switch b {
	case BucketRevenue:
		return "revenue"
	case BucketExpense:
		return "expense"
	default:
		return "none"
	}
}

// Trend is the mean period-over-period percentage change of an account.
type Trend struct {
	Direction  Direction       `json:"direction"`
	MeanChange decimal.Decimal `json:"mean_change_pct"`
	Periods    int             `json:"periods"`
}

// Summary holds the figures derived from a set of long-form records. It is
// recomputed for every selection and never cached beyond it.
type Summary struct {
	NetRevenue    Value                      `json:"net_revenue"`
	TotalExpense  decimal.Decimal            `json:"total_expense"`
	TotalRevenue  decimal.Decimal            `json:"total_revenue"`
	OverallResult Value                      `json:"overall_result"`
	YearlyTotals  map[string]decimal.Decimal `json:"yearly_totals"`
	Composition   map[Month]map[string]Value `json:"composition"`
	Trends        map[string]Trend           `json:"trends"`
	Warnings      []Warning                  `json:"warnings"`
}

// HasData reports whether any account contributed to the summary.
func (s Summary) HasData() bool {
	return len(s.YearlyTotals) > 0
}

// HasWarning reports whether a warning with the given code was raised.
func (s Summary) HasWarning(code string) bool {
	for _, w := range s.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

// Err joins the errors attached to warnings, nil when there are none.
func (s Summary) Err() error {
	var errs []error
	for _, w := range s.Warnings {
		if w.Err != nil {
			errs = append(errs, w.Err)
		}
	}
	return errors.Join(errs...)
}
