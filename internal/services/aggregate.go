package services

import (
	"fmt"

	"github.com/shopspring/decimal"

	"findash/internal/core"
)

// DefaultNetRevenueLabel is the net revenue account of the "Dados para AI" workbook.
const DefaultNetRevenueLabel = "Receita Líquida"

// percentPlaces is the rounding applied to composition shares and trends.
const percentPlaces = 4

var hundred = decimal.NewFromInt(100)

// SummaryOptions configures Summarize.
type SummaryOptions struct {
	// NetRevenueLabel is the exact name of the net revenue account.
	NetRevenueLabel string
	// Classifier decides which totals each account contributes to.
	Classifier Classifier
	// DeclaredTotals are the yearly totals the source states per account.
	// They replace the month sum when the selection covers all twelve months.
	DeclaredTotals map[string]core.Value
}

// DefaultSummaryOptions classifies by sign with the workbook's labels.
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{
		NetRevenueLabel: DefaultNetRevenueLabel,
		Classifier:      SignClassifier{NetRevenueLabel: DefaultNetRevenueLabel},
	}
}

func (o SummaryOptions) withDefaults() SummaryOptions {
	if o.NetRevenueLabel == "" {
		o.NetRevenueLabel = DefaultNetRevenueLabel
	}
	if o.Classifier == nil {
		o.Classifier = SignClassifier{NetRevenueLabel: o.NetRevenueLabel}
	}
	return o
}

// accountSeries gathers one account's selected values in calendar order.
type accountSeries struct {
	values [12]core.Value
	total  decimal.Decimal
}

// Summarize computes the headline figures and per-account analytics of the
// records falling inside sel. It has no side effects and the same inputs
// always produce equal summaries.
//
// Yearly totals are the sum of the selected months, except that a full-year
// selection uses the declared total of an account when opts carries one.
//
// A missing net revenue account is recoverable: NetRevenue and OverallResult
// are left undefined and an account_not_found warning is attached. An empty
// selection yields empty mappings and an empty_selection warning.
func Summarize(records []core.LongRecord, sel core.Selection, opts SummaryOptions) core.Summary {
	opts = opts.withDefaults()
	s := core.Summary{
		NetRevenue:    core.None(),
		TotalExpense:  decimal.Zero,
		TotalRevenue:  decimal.Zero,
		OverallResult: core.None(),
		YearlyTotals:  map[string]decimal.Decimal{},
		Composition:   map[core.Month]map[string]core.Value{},
		Trends:        map[string]core.Trend{},
		Warnings:      []core.Warning{},
	}

	selected := Filter(records, sel)
	if len(selected) == 0 {
		s.Warnings = append(s.Warnings, core.EmptySelectionWarning())
		return s
	}

	fullYear := len(sel.Months) == len(core.Months())
	series, order := collectSeries(selected)
	for _, name := range order {
		a := series[name]
		total := a.total
		if d, ok := opts.DeclaredTotals[name]; ok && d.Valid && fullYear {
			total = d.Decimal
		}
		s.YearlyTotals[name] = total
		switch opts.Classifier.Classify(name) {
		case core.BucketRevenue:
			s.TotalRevenue = s.TotalRevenue.Add(total)
		case core.BucketExpense:
			s.TotalExpense = s.TotalExpense.Add(total)
		}
		if t, ok := trendOf(a.values); ok {
			s.Trends[name] = t
		}
	}

	if net, ok := s.YearlyTotals[opts.NetRevenueLabel]; ok {
		s.NetRevenue = core.Some(net)
		s.OverallResult = core.Some(net.Add(s.TotalExpense))
	} else {
		err := &core.AccountNotFoundError{Account: opts.NetRevenueLabel}
		s.Warnings = append(s.Warnings, core.Warning{
			Code:    core.WarnAccountMissing,
			Message: fmt.Sprintf("net revenue account %q is not in the selection: net revenue and overall result omitted", opts.NetRevenueLabel),
			Err:     err,
		})
	}

	s.Composition = compositionOf(selected)
	return s
}

func collectSeries(records []core.LongRecord) (map[string]*accountSeries, []string) {
	series := map[string]*accountSeries{}
	var order []string
	for _, r := range records {
		a, ok := series[r.Account]
		if !ok {
			a = &accountSeries{total: decimal.Zero}
			series[r.Account] = a
			order = append(order, r.Account)
		}
		a.values[r.Month.Index()] = r.Value
		if r.Value.Valid {
			a.total = a.total.Add(r.Value.Decimal)
		}
	}
	return series, order
}

// compositionOf returns each account's share of the month's absolute total,
// in percent. Shares are undefined when the month has no nonzero value.
func compositionOf(records []core.LongRecord) map[core.Month]map[string]core.Value {
	denominators := map[core.Month]decimal.Decimal{}
	for _, r := range records {
		d := denominators[r.Month]
		if r.Value.Valid {
			d = d.Add(r.Value.Decimal.Abs())
		}
		denominators[r.Month] = d
	}

	out := map[core.Month]map[string]core.Value{}
	for _, r := range records {
		shares, ok := out[r.Month]
		if !ok {
			shares = map[string]core.Value{}
			out[r.Month] = shares
		}
		denom := denominators[r.Month]
		if !r.Value.Valid || denom.IsZero() {
			shares[r.Account] = core.None()
			continue
		}
		share := r.Value.Decimal.Abs().Mul(hundred).Div(denom).Round(percentPlaces)
		shares[r.Account] = core.Some(share)
	}
	return out
}

// trendOf averages the percentage change between consecutive defined values.
// Gaps are skipped rather than interpolated, and a change from zero has no
// percentage so that pair is ignored. ok is false when no pair qualifies.
func trendOf(values [12]core.Value) (core.Trend, bool) {
	var (
		prev    *decimal.Decimal
		sum     = decimal.Zero
		periods int
	)
	for i := range values {
		v := values[i]
		if !v.Valid {
			continue
		}
		cur := v.Decimal
		if prev != nil && !prev.IsZero() {
			change := cur.Sub(*prev).Div(prev.Abs()).Mul(hundred)
			sum = sum.Add(change)
			periods++
		}
		prev = &cur
	}
	if periods == 0 {
		return core.Trend{}, false
	}

	mean := sum.Div(decimal.NewFromInt(int64(periods)))
	dir := core.Flat
	switch mean.Sign() {
	case 1:
		dir = core.Rising
	case -1:
		dir = core.Falling
	}
	return core.Trend{Direction: dir, MeanChange: mean.Round(percentPlaces), Periods: periods}, true
}
