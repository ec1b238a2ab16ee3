package services

import (
	"sort"

	"findash/internal/core"
)

// ChartPoint is one month of a chart series.
type ChartPoint struct {
	Month core.Month `json:"month"`
	Label string     `json:"label"`
	Value core.Value `json:"value"`
}

// ChartSeries is the line/bar chart projection of one account.
type ChartSeries struct {
	Account string       `json:"account"`
	Points  []ChartPoint `json:"points"`
}

// BuildSeries groups records per account, in first-seen account order, with
// points in calendar order. Month labels follow locale.
func BuildSeries(records []core.LongRecord, locale string) []ChartSeries {
	index := map[string]int{}
	var out []ChartSeries
	for _, r := range records {
		i, ok := index[r.Account]
		if !ok {
			i = len(out)
			index[r.Account] = i
			out = append(out, ChartSeries{Account: r.Account})
		}
		out[i].Points = append(out[i].Points, ChartPoint{Month: r.Month, Label: r.Month.Label(locale), Value: r.Value})
	}
	for i := range out {
		sort.SliceStable(out[i].Points, func(a, b int) bool {
			return out[i].Points[a].Month < out[i].Points[b].Month
		})
	}
	return out
}

// PieSlice is one account's share of a month.
type PieSlice struct {
	Account string     `json:"account"`
	Share   core.Value `json:"share"`
}

// PieSlices returns the composition of month sorted by descending share,
// undefined shares last, ties broken by account name.
func PieSlices(s core.Summary, month core.Month) []PieSlice {
	shares := s.Composition[month]
	out := make([]PieSlice, 0, len(shares))
	for account, v := range shares {
		out = append(out, PieSlice{Account: account, Share: v})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Share, out[j].Share
		if a.Valid != b.Valid {
			return a.Valid
		}
		if a.Valid && !a.Decimal.Equal(b.Decimal) {
			return a.Decimal.GreaterThan(b.Decimal)
		}
		return out[i].Account < out[j].Account
	})
	return out
}
