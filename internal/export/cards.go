// Package export projects dashboard results into downloadable and
// displayable forms: headline cards, CSV, XLSX and share links.
package export

import "findash/internal/core"

// Card is one headline figure, formatted for display.
type Card struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value string `json:"value"`
	// Negative is set when the underlying figure is below zero.
	Negative bool `json:"negative"`
	Defined  bool `json:"defined"`
}

type cardLabels struct {
	netRevenue, expenses, revenue, result, undefined string
}

var (
	labelsPT = cardLabels{"Receita Líquida", "Total de Despesas", "Total de Receitas", "Resultado", "n/d"}
	labelsEN = cardLabels{"Net revenue", "Total expenses", "Total revenue", "Overall result", "n/a"}
)

func labelsFor(locale string) cardLabels {
	if core.IsPortuguese(locale) {
		return labelsPT
	}
	return labelsEN
}

// Cards returns the headline figures of s in display order. The expenses card
// shows the magnitude of the total; the summary itself keeps the sign.
func Cards(s core.Summary, locale string) []Card {
	l := labelsFor(locale)
	card := func(key, label string, v core.Value) Card {
		if !v.Valid {
			return Card{Key: key, Label: label, Value: l.undefined}
		}
		return Card{Key: key, Label: label, Value: core.FormatCurrency(v.Decimal, locale), Negative: v.Decimal.IsNegative(), Defined: true}
	}
	return []Card{
		card("net_revenue", l.netRevenue, s.NetRevenue),
		card("total_expense", l.expenses, core.Some(s.TotalExpense.Abs())),
		card("total_revenue", l.revenue, core.Some(s.TotalRevenue)),
		card("overall_result", l.result, s.OverallResult),
	}
}
