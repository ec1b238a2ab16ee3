package http

import (
	"html/template"
	"net/url"

	"github.com/shopspring/decimal"

	"findash/internal/core"
	"findash/internal/export"
	"findash/internal/services"
)

type uiText struct {
	title, accounts, months, apply, selectAll, noData, records, yearly, trends,
	composition, share, download, warnings, chart, account, total, loadError string
}

var (
	textPT = uiText{
		title: "Painel Financeiro", accounts: "Contas", months: "Meses", apply: "Aplicar",
		selectAll: "Selecionar tudo", noData: "Nenhum dado para a seleção atual.",
		records: "Valores por mês", yearly: "Total no período", trends: "Tendências",
		composition: "Composição", share: "Link para compartilhar", download: "Baixar",
		warnings: "Avisos", chart: "Evolução mensal", account: "Conta", total: "Total",
		loadError: "Erro ao carregar os dados",
	}
	textEN = uiText{
		title: "Financial Dashboard", accounts: "Accounts", months: "Months", apply: "Apply",
		selectAll: "Select all", noData: "No data for the current selection.",
		records: "Values by month", yearly: "Total for the period", trends: "Trends",
		composition: "Composition", share: "Share link", download: "Download",
		warnings: "Warnings", chart: "Monthly evolution", account: "Account", total: "Total",
		loadError: "Failed to load data",
	}
)

func pageText(locale string) uiText {
	if core.IsPortuguese(locale) {
		return textPT
	}
	return textEN
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type cell struct {
	Text     string
	Negative bool
}

type tableRow struct {
	Account string
	Cells   []cell
	Total   cell
}

type bar struct {
	Account  string
	Amount   string
	Width    int
	Negative bool
}

type trendRow struct {
	Account   string
	Direction string
	Change    string
	Class     string
}

type slice struct {
	Account string
	Share   string
	Width   int
}

type compositionBlock struct {
	Month  string
	Slices []slice
}

type pageData struct {
	Lang        string
	Text        map[string]string
	Sheet       string
	Cards       []export.Card
	Accounts    []option
	Months      []option
	Headers     []string
	Rows        []tableRow
	Bars        []bar
	Trends      []trendRow
	Composition []compositionBlock
	Chart       lineChart
	Warnings    []string
	HasData     bool
	ShareURL    string
	ExportCSV   template.URL
	ExportXLSX  template.URL
}

// buildPage turns a view into display strings. All amounts are formatted
// here; the template only lays them out.
func buildPage(v services.View, locale, shareURL string) pageData {
	t := pageText(locale)
	d := pageData{
		Lang:     locale,
		Text:     t.asMap(),
		Sheet:    v.Sheet,
		Cards:    export.Cards(v.Summary, locale),
		HasData:  v.Summary.HasData(),
		ShareURL: shareURL,
		Chart:    buildLineChart(v.Series),
	}

	for _, name := range v.Table.AccountNames() {
		d.Accounts = append(d.Accounts, option{Value: name, Label: name, Selected: v.Selection.HasAccount(name)})
	}
	for _, m := range core.Months() {
		d.Months = append(d.Months, option{Value: m.String(), Label: m.Label(locale), Selected: v.Selection.HasMonth(m)})
	}

	selected := v.Selection.MonthList()
	for _, m := range selected {
		d.Headers = append(d.Headers, m.Label(locale))
	}
	for _, series := range v.Series {
		row := tableRow{Account: series.Account}
		for _, p := range series.Points {
			row.Cells = append(row.Cells, valueCell(p.Value, locale))
		}
		row.Total = valueCell(core.Some(v.Summary.YearlyTotals[series.Account]), locale)
		d.Rows = append(d.Rows, row)
	}

	d.Bars = yearlyBars(v, locale)
	d.Trends = trendRows(v)
	for _, m := range selected {
		block := compositionBlock{Month: m.Label(locale)}
		for _, s := range services.PieSlices(v.Summary, m) {
			sl := slice{Account: s.Account, Share: "-"}
			if s.Share.Valid {
				sl.Share = s.Share.Decimal.StringFixed(1) + "%"
				sl.Width = int(s.Share.Decimal.Round(0).IntPart())
			}
			block.Slices = append(block.Slices, sl)
		}
		if len(block.Slices) > 0 {
			d.Composition = append(d.Composition, block)
		}
	}

	for _, w := range v.Summary.Warnings {
		d.Warnings = append(d.Warnings, w.Message)
	}

	q := exportQuery(v)
	d.ExportCSV = template.URL("/export.csv" + q)
	d.ExportXLSX = template.URL("/export.xlsx" + q)
	return d
}

func valueCell(v core.Value, locale string) cell {
	if !v.Valid {
		return cell{Text: "-"}
	}
	return cell{Text: core.FormatCurrency(v.Decimal, locale), Negative: v.Decimal.IsNegative()}
}

// yearlyBars scales each account's period total against the largest
// magnitude. Non-zero bars are at least 2% wide so they stay visible.
func yearlyBars(v services.View, locale string) []bar {
	largest := decimal.Zero
	for _, total := range v.Summary.YearlyTotals {
		largest = decimal.Max(largest, total.Abs())
	}
	var out []bar
	for _, series := range v.Series {
		total, ok := v.Summary.YearlyTotals[series.Account]
		if !ok {
			continue
		}
		width := 0
		if largest.IsPositive() && !total.IsZero() {
			width = int(total.Abs().Mul(decimal.NewFromInt(100)).Div(largest).Round(0).IntPart())
			if width < 2 {
				width = 2
			}
		}
		out = append(out, bar{
			Account:  series.Account,
			Amount:   core.FormatCurrency(total, locale),
			Width:    width,
			Negative: total.IsNegative(),
		})
	}
	return out
}

func trendRows(v services.View) []trendRow {
	var out []trendRow
	for _, series := range v.Series {
		tr, ok := v.Summary.Trends[series.Account]
		if !ok {
			continue
		}
		arrow := map[core.Direction]string{core.Rising: "▲", core.Falling: "▼", core.Flat: "■"}[tr.Direction]
		out = append(out, trendRow{
			Account:   series.Account,
			Direction: arrow,
			Change:    tr.MeanChange.StringFixed(2) + "%",
			Class:     "trend--" + string(tr.Direction),
		})
	}
	return out
}

// exportQuery reproduces the current selection as a query string, with the
// same omissions as the share link.
func exportQuery(v services.View) string {
	link, err := export.ShareURL("/", v.Selection, v.Table)
	if err != nil {
		return ""
	}
	u, err := url.Parse(link)
	if err != nil || u.RawQuery == "" {
		return ""
	}
	return "?" + u.RawQuery
}

func (t uiText) asMap() map[string]string {
	return map[string]string{
		"title": t.title, "accounts": t.accounts, "months": t.months, "apply": t.apply,
		"selectAll": t.selectAll, "noData": t.noData, "records": t.records, "yearly": t.yearly,
		"trends": t.trends, "composition": t.composition, "share": t.share, "download": t.download,
		"warnings": t.warnings, "chart": t.chart, "account": t.account, "total": t.total,
	}
}
