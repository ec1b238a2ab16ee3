// Package report prints a dashboard view as a terminal summary.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"findash/internal/core"
	"findash/internal/export"
	"findash/internal/services"
	"findash/internal/storage"
)

const width = 60

var (
	header   = color.New(color.FgGreen, color.Bold)
	positive = color.New(color.FgGreen)
	negative = color.New(color.FgRed)
	warning  = color.New(color.FgYellow, color.Bold)
	muted    = color.New(color.Faint)
)

// Printer writes reports to an output stream.
type Printer struct {
	out    io.Writer
	locale string
}

func NewPrinter(out io.Writer, locale string) *Printer {
	return &Printer{out: out, locale: locale}
}

// Print writes the headline cards, per-account totals and trends of v.
func (p *Printer) Print(v services.View) {
	p.title(fmt.Sprintf("%s · %s", v.Sheet, monthRange(v.Selection, p.locale)))

	for _, w := range v.Summary.Warnings {
		warning.Fprintf(p.out, "  ⚠ %s\n", w.Message)
	}

	for _, c := range export.Cards(v.Summary, p.locale) {
		fmt.Fprintf(p.out, "  %-22s ", c.Label)
		p.amount(c.Negative).Fprintf(p.out, "%20s\n", c.Value)
	}
	if !v.Summary.HasData() {
		return
	}

	fmt.Fprintln(p.out)
	header.Fprintf(p.out, "  %-32s %16s  %s\n", "Account", "Total", "Trend")
	for _, s := range v.Series {
		total := v.Summary.YearlyTotals[s.Account]
		fmt.Fprintf(p.out, "  %-32s ", truncate(s.Account, 32))
		p.amount(total.IsNegative()).Fprintf(p.out, "%16s", core.FormatCurrency(total, p.locale))
		if t, ok := v.Summary.Trends[s.Account]; ok {
			fmt.Fprintf(p.out, "  %s %s%%\n", arrow(t.Direction), t.MeanChange.StringFixed(2))
		} else {
			muted.Fprintln(p.out, "  -")
		}
	}
}

// PrintSnapshots lists stored snapshots of sheet, newest first.
func (p *Printer) PrintSnapshots(sheet string, snaps []storage.Snapshot) {
	p.title(fmt.Sprintf("%s · snapshots", sheet))
	if len(snaps) == 0 {
		muted.Fprintln(p.out, "  none")
		return
	}
	header.Fprintf(p.out, "  %-36s %-20s %8s  %s\n", "ID", "Taken", "Accounts", "Source")
	for _, s := range snaps {
		fmt.Fprintf(p.out, "  %-36s %-20s %8d  %s\n",
			s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04:05"), s.AccountCount, s.Source)
	}
}

func (p *Printer) title(text string) {
	line := strings.Repeat("=", width)
	header.Fprintf(p.out, "%s\n%s\n%s\n", line, text, line)
}

func (p *Printer) amount(neg bool) *color.Color {
	if neg {
		return negative
	}
	return positive
}

func arrow(d core.Direction) string {
	switch d {
	case core.Rising:
		return "▲"
	case core.Falling:
		return "▼"
	default:
		return "■"
	}
}

func monthRange(sel core.Selection, locale string) string {
	months := sel.MonthList()
	switch len(months) {
	case 0:
		return "-"
	case 1:
		return months[0].Label(locale)
	case 12:
		return months[0].Label(locale) + "–" + months[11].Label(locale)
	}
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Label(locale)
	}
	return strings.Join(labels, ",")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
