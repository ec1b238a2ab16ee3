package http

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"findash/internal/services"
)

// Dimensions of the server-rendered line chart, in SVG user units.
const (
	chartWidth   = 640
	chartHeight  = 240
	chartPadding = 24
)

var chartPalette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

type chartLine struct {
	Account string
	Color   string
	// Segments are polyline point lists; a month without value breaks the line.
	Segments []string
}

type chartAxisLabel struct {
	X     int
	Label string
}

type lineChart struct {
	Width, Height int
	Lines         []chartLine
	XLabels       []chartAxisLabel
	// ZeroY is the y coordinate of the zero line, -1 when zero is off-chart.
	ZeroY int
}

// buildLineChart lays out one polyline per series over a shared y scale.
// Points are spaced evenly by position in the series.
func buildLineChart(series []services.ChartSeries) lineChart {
	c := lineChart{Width: chartWidth, Height: chartHeight, ZeroY: -1}
	if len(series) == 0 {
		return c
	}

	var lo, hi decimal.Decimal
	seen := false
	n := 0
	for _, s := range series {
		if len(s.Points) > n {
			n = len(s.Points)
		}
		for _, p := range s.Points {
			if !p.Value.Valid {
				continue
			}
			if !seen {
				lo, hi, seen = p.Value.Decimal, p.Value.Decimal, true
				continue
			}
			lo = decimal.Min(lo, p.Value.Decimal)
			hi = decimal.Max(hi, p.Value.Decimal)
		}
	}
	if !seen || n == 0 {
		return c
	}
	if lo.Equal(hi) {
		lo, hi = lo.Sub(decimal.NewFromInt(1)), hi.Add(decimal.NewFromInt(1))
	}

	xOf := func(i int) int {
		if n == 1 {
			return chartWidth / 2
		}
		return chartPadding + i*(chartWidth-2*chartPadding)/(n-1)
	}
	span := hi.Sub(lo)
	plotHeight := decimal.NewFromInt(chartHeight - 2*chartPadding)
	yOf := func(v decimal.Decimal) int {
		frac := v.Sub(lo).Mul(plotHeight).Div(span)
		return chartHeight - chartPadding - int(frac.Round(0).IntPart())
	}

	if !lo.IsPositive() && !hi.IsNegative() {
		c.ZeroY = yOf(decimal.Zero)
	}
	for i, p := range series[0].Points {
		c.XLabels = append(c.XLabels, chartAxisLabel{X: xOf(i), Label: p.Label})
	}

	for i, s := range series {
		line := chartLine{Account: s.Account, Color: chartPalette[i%len(chartPalette)]}
		var pts []string
		flush := func() {
			if len(pts) > 0 {
				line.Segments = append(line.Segments, strings.Join(pts, " "))
				pts = nil
			}
		}
		for j, p := range s.Points {
			if !p.Value.Valid {
				flush()
				continue
			}
			pts = append(pts, strconv.Itoa(xOf(j))+","+strconv.Itoa(yOf(p.Value.Decimal)))
		}
		flush()
		c.Lines = append(c.Lines, line)
	}
	return c
}
