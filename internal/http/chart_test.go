package http

import (
	"testing"

	"github.com/shopspring/decimal"

	"findash/internal/core"
	"findash/internal/services"
)

func point(m core.Month, v any) services.ChartPoint {
	p := services.ChartPoint{Month: m, Label: m.String(), Value: core.None()}
	if n, ok := v.(int); ok {
		p.Value = core.Some(decimal.NewFromInt(int64(n)))
	}
	return p
}

func TestBuildLineChart(t *testing.T) {
	c := buildLineChart([]services.ChartSeries{
		{Account: "A", Points: []services.ChartPoint{point(core.January, 100), point(core.February, nil), point(core.March, 0)}},
		{Account: "B", Points: []services.ChartPoint{point(core.January, -100), point(core.February, -50), point(core.March, 0)}},
	})

	if len(c.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(c.Lines))
	}
	// Range is [-100, 100]: top at padding, bottom at height-padding.
	if got := c.Lines[0].Segments; len(got) != 2 || got[0] != "24,24" || got[1] != "616,120" {
		t.Errorf("A segments = %v", got)
	}
	if got := c.Lines[1].Segments; len(got) != 1 || got[0] != "24,216 320,168 616,120" {
		t.Errorf("B segments = %v", got)
	}
	if c.ZeroY != 120 {
		t.Errorf("ZeroY = %d, want 120", c.ZeroY)
	}
	if len(c.XLabels) != 3 || c.XLabels[1].Label != "Feb" {
		t.Errorf("XLabels = %v", c.XLabels)
	}
}

func TestBuildLineChart_NoValues(t *testing.T) {
	c := buildLineChart([]services.ChartSeries{{Account: "A", Points: []services.ChartPoint{point(core.January, nil)}}})
	if len(c.Lines) != 0 {
		t.Errorf("expected no lines, got %v", c.Lines)
	}
}

func TestBuildLineChart_FlatSeries(t *testing.T) {
	c := buildLineChart([]services.ChartSeries{{Account: "A", Points: []services.ChartPoint{point(core.January, 5), point(core.February, 5)}}})
	if got := c.Lines[0].Segments[0]; got != "24,120 616,120" {
		t.Errorf("flat series = %q", got)
	}
	if c.ZeroY != -1 {
		t.Errorf("zero is outside [4, 6], ZeroY = %d", c.ZeroY)
	}
}
