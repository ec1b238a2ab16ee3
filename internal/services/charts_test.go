package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findash/internal/core"
)

func TestBuildSeries(t *testing.T) {
	tbl := exampleTable(t)
	recs := Filter(ToLongForm(tbl), core.NewSelection(tbl.AccountNames(), []core.Month{core.December, core.January}))

	series := BuildSeries(recs, "pt-BR")
	require.Len(t, series, 2)
	assert.Equal(t, "Net Revenue", series[0].Account)
	require.Len(t, series[0].Points, 2)
	assert.Equal(t, core.January, series[0].Points[0].Month)
	assert.Equal(t, "Jan", series[0].Points[0].Label)
	assert.Equal(t, "Dez", series[0].Points[1].Label)
}

func TestPieSlices(t *testing.T) {
	tbl := mustTable(t, "s",
		core.Account{Name: "Net Revenue", Values: months(100)},
		core.Account{Name: "Expense A", Values: months(-300)},
		core.Account{Name: "Expense B", Values: months(nil)},
	)
	s := Summarize(ToLongForm(tbl), core.SelectAll(tbl), exampleOptions())

	slices := PieSlices(s, core.January)
	require.Len(t, slices, 3)
	assert.Equal(t, "Expense A", slices[0].Account)
	assertDecimal(t, "75", slices[0].Share.Decimal)
	assert.Equal(t, "Net Revenue", slices[1].Account)
	assert.Equal(t, "Expense B", slices[2].Account)
	assert.False(t, slices[2].Share.Valid)

	assert.Empty(t, PieSlices(core.Summary{}, core.January))
}
