package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findash/internal/core"
	"findash/internal/sheets"
)

func TestToLongForm_RecordCount(t *testing.T) {
	tbl := mustTable(t, "s",
		core.Account{Name: "A", Values: repeat(5)},
		core.Account{Name: "B", Values: months(1, nil, 3)},
		core.Account{Name: "C"},
	)

	tests := []struct {
		name string
		drop []string
		want int
	}{
		{"no drop", nil, 36},
		{"total column", []string{"total"}, 36},
		{"one month", []string{"total", "Dez"}, 33},
		{"unknown column", []string{"Notes"}, 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := ToLongForm(tbl, tt.drop...)
			assert.Len(t, recs, tt.want)
			for _, r := range recs {
				assert.True(t, r.Month.Valid(), "month %d", r.Month)
			}
		})
	}
}

func TestToLongForm_NoValueKept(t *testing.T) {
	tbl := mustTable(t, "s", core.Account{Name: "B", Values: months(1, nil, 3)})
	recs := ToLongForm(tbl)

	require.Len(t, recs, 12)
	assert.True(t, recs[0].Value.Valid)
	assert.False(t, recs[1].Value.Valid, "no value must stay no value, not zero")
}

func TestToLongForm_CalendarOrder(t *testing.T) {
	grid := [][]any{
		{"Conta Contábil", "Dez", "Jan", "Fev"},
		{"A", 12.0, 2.0, 3.0},
		{"B", 13.0, 4.0, 5.0},
	}
	tbl, err := sheets.ParseGrid("s", grid, sheets.DefaultGridOptions())
	require.NoError(t, err)

	var order []core.Month
	for _, r := range ToLongForm(tbl) {
		if !r.Value.Valid {
			continue
		}
		if len(order) == 0 || order[len(order)-1] != r.Month {
			order = append(order, r.Month)
		}
	}
	assert.Equal(t, []core.Month{core.January, core.February, core.December}, order)
}

func TestToLongForm_DoesNotMutateTable(t *testing.T) {
	tbl := exampleTable(t)
	recs := ToLongForm(tbl)
	recs[0].Value = core.None()

	a, _ := tbl.Account("Net Revenue")
	assert.True(t, a.Value(core.January).Valid)
}
