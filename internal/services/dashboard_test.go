package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findash/internal/core"
	"findash/internal/sheets/memory"
)

func newDashboard(t *testing.T) *DashboardService {
	t.Helper()
	return newDashboardOver(memory.New(exampleTable(t)))
}

func newDashboardOver(store *memory.Store) *DashboardService {
	return NewDashboardService(NewTableProvider(store, 1, time.Minute), DashboardConfig{
		Sheet:   "Dados",
		Drop:    []string{"total"},
		Locale:  "en-US",
		Summary: exampleOptions(),
	})
}

func TestDashboardService_DefaultView(t *testing.T) {
	d := newDashboard(t)

	v, err := d.View(context.Background(), SelectEverything())
	require.NoError(t, err)
	assert.Equal(t, "Dados", v.Sheet)
	assert.Equal(t, []string{"Net Revenue", "Expense A"}, v.Accounts)
	assert.Len(t, v.Records, 24)
	assert.Len(t, v.Series, 2)
	assertDecimal(t, "1080", v.Summary.OverallResult.Decimal)
	assert.Empty(t, v.Summary.Warnings)
}

func TestDashboardService_EmptySelection(t *testing.T) {
	d := newDashboard(t)

	v, err := d.View(context.Background(), Query{Accounts: []string{}, AllMonths: true})
	require.NoError(t, err)
	assert.Empty(t, v.Records)
	assert.Empty(t, v.Summary.Composition)
	assert.True(t, v.Summary.HasWarning(core.WarnEmptySelection))
}

func TestDashboardService_UnknownAccount(t *testing.T) {
	d := newDashboard(t)

	v, err := d.View(context.Background(), Query{Accounts: []string{"Expense A", "Ghost"}, AllMonths: true})
	require.NoError(t, err)
	assert.True(t, v.Summary.HasWarning(core.WarnAccountMissing))

	var notFound *core.AccountNotFoundError
	require.True(t, errors.As(v.Summary.Err(), &notFound))
	assertDecimal(t, "-120", v.Summary.TotalExpense)
}

func TestDashboardService_SourceMissing(t *testing.T) {
	d := newDashboardOver(memory.New())

	_, err := d.View(context.Background(), SelectEverything())
	assert.True(t, errors.Is(err, core.ErrSourceNotFound))
}

func TestDashboardService_UsesDeclaredTotalsForFullYear(t *testing.T) {
	tbl := mustTable(t, "Dados",
		core.Account{Name: "Net Revenue", Values: months(100, 100), Total: core.Some(dec("1101"))},
		core.Account{Name: "Expense A", Values: months(-10, -10), Total: core.Some(dec("-120"))},
	)
	d := newDashboardOver(memory.New(tbl))

	v, err := d.View(context.Background(), SelectEverything())
	require.NoError(t, err)
	assertDecimal(t, "1101", v.Summary.NetRevenue.Decimal)
	assertDecimal(t, "981", v.Summary.OverallResult.Decimal)
	assert.Equal(t, tbl.AccountNames(), v.Table.AccountNames())

	v, err = d.View(context.Background(), Query{AllAccounts: true, Months: []core.Month{core.January}})
	require.NoError(t, err)
	assertDecimal(t, "100", v.Summary.NetRevenue.Decimal)
	assertDecimal(t, "90", v.Summary.OverallResult.Decimal)
}
