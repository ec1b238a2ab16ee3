package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"findash/internal/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// months builds the twelve slots from literal amounts; nil entries are "no value".
func months(vals ...any) [12]core.Value {
	var out [12]core.Value
	for i, v := range vals {
		switch x := v.(type) {
		case nil:
			out[i] = core.None()
		case int:
			out[i] = core.Some(decimal.NewFromInt(int64(x)))
		case string:
			out[i] = core.Some(dec(x))
		}
	}
	return out
}

func repeat(v int) [12]core.Value {
	vals := make([]any, 12)
	for i := range vals {
		vals[i] = v
	}
	return months(vals...)
}

func mustTable(t *testing.T, sheet string, accounts ...core.Account) core.AccountTable {
	t.Helper()
	tbl, err := core.NewAccountTable(sheet, accounts)
	require.NoError(t, err)
	return tbl
}

func exampleTable(t *testing.T) core.AccountTable {
	return mustTable(t, "Dados",
		core.Account{Name: "Net Revenue", Values: repeat(100), Total: core.Some(dec("1200"))},
		core.Account{Name: "Expense A", Values: repeat(-10), Total: core.Some(dec("-120"))},
	)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	require.Truef(t, got.Equal(dec(want)), "want %s, got %s %v", want, got, msgAndArgs)
}
