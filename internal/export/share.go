package export

import (
	"fmt"
	"net/url"
	"sort"

	"findash/internal/core"
)

// ShareURL builds a link reproducing sel on the dashboard at base. Axes that
// select everything are left out so the link stays short; an axis with
// nothing selected is kept as an empty parameter.
func ShareURL(base string, sel core.Selection, table core.AccountTable) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse share base URL: %w", err)
	}

	q := u.Query()
	q.Del("account")
	q.Del("month")

	if !selectsAllAccounts(sel, table) {
		accounts := sel.AccountList()
		if len(accounts) == 0 {
			q.Set("account", "")
		}
		for _, a := range accounts {
			q.Add("account", a)
		}
	}
	if len(sel.Months) != 12 {
		months := sel.MonthList()
		if len(months) == 0 {
			q.Set("month", "")
		}
		for _, m := range months {
			q.Add("month", m.String())
		}
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

func selectsAllAccounts(sel core.Selection, table core.AccountTable) bool {
	if len(sel.Accounts) != table.Len() {
		return false
	}
	for _, name := range table.AccountNames() {
		if !sel.HasAccount(name) {
			return false
		}
	}
	return true
}

func sortedAccounts(s core.Summary) []string {
	out := make([]string, 0, len(s.YearlyTotals))
	for a := range s.YearlyTotals {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}
