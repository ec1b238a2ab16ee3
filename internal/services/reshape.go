package services

import (
	"findash/internal/core"
)

// ToLongForm melts the wide table into one record per (account, month).
//
// Records are month-major in calendar order, with accounts in table order
// inside each month; source column order never leaks through. Any column
// named in drop is excluded: a month label removes that month, anything else
// (such as the running "total") has no records to remove. Months holding no
// value still produce a record carrying core.None.
func ToLongForm(table core.AccountTable, drop ...string) []core.LongRecord {
	dropped := map[core.Month]bool{}
	for _, d := range drop {
		if m, err := core.ParseMonth(d); err == nil {
			dropped[m] = true
		}
	}

	accounts := table.Accounts()
	out := make([]core.LongRecord, 0, len(accounts)*(12-len(dropped)))
	for _, m := range core.Months() {
		if dropped[m] {
			continue
		}
		for _, a := range accounts {
			out = append(out, core.LongRecord{Account: a.Name, Month: m, Value: a.Value(m)})
		}
	}
	return out
}
