package core

import (
	"fmt"
	"sort"
	"strings"
)

type (
	// Account is one row of the wide table: twelve month slots in calendar
	// order plus the yearly total declared by the source, when it has one.
	Account struct {
		Name   string
		Values [12]Value
		Total  Value
	}

	// AccountTable is the loaded wide table. It is built once per load and
	// never mutated; accessors hand out copies.
	AccountTable struct {
		sheet    string
		accounts []Account
		index    map[string]int
	}

	// LongRecord is one (account, month, value) triple of the long form.
	LongRecord struct {
		Account string `json:"account"`
		Month   Month  `json:"month"`
		Value   Value  `json:"value"`
	}

	// Selection is the set of accounts and months the user is looking at.
	Selection struct {
		Accounts map[string]struct{}
		Months   map[Month]struct{}
	}
)

// Value returns the amount for month m.
func (a Account) Value(m Month) Value {
	if !m.Valid() {
		return None()
	}
	return a.Values[m.Index()]
}

// Defined returns how many month slots hold a value.
func (a Account) Defined() int {
	n := 0
	for _, v := range a.Values {
		if v.Valid {
			n++
		}
	}
	return n
}

// NewAccountTable validates and copies the accounts into an immutable table.
// Account names must be non-empty and unique.
func NewAccountTable(sheet string, accounts []Account) (AccountTable, error) {
	t := AccountTable{
		sheet:    sheet,
		accounts: make([]Account, 0, len(accounts)),
		index:    make(map[string]int, len(accounts)),
	}
	for _, a := range accounts {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return AccountTable{}, &SchemaError{Sheet: sheet, Reason: "empty account name"}
		}
		if _, dup := t.index[name]; dup {
			return AccountTable{}, &SchemaError{Sheet: sheet, Reason: fmt.Sprintf("%v: %q", ErrDuplicateAccount, name)}
		}
		a.Name = name
		t.index[name] = len(t.accounts)
		t.accounts = append(t.accounts, a)
	}
	return t, nil
}

// Sheet returns the name of the sheet the table was loaded from.
func (t AccountTable) Sheet() string { return t.sheet }

// Len returns the number of accounts.
func (t AccountTable) Len() int { return len(t.accounts) }

// Accounts returns a copy of the accounts in source row order.
func (t AccountTable) Accounts() []Account {
	out := make([]Account, len(t.accounts))
	copy(out, t.accounts)
	return out
}

// AccountNames returns account names in source row order.
func (t AccountTable) AccountNames() []string {
	out := make([]string, len(t.accounts))
	for i, a := range t.accounts {
		out[i] = a.Name
	}
	return out
}

// Account looks up an account by exact name.
func (t AccountTable) Account(name string) (Account, bool) {
	i, ok := t.index[name]
	if !ok {
		return Account{}, false
	}
	return t.accounts[i], true
}

// NewSelection builds a selection from explicit account and month lists.
func NewSelection(accounts []string, months []Month) Selection {
	s := Selection{
		Accounts: make(map[string]struct{}, len(accounts)),
		Months:   make(map[Month]struct{}, len(months)),
	}
	for _, a := range accounts {
		s.Accounts[a] = struct{}{}
	}
	for _, m := range months {
		if m.Valid() {
			s.Months[m] = struct{}{}
		}
	}
	return s
}

// SelectAll selects every account of the table and every month.
func SelectAll(t AccountTable) Selection {
	return NewSelection(t.AccountNames(), Months())
}

// IsEmpty reports whether nothing can match: zero accounts or zero months.
func (s Selection) IsEmpty() bool {
	return len(s.Accounts) == 0 || len(s.Months) == 0
}

func (s Selection) HasAccount(name string) bool {
	_, ok := s.Accounts[name]
	return ok
}

func (s Selection) HasMonth(m Month) bool {
	_, ok := s.Months[m]
	return ok
}

// AccountList returns the selected accounts sorted by name.
func (s Selection) AccountList() []string {
	out := make([]string, 0, len(s.Accounts))
	for a := range s.Accounts {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// MonthList returns the selected months in calendar order.
func (s Selection) MonthList() []Month {
	out := make([]Month, 0, len(s.Months))
	for _, m := range Months() {
		if s.HasMonth(m) {
			out = append(out, m)
		}
	}
	return out
}
