package http

import (
	"errors"
	"net/url"
	"testing"

	"findash/internal/core"
)

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		allAccounts bool
		allMonths   bool
		accounts    []string
		months      []core.Month
	}{
		{name: "no params selects everything", raw: "", allAccounts: true, allMonths: true},
		{name: "explicit lists", raw: "account=Receita+L%C3%ADquida&account=Despesas&month=Jan&month=fev",
			accounts: []string{"Receita Líquida", "Despesas"}, months: []core.Month{core.January, core.February}},
		{name: "numeric months", raw: "month=3&month=12", allAccounts: true, months: []core.Month{core.March, core.December}},
		{name: "empty account param selects none", raw: "account=", allMonths: true},
		{name: "blank values dropped", raw: "account=+&account=A&month=", accounts: []string{"A"}},
		{name: "control characters stripped", raw: "account=A%00B", allMonths: true, accounts: []string{"AB"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.raw)
			if err != nil {
				t.Fatalf("ParseQuery: %v", err)
			}
			q, err := ParseSelection(values)
			if err != nil {
				t.Fatalf("ParseSelection() error = %v", err)
			}
			if q.AllAccounts != tt.allAccounts || q.AllMonths != tt.allMonths {
				t.Errorf("all flags = (%v, %v), want (%v, %v)", q.AllAccounts, q.AllMonths, tt.allAccounts, tt.allMonths)
			}
			if !equalStrings(q.Accounts, tt.accounts) {
				t.Errorf("accounts = %v, want %v", q.Accounts, tt.accounts)
			}
			if len(q.Months) != len(tt.months) {
				t.Fatalf("months = %v, want %v", q.Months, tt.months)
			}
			for i := range q.Months {
				if q.Months[i] != tt.months[i] {
					t.Errorf("months[%d] = %v, want %v", i, q.Months[i], tt.months[i])
				}
			}
		})
	}
}

func TestParseSelection_InvalidMonth(t *testing.T) {
	for _, raw := range []string{"month=13", "month=Foo", "month=0"} {
		values, _ := url.ParseQuery(raw)
		if _, err := ParseSelection(values); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("%s: error = %v, want ErrInvalidQuery", raw, err)
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
