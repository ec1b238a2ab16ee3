package core

import (
	"encoding/json"
	"testing"
)

func TestParseMonth(t *testing.T) {
	cases := []struct {
		in   string
		want Month
		ok   bool
	}{
		{"Jan", January, true},
		{"Fev", February, true},
		{"feb", February, true},
		{"Março", March, true},
		{"Abr", April, true},
		{"Mai", May, true},
		{"Ago2", August, true},
		{"Aug", August, true},
		{"Set", September, true},
		{"out", October, true},
		{"OCT", October, true},
		{" Dez. ", December, true},
		{"total", 0, false},
		{"Conta Contábil", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMonth(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("%q expected error, got %v", tc.in, got)
		}
	}
}

func TestMonthsCalendarOrder(t *testing.T) {
	ms := Months()
	if len(ms) != 12 {
		t.Fatalf("expected 12 months, got %d", len(ms))
	}
	for i, m := range ms {
		if int(m) != i+1 {
			t.Fatalf("month %d out of order: %v", i, m)
		}
	}
}

func TestMonthLabel(t *testing.T) {
	if got := August.Label("pt-BR"); got != "Ago" {
		t.Fatalf("pt-BR label: %q", got)
	}
	if got := August.Label("en"); got != "Aug" {
		t.Fatalf("en label: %q", got)
	}
	if got := October.Label("not a locale"); got != "Oct" {
		t.Fatalf("fallback label: %q", got)
	}
}

func TestMonthJSONKeys(t *testing.T) {
	b, err := json.Marshal(map[Month]int{December: 2, January: 1})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"Dec":2,"Jan":1}` {
		t.Fatalf("unexpected json: %s", b)
	}
	var back map[Month]int
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back[December] != 2 || back[January] != 1 {
		t.Fatalf("unexpected round trip: %v", back)
	}
}

func TestNormalizeHeader(t *testing.T) {
	if NormalizeHeader(" Conta Contábil ") != NormalizeHeader("conta contabil") {
		t.Fatalf("headers should compare equal after normalization")
	}
}
