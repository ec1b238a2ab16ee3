// Package core provides the domain model of the dashboard: months, accounts,
// the loaded wide table, long-form records and the aggregate summary.
//
// This file contains numeric coercion of spreadsheet cells and locale-aware
// currency formatting.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Value is an optional amount. Invalid means "no value": an empty, textual or
// placeholder cell. It is distinct from a real zero balance.
type Value = decimal.NullDecimal

// Some wraps a defined amount.
func Some(d decimal.Decimal) Value {
	return Value{Decimal: d, Valid: true}
}

// None is the explicit "no value" marker.
func None() Value {
	return Value{}
}

// ParseAmount converts a spreadsheet cell rendered as text into a decimal.
//
// It accepts dot or comma decimal separators, thousands grouping with the
// other separator, currency symbols, and accounting-style negatives. A lone
// separator followed by exactly three digits is grouping ("1.234" and
// "1,234" are both 1234); "0,125" keeps its leading zero and stays decimal.
//
// Examples:
//
//	ParseAmount("1200")         -> 1200
//	ParseAmount("R$ 1.234,56")  -> 1234.56
//	ParseAmount("-1,234.56")    -> -1234.56
//	ParseAmount("(10,5)")       -> -10.5
//	ParseAmount("1.234")        -> 1234
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	// Currency symbols and spacing (including NBSP used by some locales)
	s = strings.NewReplacer("R$", "", "€", "", "$", "", "£", "", " ", "", "\u00a0", "").Replace(s)
	if strings.HasSuffix(s, "-") {
		neg = !neg
		s = strings.TrimSuffix(s, "-")
	}
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = strings.TrimPrefix(s, "-")
	} else {
		s = strings.TrimPrefix(s, "+")
	}
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	s = normalizeSeparators(s)
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// normalizeSeparators rewrites grouping and decimal separators so that only a
// single dot remains as decimal point.
func normalizeSeparators(s string) string {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")
	switch {
	case dots > 0 && commas > 0:
		// The right-most separator is the decimal one
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			return strings.Replace(s, ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case commas == 1:
		if isGrouping(s, ",") {
			return strings.Replace(s, ",", "", 1)
		}
		return strings.Replace(s, ",", ".", 1)
	case commas > 1:
		return strings.ReplaceAll(s, ",", "")
	case dots == 1:
		if isGrouping(s, ".") {
			return strings.Replace(s, ".", "", 1)
		}
	case dots > 1:
		return strings.ReplaceAll(s, ".", "")
	}
	return s
}

// isGrouping reports whether the single sep in s separates thousands: one to
// three leading digits, not a lone zero, then exactly three digits.
func isGrouping(s, sep string) bool {
	intPart, frac, _ := strings.Cut(s, sep)
	return len(frac) == 3 && len(intPart) >= 1 && len(intPart) <= 3 && intPart != "0"
}

var currencySymbols = map[string]string{
	"BRL": "R$",
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
}

// FormatCurrency renders an amount for display in the given locale, e.g.
// "R$ 1.200,00" for pt-BR. Display only: values are converted to float64.
func FormatCurrency(d decimal.Decimal, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	symbol := "R$"
	if unit, conf := currency.FromTag(tag); conf != language.No {
		if sym, ok := currencySymbols[unit.String()]; ok {
			symbol = sym
		} else {
			symbol = unit.String()
		}
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	f, _ := d.Round(2).Float64()
	return sign + symbol + " " + message.NewPrinter(tag).Sprintf("%.2f", f)
}
