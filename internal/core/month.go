package core

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Month is a calendar month, January = 1. Ordering of months is always the
// calendar order, never the order of their labels.
type Month int

const (
	January Month = iota + 1
	February
	March
	April
	May
	June
	July
	August
	September
	October
	November
	December
)

var (
	englishLabels    = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	portugueseLabels = [12]string{"Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago", "Set", "Out", "Nov", "Dez"}
)

// monthAliases maps folded, accent-free labels to months. Both English and
// Portuguese spellings occur in the source workbooks.
var monthAliases = map[string]Month{
	"jan": January, "january": January, "janeiro": January,
	"feb": February, "february": February, "fev": February, "fevereiro": February,
	"mar": March, "march": March, "marco": March,
	"apr": April, "april": April, "abr": April, "abril": April,
	"may": May, "mai": May, "maio": May,
	"jun": June, "june": June, "junho": June,
	"jul": July, "july": July, "julho": July,
	"aug": August, "august": August, "ago": August, "agosto": August,
	"sep": September, "sept": September, "september": September, "set": September, "setembro": September,
	"oct": October, "october": October, "out": October, "outubro": October,
	"nov": November, "november": November, "novembro": November,
	"dec": December, "december": December, "dez": December, "dezembro": December,
}

// Months returns the twelve months in calendar order.
func Months() []Month {
	out := make([]Month, 12)
	for i := range out {
		out[i] = Month(i + 1)
	}
	return out
}

// Valid reports whether m is between January and December.
func (m Month) Valid() bool {
	return m >= January && m <= December
}

// Index returns the zero-based slot of the month.
func (m Month) Index() int {
	return int(m) - 1
}

// String returns the English three-letter abbreviation.
func (m Month) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Month(%d)", int(m))
	}
	return englishLabels[m.Index()]
}

// Label returns the abbreviation for the given locale (BCP 47). Portuguese
// locales get Portuguese labels, anything else English.
func (m Month) Label(locale string) string {
	if !m.Valid() {
		return m.String()
	}
	if IsPortuguese(locale) {
		return portugueseLabels[m.Index()]
	}
	return englishLabels[m.Index()]
}

// MarshalText encodes the month as its English abbreviation so months can be
// used as JSON object keys.
func (m Month) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, ErrInvalidMonth
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts any label ParseMonth understands.
func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMonth recognizes a month header label. Matching ignores case, accents,
// surrounding whitespace, a trailing dot and trailing digits, so "Ago2",
// "out", "Dez." and "Março" are all accepted.
func ParseMonth(label string) (Month, error) {
	key := normalizeLabel(label)
	key = strings.TrimRightFunc(key, func(r rune) bool {
		return unicode.IsDigit(r) || r == '.' || unicode.IsSpace(r)
	})
	if m, ok := monthAliases[key]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMonth, label)
}

// NormalizeHeader folds a header cell for comparisons: trimmed, lower-cased,
// accents removed. "Conta Contábil" and "conta contabil" compare equal.
func NormalizeHeader(s string) string {
	return normalizeLabel(s)
}

func normalizeLabel(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return cases.Fold().String(out)
}

// IsPortuguese reports whether locale is a Portuguese language tag.
func IsPortuguese(locale string) bool {
	tag, err := language.Parse(locale)
	if err != nil {
		return false
	}
	base, _ := tag.Base()
	return base.String() == "pt"
}
