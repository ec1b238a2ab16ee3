package services

import (
	"findash/internal/core"
)

// Filter returns the records whose account and month are both selected,
// preserving their relative order. The input is never modified; an empty
// selection yields an empty, non-nil slice.
func Filter(records []core.LongRecord, sel core.Selection) []core.LongRecord {
	out := make([]core.LongRecord, 0, len(records))
	if sel.IsEmpty() {
		return out
	}
	for _, r := range records {
		if sel.HasAccount(r.Account) && sel.HasMonth(r.Month) {
			out = append(out, r)
		}
	}
	return out
}
