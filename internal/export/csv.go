package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"findash/internal/core"
)

// CSVFilename is the download name of the filtered records.
const CSVFilename = "dados_filtrados.csv"

// WriteCSV writes records as account, month, value rows. Month labels follow
// locale; values use a dot decimal separator and are empty when undefined.
func WriteCSV(w io.Writer, records []core.LongRecord, locale string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader(locale)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		value := ""
		if r.Value.Valid {
			value = r.Value.Decimal.String()
		}
		if err := cw.Write([]string{r.Account, r.Month.Label(locale), value}); err != nil {
			return fmt.Errorf("write record %s/%s: %w", r.Account, r.Month, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvHeader(locale string) []string {
	if labelsFor(locale) == labelsPT {
		return []string{"Conta Contábil", "Mês", "Valor"}
	}
	return []string{"account", "month", "value"}
}
