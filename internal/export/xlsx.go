package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"findash/internal/core"
)

// XLSXFilename is the download name of the workbook export.
const XLSXFilename = "dados_filtrados.xlsx"

const (
	recordsSheet = "Dados"
	summarySheet = "Resumo"
	colorHeader  = "#1F4E78"
)

// WriteXLSX writes a workbook with the filtered records on one sheet and the
// headline cards plus per-account totals and trends on another.
func WriteXLSX(w io.Writer, records []core.LongRecord, s core.Summary, locale string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{colorHeader}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("number style: %w", err)
	}

	if err := writeRecords(f, records, locale, headerStyle, numberStyle); err != nil {
		return err
	}
	if err := writeSummary(f, s, locale, headerStyle, numberStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRecords(f *excelize.File, records []core.LongRecord, locale string, headerStyle, numberStyle int) error {
	header := csvHeader(locale)
	if err := f.SetSheetRow(recordsSheet, "A1", &header); err != nil {
		return fmt.Errorf("records header: %w", err)
	}
	if err := f.SetCellStyle(recordsSheet, "A1", "C1", headerStyle); err != nil {
		return err
	}

	for i, r := range records {
		row := i + 2
		if err := f.SetCellValue(recordsSheet, fmt.Sprintf("A%d", row), r.Account); err != nil {
			return err
		}
		if err := f.SetCellValue(recordsSheet, fmt.Sprintf("B%d", row), r.Month.Label(locale)); err != nil {
			return err
		}
		if r.Value.Valid {
			v, _ := r.Value.Decimal.Float64()
			if err := f.SetCellFloat(recordsSheet, fmt.Sprintf("C%d", row), v, 2, 64); err != nil {
				return err
			}
		}
	}
	if len(records) > 0 {
		if err := f.SetCellStyle(recordsSheet, "C2", fmt.Sprintf("C%d", len(records)+1), numberStyle); err != nil {
			return err
		}
	}
	return f.SetColWidth(recordsSheet, "A", "A", 36)
}

func writeSummary(f *excelize.File, s core.Summary, locale string, headerStyle, numberStyle int) error {
	row := 1
	for _, c := range Cards(s, locale) {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &[]any{c.Label, c.Value}); err != nil {
			return err
		}
		row++
	}

	row++
	header := []any{"Conta", "Total", "Tendência", "Variação média %"}
	if labelsFor(locale) == labelsEN {
		header = []any{"Account", "Total", "Trend", "Mean change %"}
	}
	if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), headerStyle); err != nil {
		return err
	}
	first := row + 1

	for _, account := range sortedAccounts(s) {
		row++
		total, _ := s.YearlyTotals[account].Float64()
		values := []any{account, total, "", ""}
		if t, ok := s.Trends[account]; ok {
			change, _ := t.MeanChange.Float64()
			values[2], values[3] = string(t.Direction), change
		}
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}
	}
	if row >= first {
		if err := f.SetCellStyle(summarySheet, fmt.Sprintf("B%d", first), fmt.Sprintf("B%d", row), numberStyle); err != nil {
			return err
		}
	}
	return f.SetColWidth(summarySheet, "A", "A", 36)
}
