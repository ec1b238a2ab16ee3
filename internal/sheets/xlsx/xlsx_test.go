package xlsx

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"findash/internal/core"
	ports "findash/internal/sheets"
)

const sheetName = "Dados para AI- Light"

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	_, err := f.NewSheet(sheetName)
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheetName, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "DADOS to AI Testing.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReader_ReadTable(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Conta Contábil", "Jan", "Fev", "Mar", "Abr", "Mai", "Jun", "Jul", "Ago2", "Set", "out", "Nov", "Dez", "total"},
		{"Receita Líquida", 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 100, 1200},
		{"Despesa A", -10.5, 1, -10, -10, -10, -10, -10, -10, -10, -10, -10, -10, -120},
	})

	tbl, err := New(path, ports.DefaultGridOptions()).ReadTable(context.Background(), sheetName)
	require.NoError(t, err)
	assert.Equal(t, sheetName, tbl.Sheet())
	assert.Equal(t, []string{"Receita Líquida", "Despesa A"}, tbl.AccountNames())

	a, _ := tbl.Account("Despesa A")
	assert.Equal(t, "-10.5", a.Value(core.January).Decimal.String())
	assert.False(t, a.Value(core.February).Valid, "sentinel 1 is no value")
	assert.Equal(t, "-10", a.Value(core.December).Decimal.String())
	assert.Equal(t, "-120", a.Total.Decimal.String())
}

func TestReader_RawNumbersNotRegrouped(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"Conta Contábil", "Jan", "Fev", "Mar"},
		{"Receita Líquida", 1.234, "1.234", 2500.75},
	})

	tbl, err := New(path, ports.DefaultGridOptions()).ReadTable(context.Background(), sheetName)
	require.NoError(t, err)
	a, _ := tbl.Account("Receita Líquida")
	assert.Equal(t, "1.234", a.Value(core.January).Decimal.String())
	assert.Equal(t, "1.234", a.Value(core.February).Decimal.String(), "raw text in machine form stays a decimal")
	assert.Equal(t, "2500.75", a.Value(core.March).Decimal.String())
}

func TestReader_MissingFile(t *testing.T) {
	r := New(filepath.Join(t.TempDir(), "nope.xlsx"), ports.DefaultGridOptions())
	_, err := r.ReadTable(context.Background(), sheetName)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrSourceNotFound))
}

func TestReader_MissingSheet(t *testing.T) {
	path := writeWorkbook(t, [][]any{{"Conta Contábil", "Jan"}, {"A", 5}})
	_, err := New(path, ports.DefaultGridOptions()).ReadTable(context.Background(), "Other")
	require.Error(t, err)
	var notFound *core.SourceNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "Other", notFound.Sheet)
}

func TestReader_SchemaError(t *testing.T) {
	path := writeWorkbook(t, [][]any{{"Account", "Notes"}, {"A", "x"}})
	_, err := New(path, ports.DefaultGridOptions()).ReadTable(context.Background(), sheetName)
	assert.True(t, errors.Is(err, core.ErrSchema), "got %v", err)
}
