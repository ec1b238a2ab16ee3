// Package xlsx loads account tables from Excel workbooks on disk.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"findash/internal/core"
	ports "findash/internal/sheets"
)

// Reader reads one workbook file. The file is reopened on every ReadTable so
// edits on disk are picked up by the next load.
type Reader struct {
	path string
	opts ports.GridOptions
}

var _ ports.TableReader = (*Reader)(nil)

func New(path string, opts ports.GridOptions) *Reader {
	return &Reader{path: path, opts: opts}
}

// Path returns the workbook location.
func (r *Reader) Path() string { return r.path }

// ReadTable implements ports.TableReader.
func (r *Reader) ReadTable(ctx context.Context, sheet string) (core.AccountTable, error) {
	if err := ctx.Err(); err != nil {
		return core.AccountTable{}, err
	}
	if _, err := os.Stat(r.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.AccountTable{}, &core.SourceNotFoundError{Source: r.path, Sheet: sheet, Err: err}
		}
		return core.AccountTable{}, fmt.Errorf("stat workbook %s: %w", r.path, err)
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return core.AccountTable{}, fmt.Errorf("open workbook %s: %w", r.path, err)
	}
	defer f.Close()

	grid, err := readGrid(f, r.path, sheet)
	if err != nil {
		return core.AccountTable{}, err
	}
	slog.DebugContext(ctx, "Workbook sheet read", "path", r.path, "sheet", sheet, "rows", len(grid))
	return ports.ParseGrid(sheet, grid, r.opts)
}

func readGrid(f *excelize.File, source, sheet string) ([][]any, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx == -1 {
		return nil, &core.SourceNotFoundError{
			Source: source,
			Sheet:  sheet,
			Err:    fmt.Errorf("sheet not in workbook, have %v", f.GetSheetList()),
		}
	}
	// Raw values keep numbers unformatted ("1234.5" rather than "1.234,50")
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read rows of %s!%s: %w", source, sheet, err)
	}
	grid := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = rawCell(c)
		}
		grid[i] = cells
	}
	return grid, nil
}

// rawCell turns a raw numeric value into a decimal so it is not read as
// localized text ("1.234" is one point two three four here, not 1234).
func rawCell(c string) any {
	if d, err := decimal.NewFromString(c); err == nil {
		return d
	}
	return c
}
