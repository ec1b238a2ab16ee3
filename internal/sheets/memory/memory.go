package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"findash/internal/core"
	ports "findash/internal/sheets"
)

// Store keeps account tables in memory, keyed by sheet name. It backs local
// development and tests.
type Store struct {
	mu        sync.Mutex
	base      string
	opts      ports.GridOptions
	tables    map[string]core.AccountTable
	snapshots []string
}

var (
	_ ports.TableReader    = (*Store)(nil)
	_ ports.SnapshotWriter = (*Store)(nil)
)

func New(tables ...core.AccountTable) *Store {
	s := &Store{opts: ports.DefaultGridOptions(), tables: map[string]core.AccountTable{}}
	for _, t := range tables {
		s.tables[t.Sheet()] = t
	}
	return s
}

// NewFromFiles serves sheets from "<base>/<sheet>.csv" seed files, read on
// first access.
func NewFromFiles(base string, opts ports.GridOptions) *Store {
	s := New()
	s.base = base
	s.opts = opts
	return s
}

// Put replaces the table stored under its sheet name.
func (s *Store) Put(t core.AccountTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.Sheet()] = t
}

func (s *Store) ReadTable(ctx context.Context, sheet string) (core.AccountTable, error) {
	if err := ctx.Err(); err != nil {
		return core.AccountTable{}, err
	}
	s.mu.Lock()
	t, ok := s.tables[sheet]
	s.mu.Unlock()
	if ok {
		return t, nil
	}
	if s.base == "" {
		return core.AccountTable{}, &core.SourceNotFoundError{Source: "memory", Sheet: sheet}
	}

	t, err := s.readSeed(sheet)
	if err != nil {
		return core.AccountTable{}, err
	}
	s.Put(t)
	return t, nil
}

// SaveSnapshot stores the table so later reads of its sheet return it.
func (s *Store) SaveSnapshot(_ context.Context, source string, table core.AccountTable) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table.Sheet()] = table
	s.snapshots = append(s.snapshots, source)
	return fmt.Sprintf("mem:%d", len(s.snapshots)), nil
}

func (s *Store) readSeed(sheet string) (core.AccountTable, error) {
	path := filepath.Join(s.base, sheet+".csv")
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return core.AccountTable{}, &core.SourceNotFoundError{Source: path, Sheet: sheet, Err: err}
		}
		return core.AccountTable{}, fmt.Errorf("open seed %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return core.AccountTable{}, fmt.Errorf("read seed %s: %w", path, err)
	}

	values := make([][]any, len(rows))
	for i, row := range rows {
		values[i] = make([]any, len(row))
		for j, cell := range row {
			values[i][j] = cell
		}
	}
	return ports.ParseGrid(sheet, values, s.opts)
}
