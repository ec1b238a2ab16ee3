package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"findash/internal/core"
	ports "findash/internal/sheets"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores loaded tables as immutable snapshots. The latest
// snapshot of a sheet is served back as a table, so the store doubles as a
// loader backend.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

var (
	_ ports.TableReader    = (*SQLiteRepository)(nil)
	_ ports.SnapshotWriter = (*SQLiteRepository)(nil)
)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := MigrateSchema(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	slog.Debug("Snapshot store ready", "path", dbPath, "schema_version", version)

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// SaveSnapshot implements sheets.SnapshotWriter. The whole table is written
// in one transaction.
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, source string, table core.AccountTable) (string, error) {
	id := uuid.NewString()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.CreateSnapshot(ctx, CreateSnapshotParams{
		ID:           id,
		Sheet:        table.Sheet(),
		Source:       source,
		AccountCount: int64(table.Len()),
		CreatedAt:    r.now().UTC(),
	}); err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}

	for pos, a := range table.Accounts() {
		if err := q.CreateSnapshotAccount(ctx, CreateSnapshotAccountParams{
			SnapshotID: id,
			Position:   int64(pos),
			Name:       a.Name,
			Total:      nullString(a.Total),
		}); err != nil {
			return "", fmt.Errorf("create account %q: %w", a.Name, err)
		}
		for _, m := range core.Months() {
			v := a.Value(m)
			if !v.Valid {
				continue
			}
			if err := q.CreateSnapshotCell(ctx, CreateSnapshotCellParams{
				SnapshotID: id,
				Position:   int64(pos),
				Month:      int64(m),
				Amount:     v.Decimal.String(),
			}); err != nil {
				return "", fmt.Errorf("create cell %q/%s: %w", a.Name, m, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot saved to SQLite",
		"snapshot_id", id,
		"sheet", table.Sheet(),
		"source", source,
		"account_count", table.Len())

	return id, nil
}

// ReadTable implements sheets.TableReader by rebuilding the latest snapshot
// of sheet.
func (r *SQLiteRepository) ReadTable(ctx context.Context, sheet string) (core.AccountTable, error) {
	snap, err := r.queries.GetLatestSnapshot(ctx, sheet)
	if errors.Is(err, sql.ErrNoRows) {
		return core.AccountTable{}, &core.SourceNotFoundError{Source: "sqlite snapshots", Sheet: sheet}
	}
	if err != nil {
		return core.AccountTable{}, fmt.Errorf("get latest snapshot: %w", err)
	}
	return r.ReadSnapshot(ctx, snap)
}

// ReadSnapshot rebuilds the table stored under snap.
func (r *SQLiteRepository) ReadSnapshot(ctx context.Context, snap Snapshot) (core.AccountTable, error) {
	rows, err := r.queries.ListSnapshotAccounts(ctx, snap.ID)
	if err != nil {
		return core.AccountTable{}, fmt.Errorf("list snapshot accounts: %w", err)
	}
	cells, err := r.queries.ListSnapshotCells(ctx, snap.ID)
	if err != nil {
		return core.AccountTable{}, fmt.Errorf("list snapshot cells: %w", err)
	}

	accounts := make([]core.Account, len(rows))
	byPos := make(map[int64]int, len(rows))
	for i, row := range rows {
		accounts[i] = core.Account{Name: row.Name, Total: core.None()}
		if row.Total.Valid {
			d, err := decimal.NewFromString(row.Total.String)
			if err != nil {
				return core.AccountTable{}, fmt.Errorf("snapshot %s account %q total: %w", snap.ID, row.Name, err)
			}
			accounts[i].Total = core.Some(d)
		}
		byPos[row.Position] = i
	}
	for _, c := range cells {
		i, ok := byPos[c.Position]
		m := core.Month(c.Month)
		if !ok || !m.Valid() {
			return core.AccountTable{}, fmt.Errorf("snapshot %s: orphan cell at position %d month %d", snap.ID, c.Position, c.Month)
		}
		d, err := decimal.NewFromString(c.Amount)
		if err != nil {
			return core.AccountTable{}, fmt.Errorf("snapshot %s cell %q/%s: %w", snap.ID, accounts[i].Name, m, err)
		}
		accounts[i].Values[m.Index()] = core.Some(d)
	}

	return core.NewAccountTable(snap.Sheet, accounts)
}

// ListSnapshots returns the most recent snapshots of sheet, newest first.
func (r *SQLiteRepository) ListSnapshots(ctx context.Context, sheet string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}
	snaps, err := r.queries.ListSnapshots(ctx, ListSnapshotsParams{Sheet: sheet, Limit: int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}

// PruneSnapshots keeps the newest keep snapshots of sheet and deletes the rest.
func (r *SQLiteRepository) PruneSnapshots(ctx context.Context, sheet string, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	ids, err := q.ListSnapshotIDsAfter(ctx, ListSnapshotIDsAfterParams{Sheet: sheet, Offset: int64(keep)})
	if err != nil {
		return 0, fmt.Errorf("list old snapshots: %w", err)
	}
	for _, id := range ids {
		if err := q.DeleteSnapshotCells(ctx, id); err != nil {
			return 0, fmt.Errorf("delete cells of %s: %w", id, err)
		}
		if err := q.DeleteSnapshotAccounts(ctx, id); err != nil {
			return 0, fmt.Errorf("delete accounts of %s: %w", id, err)
		}
		if err := q.DeleteSnapshot(ctx, id); err != nil {
			return 0, fmt.Errorf("delete snapshot %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}

	if len(ids) > 0 {
		slog.InfoContext(ctx, "Old snapshots pruned", "sheet", sheet, "count", len(ids))
	}
	return len(ids), nil
}

func nullString(v core.Value) sql.NullString {
	if !v.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: v.Decimal.String(), Valid: true}
}
