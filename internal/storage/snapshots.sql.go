package storage

import (
	"context"
	"database/sql"
	"time"
)

const createSnapshot = `-- name: CreateSnapshot :exec
INSERT INTO snapshots (id, sheet, source, account_count, created_at)
VALUES (?, ?, ?, ?, ?)
`

type CreateSnapshotParams struct {
	ID           string
	Sheet        string
	Source       string
	AccountCount int64
	CreatedAt    time.Time
}

func (q *Queries) CreateSnapshot(ctx context.Context, arg CreateSnapshotParams) error {
	_, err := q.db.ExecContext(ctx, createSnapshot,
		arg.ID,
		arg.Sheet,
		arg.Source,
		arg.AccountCount,
		arg.CreatedAt,
	)
	return err
}

const createSnapshotAccount = `-- name: CreateSnapshotAccount :exec
INSERT INTO snapshot_accounts (snapshot_id, position, name, total)
VALUES (?, ?, ?, ?)
`

type CreateSnapshotAccountParams struct {
	SnapshotID string
	Position   int64
	Name       string
	Total      sql.NullString
}

func (q *Queries) CreateSnapshotAccount(ctx context.Context, arg CreateSnapshotAccountParams) error {
	_, err := q.db.ExecContext(ctx, createSnapshotAccount,
		arg.SnapshotID,
		arg.Position,
		arg.Name,
		arg.Total,
	)
	return err
}

const createSnapshotCell = `-- name: CreateSnapshotCell :exec
INSERT INTO snapshot_cells (snapshot_id, position, month, amount)
VALUES (?, ?, ?, ?)
`

type CreateSnapshotCellParams struct {
	SnapshotID string
	Position   int64
	Month      int64
	Amount     string
}

func (q *Queries) CreateSnapshotCell(ctx context.Context, arg CreateSnapshotCellParams) error {
	_, err := q.db.ExecContext(ctx, createSnapshotCell,
		arg.SnapshotID,
		arg.Position,
		arg.Month,
		arg.Amount,
	)
	return err
}

const getLatestSnapshot = `-- name: GetLatestSnapshot :one
SELECT id, sheet, source, account_count, created_at FROM snapshots
WHERE sheet = ?
ORDER BY rowid DESC
LIMIT 1
`

func (q *Queries) GetLatestSnapshot(ctx context.Context, sheet string) (Snapshot, error) {
	row := q.db.QueryRowContext(ctx, getLatestSnapshot, sheet)
	var i Snapshot
	err := row.Scan(
		&i.ID,
		&i.Sheet,
		&i.Source,
		&i.AccountCount,
		&i.CreatedAt,
	)
	return i, err
}

const listSnapshots = `-- name: ListSnapshots :many
SELECT id, sheet, source, account_count, created_at FROM snapshots
WHERE sheet = ?
ORDER BY rowid DESC
LIMIT ?
`

type ListSnapshotsParams struct {
	Sheet string
	Limit int64
}

func (q *Queries) ListSnapshots(ctx context.Context, arg ListSnapshotsParams) ([]Snapshot, error) {
	rows, err := q.db.QueryContext(ctx, listSnapshots, arg.Sheet, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Snapshot
	for rows.Next() {
		var i Snapshot
		if err := rows.Scan(
			&i.ID,
			&i.Sheet,
			&i.Source,
			&i.AccountCount,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listSnapshotIDsAfter = `-- name: ListSnapshotIDsAfter :many
SELECT id FROM snapshots
WHERE sheet = ?
ORDER BY rowid DESC
LIMIT -1 OFFSET ?
`

type ListSnapshotIDsAfterParams struct {
	Sheet  string
	Offset int64
}

func (q *Queries) ListSnapshotIDsAfter(ctx context.Context, arg ListSnapshotIDsAfterParams) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listSnapshotIDsAfter, arg.Sheet, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listSnapshotAccounts = `-- name: ListSnapshotAccounts :many
SELECT snapshot_id, position, name, total FROM snapshot_accounts
WHERE snapshot_id = ?
ORDER BY position
`

func (q *Queries) ListSnapshotAccounts(ctx context.Context, snapshotID string) ([]SnapshotAccount, error) {
	rows, err := q.db.QueryContext(ctx, listSnapshotAccounts, snapshotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SnapshotAccount
	for rows.Next() {
		var i SnapshotAccount
		if err := rows.Scan(
			&i.SnapshotID,
			&i.Position,
			&i.Name,
			&i.Total,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listSnapshotCells = `-- name: ListSnapshotCells :many
SELECT snapshot_id, position, month, amount FROM snapshot_cells
WHERE snapshot_id = ?
ORDER BY position, month
`

func (q *Queries) ListSnapshotCells(ctx context.Context, snapshotID string) ([]SnapshotCell, error) {
	rows, err := q.db.QueryContext(ctx, listSnapshotCells, snapshotID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SnapshotCell
	for rows.Next() {
		var i SnapshotCell
		if err := rows.Scan(
			&i.SnapshotID,
			&i.Position,
			&i.Month,
			&i.Amount,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteSnapshotCells = `-- name: DeleteSnapshotCells :exec
DELETE FROM snapshot_cells WHERE snapshot_id = ?
`

func (q *Queries) DeleteSnapshotCells(ctx context.Context, snapshotID string) error {
	_, err := q.db.ExecContext(ctx, deleteSnapshotCells, snapshotID)
	return err
}

const deleteSnapshotAccounts = `-- name: DeleteSnapshotAccounts :exec
DELETE FROM snapshot_accounts WHERE snapshot_id = ?
`

func (q *Queries) DeleteSnapshotAccounts(ctx context.Context, snapshotID string) error {
	_, err := q.db.ExecContext(ctx, deleteSnapshotAccounts, snapshotID)
	return err
}

const deleteSnapshot = `-- name: DeleteSnapshot :exec
DELETE FROM snapshots WHERE id = ?
`

func (q *Queries) DeleteSnapshot(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, deleteSnapshot, id)
	return err
}
