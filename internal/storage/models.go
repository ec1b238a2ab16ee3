package storage

import (
	"database/sql"
	"time"
)

type Snapshot struct {
	ID           string    `json:"id"`
	Sheet        string    `json:"sheet"`
	Source       string    `json:"source"`
	AccountCount int64     `json:"account_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type SnapshotAccount struct {
	SnapshotID string         `json:"snapshot_id"`
	Position   int64          `json:"position"`
	Name       string         `json:"name"`
	Total      sql.NullString `json:"total"`
}

type SnapshotCell struct {
	SnapshotID string `json:"snapshot_id"`
	Position   int64  `json:"position"`
	Month      int64  `json:"month"`
	Amount     string `json:"amount"`
}
