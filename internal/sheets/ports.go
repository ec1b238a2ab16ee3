package sheets

import (
	"context"

	"findash/internal/core"
)

// Ports for outbound adapters.
type (
	// TableReader loads the wide account table stored in the named sheet.
	// Implementations return *core.SourceNotFoundError when the resource or
	// the sheet is absent and *core.SchemaError when the header is unusable.
	TableReader interface {
		ReadTable(ctx context.Context, sheet string) (core.AccountTable, error)
	}

	// SnapshotWriter persists a loaded table and returns the snapshot ID.
	SnapshotWriter interface {
		SaveSnapshot(ctx context.Context, source string, table core.AccountTable) (id string, err error)
	}

	// RefreshPublisher asks the worker to reload a sheet from upstream.
	RefreshPublisher interface {
		PublishRefresh(ctx context.Context, sheet string) error
	}
)
