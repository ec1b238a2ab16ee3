package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"findash/internal/sheets"
)

// Refresher copies tables from the upstream source into the snapshot store.
type Refresher struct {
	source     sheets.TableReader
	sink       sheets.SnapshotWriter
	sourceName string
	onRefresh  func(sheet string)
}

func NewRefresher(source sheets.TableReader, sink sheets.SnapshotWriter, sourceName string) *Refresher {
	return &Refresher{source: source, sink: sink, sourceName: sourceName}
}

// OnRefresh registers a callback run after each successful snapshot, typically
// to invalidate a TableProvider.
func (r *Refresher) OnRefresh(fn func(sheet string)) {
	r.onRefresh = fn
}

// Refresh loads sheet from the source and stores it as a new snapshot.
func (r *Refresher) Refresh(ctx context.Context, sheet string) (string, error) {
	table, err := r.source.ReadTable(ctx, sheet)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", sheet, err)
	}
	id, err := r.sink.SaveSnapshot(ctx, r.sourceName, table)
	if err != nil {
		return "", fmt.Errorf("save snapshot of %s: %w", sheet, err)
	}
	slog.InfoContext(ctx, "Snapshot saved",
		"sheet", sheet, "snapshot_id", id, "account_count", table.Len(), "source", r.sourceName)
	if r.onRefresh != nil {
		r.onRefresh(sheet)
	}
	return id, nil
}

// Run refreshes every sheet immediately and then on each tick until ctx is
// done. Failures are logged and retried on the next tick.
func (r *Refresher) Run(ctx context.Context, interval time.Duration, sheetNames ...string) error {
	if interval <= 0 {
		return fmt.Errorf("invalid refresh interval %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Refresher started", "interval", interval, "sheets", sheetNames)
	r.refreshAll(ctx, sheetNames)
	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Refresher stopped")
			return nil
		case <-ticker.C:
			r.refreshAll(ctx, sheetNames)
		}
	}
}

func (r *Refresher) refreshAll(ctx context.Context, sheetNames []string) {
	for _, sheet := range sheetNames {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.Refresh(ctx, sheet); err != nil {
			slog.ErrorContext(ctx, "Refresh failed", "sheet", sheet, "error", err)
		}
	}
}
