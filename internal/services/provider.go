package services

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"findash/internal/cache"
	"findash/internal/core"
	"findash/internal/sheets"
)

// DefaultLoadTimeout bounds one shared upstream read.
const DefaultLoadTimeout = 30 * time.Second

// TableProvider memoizes loaded tables per sheet. Concurrent loads of the
// same sheet are coalesced into one read; tables are shared read-only.
type TableProvider struct {
	reader      sheets.TableReader
	cache       *cache.LRUCache[string, core.AccountTable]
	group       singleflight.Group
	loadTimeout time.Duration
}

// NewTableProvider wraps reader with a cache holding up to maxSheets tables
// for ttl each.
func NewTableProvider(reader sheets.TableReader, maxSheets int, ttl time.Duration) *TableProvider {
	return &TableProvider{
		reader:      reader,
		cache:       cache.NewLRUCache[string, core.AccountTable](maxSheets, ttl),
		loadTimeout: DefaultLoadTimeout,
	}
}

// Table returns the table of sheet, loading it on a cache miss. Load errors
// are never cached. The shared read is detached from ctx so one caller
// giving up does not fail the others waiting on it; ctx only bounds how long
// this caller waits.
func (p *TableProvider) Table(ctx context.Context, sheet string) (core.AccountTable, error) {
	if t, ok := p.cache.Get(sheet); ok {
		return t, nil
	}

	ch := p.group.DoChan(sheet, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.loadTimeout)
		defer cancel()

		start := time.Now()
		t, err := p.reader.ReadTable(loadCtx, sheet)
		if err != nil {
			return core.AccountTable{}, err
		}
		p.cache.Set(sheet, t)
		slog.InfoContext(loadCtx, "Table loaded",
			"sheet", sheet, "account_count", t.Len(), "duration", time.Since(start))
		return t, nil
	})

	select {
	case <-ctx.Done():
		return core.AccountTable{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return core.AccountTable{}, res.Err
		}
		if res.Shared {
			slog.DebugContext(ctx, "Table load shared with concurrent caller", "sheet", sheet)
		}
		return res.Val.(core.AccountTable), nil
	}
}

// Invalidate drops the cached table of sheet so the next call reloads it.
func (p *TableProvider) Invalidate(sheet string) {
	p.cache.Delete(sheet)
	p.group.Forget(sheet)
}

// Cache exposes the underlying cache for periodic cleanup.
func (p *TableProvider) Cache() cache.Cleaner { return p.cache }
