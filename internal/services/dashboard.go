package services

import (
	"context"
	"fmt"

	"findash/internal/core"
)

// TableSource hands out loaded tables. *TableProvider is the production
// implementation.
type TableSource interface {
	Table(ctx context.Context, sheet string) (core.AccountTable, error)
}

var _ TableSource = (*TableProvider)(nil)

// Query is a selection request before it is resolved against a table.
// AllAccounts and AllMonths select everything on that axis, which is the
// default view.
type Query struct {
	Accounts    []string
	Months      []core.Month
	AllAccounts bool
	AllMonths   bool
}

// SelectEverything is the default query.
func SelectEverything() Query {
	return Query{AllAccounts: true, AllMonths: true}
}

// Resolve turns the query into a selection over t.
func (q Query) Resolve(t core.AccountTable) core.Selection {
	accounts, months := q.Accounts, q.Months
	if q.AllAccounts {
		accounts = t.AccountNames()
	}
	if q.AllMonths {
		months = core.Months()
	}
	return core.NewSelection(accounts, months)
}

// DashboardConfig configures the pipeline behind the dashboard.
type DashboardConfig struct {
	Sheet   string
	Drop    []string
	Locale  string
	Summary SummaryOptions
}

// View is everything the presentation layer renders for one selection.
type View struct {
	Sheet     string            `json:"sheet"`
	Table     core.AccountTable `json:"-"`
	Accounts  []string          `json:"accounts"`
	Selection core.Selection    `json:"-"`
	Records   []core.LongRecord `json:"records"`
	Summary   core.Summary      `json:"summary"`
	Series    []ChartSeries     `json:"series"`
}

// DashboardService runs load, reshape, filter and summarize for a selection.
type DashboardService struct {
	tables TableSource
	cfg    DashboardConfig
}

func NewDashboardService(tables TableSource, cfg DashboardConfig) *DashboardService {
	cfg.Summary = cfg.Summary.withDefaults()
	return &DashboardService{tables: tables, cfg: cfg}
}

// Sheet returns the sheet the dashboard reads.
func (s *DashboardService) Sheet() string { return s.cfg.Sheet }

// Locale returns the display locale.
func (s *DashboardService) Locale() string { return s.cfg.Locale }

// View computes the dashboard for q. Loader errors (source not found,
// schema) are returned as is; everything recoverable is a warning on the
// summary.
func (s *DashboardService) View(ctx context.Context, q Query) (View, error) {
	table, err := s.tables.Table(ctx, s.cfg.Sheet)
	if err != nil {
		return View{}, fmt.Errorf("load %s: %w", s.cfg.Sheet, err)
	}

	sel := q.Resolve(table)
	records := Filter(ToLongForm(table, s.cfg.Drop...), sel)
	opts := s.cfg.Summary
	opts.DeclaredTotals = DeclaredTotals(table)
	summary := Summarize(records, sel, opts)
	for _, name := range sel.AccountList() {
		if _, ok := table.Account(name); !ok {
			summary.Warnings = append(summary.Warnings, core.Warning{
				Code:    core.WarnAccountMissing,
				Message: fmt.Sprintf("selected account %q is not in sheet %q", name, s.cfg.Sheet),
				Err:     &core.AccountNotFoundError{Account: name},
			})
		}
	}

	return View{
		Sheet:     s.cfg.Sheet,
		Table:     table,
		Accounts:  table.AccountNames(),
		Selection: sel,
		Records:   records,
		Summary:   summary,
		Series:    BuildSeries(records, s.cfg.Locale),
	}, nil
}

// DeclaredTotals returns the defined yearly totals of t keyed by account.
func DeclaredTotals(t core.AccountTable) map[string]core.Value {
	out := map[string]core.Value{}
	for _, a := range t.Accounts() {
		if a.Total.Valid {
			out[a.Name] = a.Total
		}
	}
	return out
}
