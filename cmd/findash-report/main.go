// Command findash-report prints the dashboard summary for a selection to the
// terminal and optionally writes the filtered records to CSV or XLSX.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"findash/internal/backend"
	"findash/internal/cli"
	"findash/internal/core"
	"findash/internal/export"
	applog "findash/internal/log"
	"findash/internal/report"
	"findash/internal/services"
	"findash/internal/storage"
)

type snapshotLister interface {
	ListSnapshots(ctx context.Context, sheet string, limit int) ([]storage.Snapshot, error)
}

type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	var (
		accounts listFlag
		months   listFlag
		csvOut   = flag.String("csv", "", "write the filtered records to this CSV file")
		xlsxOut  = flag.String("xlsx", "", "write the filtered records and summary to this XLSX file")
		noColor  = flag.Bool("no-color", false, "disable colored output")
		timeout  = flag.Duration("timeout", 30*time.Second, "load timeout")
		listSnap = flag.Int("snapshots", 0, "list the newest N stored snapshots instead of the report (sqlite backend)")
	)
	flag.Var(&accounts, "account", "account to include (repeatable, default all)")
	flag.Var(&months, "month", "month to include, e.g. Jan or Fev (repeatable, default all)")
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}

	cli.LoadEnvFile()
	// stdout carries the report; logs go to stderr
	logCfg := applog.DefaultConfig()
	logCfg.Component = applog.ComponentReport
	logCfg.Output = os.Stderr
	logger := applog.New(logCfg)
	applog.SetDefault(logger)
	cfg := cli.LoadAndValidateConfig(logger)

	query, err := buildQuery(accounts, months)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	res, err := backend.NewFactory(logger.Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer res.Close()

	if *listSnap > 0 {
		var lister snapshotLister
		if res.Snapshots != nil {
			lister = res.Snapshots
		}
		printer := report.NewPrinter(os.Stdout, cfg.CurrencyLocale)
		if err := printSnapshots(ctx, lister, printer, cfg.SheetName, *listSnap); err != nil {
			logger.Error("Failed to list snapshots", "error", err, "backend", cfg.DataBackend)
			os.Exit(1)
		}
		return
	}

	dashCfg, err := cli.DashboardConfig(cfg)
	if err != nil {
		logger.Error("Invalid pipeline configuration", "error", err)
		os.Exit(1)
	}
	dashboard := services.NewDashboardService(services.NewTableProvider(res.Backend, 1, time.Minute), dashCfg)

	view, err := dashboard.View(ctx, query)
	if err != nil {
		logger.Error("Failed to build report", "error", err, "sheet", cfg.SheetName)
		os.Exit(1)
	}

	report.NewPrinter(os.Stdout, cfg.CurrencyLocale).Print(view)

	if *csvOut != "" {
		if err := writeFile(*csvOut, func(f *os.File) error {
			return export.WriteCSV(f, view.Records, cfg.CurrencyLocale)
		}); err != nil {
			logger.Error("Failed to write CSV", "error", err, "path", *csvOut)
			os.Exit(1)
		}
		logger.Info("CSV written", "path", *csvOut, "records", len(view.Records))
	}
	if *xlsxOut != "" {
		if err := writeFile(*xlsxOut, func(f *os.File) error {
			return export.WriteXLSX(f, view.Records, view.Summary, cfg.CurrencyLocale)
		}); err != nil {
			logger.Error("Failed to write XLSX", "error", err, "path", *xlsxOut)
			os.Exit(1)
		}
		logger.Info("XLSX written", "path", *xlsxOut, "records", len(view.Records))
	}
}

func buildQuery(accounts, months []string) (services.Query, error) {
	q := services.Query{
		Accounts:    accounts,
		AllAccounts: len(accounts) == 0,
		AllMonths:   len(months) == 0,
	}
	for _, label := range months {
		m, err := core.ParseMonth(label)
		if err != nil {
			return services.Query{}, fmt.Errorf("-month %q: %w", label, err)
		}
		q.Months = append(q.Months, m)
	}
	return q, nil
}

var errNoSnapshotStore = errors.New("-snapshots needs DATA_BACKEND=sqlite")

func printSnapshots(ctx context.Context, lister snapshotLister, p *report.Printer, sheet string, n int) error {
	if lister == nil {
		return errNoSnapshotStore
	}
	snaps, err := lister.ListSnapshots(ctx, sheet, n)
	if err != nil {
		return err
	}
	p.PrintSnapshots(sheet, snaps)
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
