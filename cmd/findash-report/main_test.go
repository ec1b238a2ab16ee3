package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"findash/internal/core"
	"findash/internal/report"
	"findash/internal/storage"
)

func TestBuildQuery(t *testing.T) {
	q, err := buildQuery(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.AllAccounts || !q.AllMonths {
		t.Fatalf("no flags must select everything, got %+v", q)
	}

	q, err = buildQuery([]string{"Receita Líquida"}, []string{"Jan", "fev"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.AllAccounts || q.AllMonths {
		t.Fatalf("explicit flags must narrow the selection, got %+v", q)
	}
	if len(q.Months) != 2 || q.Months[0] != core.January || q.Months[1] != core.February {
		t.Fatalf("months = %v", q.Months)
	}
}

func TestBuildQuery_InvalidMonth(t *testing.T) {
	if _, err := buildQuery(nil, []string{"Smarch"}); err == nil {
		t.Fatal("expected error for unknown month")
	}
}

type stubLister struct {
	sheet string
	limit int
}

func (s *stubLister) ListSnapshots(_ context.Context, sheet string, limit int) ([]storage.Snapshot, error) {
	s.sheet, s.limit = sheet, limit
	return []storage.Snapshot{{ID: "snap-1", Sheet: sheet, Source: "xlsx", AccountCount: 3}}, nil
}

func TestPrintSnapshots(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	lister := &stubLister{}

	if err := printSnapshots(context.Background(), lister, report.NewPrinter(&buf, "en-US"), "Dados", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lister.sheet != "Dados" || lister.limit != 5 {
		t.Fatalf("lister called with %q, %d", lister.sheet, lister.limit)
	}
	if !strings.Contains(buf.String(), "snap-1") {
		t.Fatalf("snapshot missing from output:\n%s", buf.String())
	}
}

func TestPrintSnapshots_WithoutStore(t *testing.T) {
	var buf bytes.Buffer
	err := printSnapshots(context.Background(), nil, report.NewPrinter(&buf, "en-US"), "Dados", 5)
	if !errors.Is(err, errNoSnapshotStore) {
		t.Fatalf("expected errNoSnapshotStore, got %v", err)
	}
}
