package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"findash/internal/config"
	"findash/internal/core"
	"findash/internal/sheets"
)

func TestFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		DataBackend:    "memory",
		AccountColumn:  "Conta Contábil",
		TotalColumn:    "total",
		SentinelValues: []string{"1"},
		MemoryDataDir:  "seeds",
	}

	cfg, err := FromAppConfig(appCfg)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != MemoryBackend || cfg.DataDirectory != "seeds" {
		t.Errorf("FromAppConfig() = %+v", cfg)
	}
	if len(cfg.Grid.Sentinels) != 1 || cfg.Grid.Sentinels[0].String() != "1" {
		t.Errorf("Grid.Sentinels = %v", cfg.Grid.Sentinels)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "ftp"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"xlsx ok", Config{Type: XLSXBackend, XLSXPath: "book.xlsx"}, false},
		{"xlsx missing path", Config{Type: XLSXBackend}, true},
		{"sheets missing id", Config{Type: SheetsBackend}, true},
		{"sqlite missing path", Config{Type: SQLiteBackend}, true},
		{"memory ok", Config{Type: MemoryBackend}, false},
		{"unknown", Config{Type: "ftp"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFactory_MemoryBackend(t *testing.T) {
	dir := t.TempDir()
	seed := "Conta Contábil,Jan,total\nReceita Líquida,100,100\n"
	if err := os.WriteFile(filepath.Join(dir, "Dados.csv"), []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:          MemoryBackend,
		Grid:          sheets.DefaultGridOptions(),
		DataDirectory: dir,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	tbl, err := res.Backend.ReadTable(context.Background(), "Dados")
	if err != nil || tbl.Len() != 1 {
		t.Fatalf("ReadTable() = %d accounts, %v", tbl.Len(), err)
	}
}

func TestFactory_XLSXMissingFile(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:     XLSXBackend,
		Grid:     sheets.DefaultGridOptions(),
		XLSXPath: filepath.Join(t.TempDir(), "missing.xlsx"),
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}

	_, err = res.Backend.ReadTable(context.Background(), "Dados")
	if !errors.Is(err, core.ErrSourceNotFound) {
		t.Fatalf("ReadTable() error = %v, want source not found", err)
	}
}

func TestFactory_SQLiteBackend(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "findash.db"),
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Close()

	if res.Snapshots == nil {
		t.Fatal("sqlite backend must expose its snapshot store")
	}
}
