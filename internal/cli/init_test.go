package cli

import (
	"testing"

	"findash/internal/config"
	"findash/internal/core"
	"findash/internal/services"
)

func TestDashboardConfig(t *testing.T) {
	cfg := &config.Config{
		SheetName:       "Dados",
		DropColumns:     []string{"total"},
		CurrencyLocale:  "pt-BR",
		NetRevenueLabel: "Receita Líquida",
		Classification:  "name",
		RevenueKeywords: []string{"Receita"},
		ExpenseKeywords: []string{"Despesa"},
	}

	dc, err := DashboardConfig(cfg)
	if err != nil {
		t.Fatalf("DashboardConfig() error = %v", err)
	}
	if dc.Sheet != "Dados" || dc.Locale != "pt-BR" {
		t.Errorf("unexpected sheet/locale: %q %q", dc.Sheet, dc.Locale)
	}
	if _, ok := dc.Summary.Classifier.(services.NameClassifier); !ok {
		t.Fatalf("expected NameClassifier, got %T", dc.Summary.Classifier)
	}
	if got := dc.Summary.Classifier.Classify("Despesas Gerais"); got != core.BucketExpense {
		t.Errorf("Classify(Despesas Gerais) = %v, want expense", got)
	}
}

func TestDashboardConfig_UnknownClassification(t *testing.T) {
	cfg := &config.Config{Classification: "bogus", NetRevenueLabel: "Receita Líquida"}
	if _, err := DashboardConfig(cfg); err == nil {
		t.Fatal("expected error for unknown classification mode")
	}
}
