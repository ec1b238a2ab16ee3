// This file implements the Strategy Pattern for revenue/expense classification.
// The source data sometimes carries the sign in the values and sometimes only
// in the account names; each mode has its own strategy.

package services

import (
	"fmt"
	"strings"

	"findash/internal/core"
)

// ClassificationMode names a registered classification strategy.
type ClassificationMode string

const (
	ClassifyBySign ClassificationMode = "sign"
	ClassifyByName ClassificationMode = "name"
)

// ClassifierConfig carries the labels and keywords the strategies match on.
type ClassifierConfig struct {
	NetRevenueLabel string
	RevenueKeywords []string
	ExpenseKeywords []string
}

// DefaultClassifierConfig matches the labels of the "Dados para AI" workbook plus
// their English equivalents.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		NetRevenueLabel: DefaultNetRevenueLabel,
		RevenueKeywords: []string{"Revenue", "Receita"},
		ExpenseKeywords: []string{"Expense", "Despesa"},
	}
}

// Classifier is the strategy interface deciding which bucket an account sums into.
type Classifier interface {
	Classify(account string) core.Bucket
}

// SignClassifier treats the net-revenue account as revenue and every other
// account as expense. Expenses are expected to be stored as negative numbers.
type SignClassifier struct {
	NetRevenueLabel string
}

func (c SignClassifier) Classify(account string) core.Bucket {
	if account == c.NetRevenueLabel {
		return core.BucketRevenue
	}
	return core.BucketExpense
}

// NameClassifier buckets accounts by case-sensitive substring match on their
// names, revenue keywords first. Accounts matching neither are left out of
// both totals.
type NameClassifier struct {
	RevenueKeywords []string
	ExpenseKeywords []string
}

func (c NameClassifier) Classify(account string) core.Bucket {
	if containsAny(account, c.RevenueKeywords) {
		return core.BucketRevenue
	}
	if containsAny(account, c.ExpenseKeywords) {
		return core.BucketExpense
	}
	return core.BucketNone
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if k != "" && strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// ClassifierFactory builds a strategy from configuration.
type ClassifierFactory func(ClassifierConfig) Classifier

// classificationStrategies maps modes to their strategy factories.
var classificationStrategies = map[ClassificationMode]ClassifierFactory{
	ClassifyBySign: func(cfg ClassifierConfig) Classifier {
		return SignClassifier{NetRevenueLabel: cfg.NetRevenueLabel}
	},
	ClassifyByName: func(cfg ClassifierConfig) Classifier {
		return NameClassifier{RevenueKeywords: cfg.RevenueKeywords, ExpenseKeywords: cfg.ExpenseKeywords}
	},
}

// GetClassifier returns the strategy registered for mode.
// Returns an error if the mode is not supported.
func GetClassifier(mode ClassificationMode, cfg ClassifierConfig) (Classifier, error) {
	factory, ok := classificationStrategies[mode]
	if !ok {
		return nil, fmt.Errorf("unknown classification mode: %q", mode)
	}
	return factory(cfg), nil
}

// RegisterClassifier registers a strategy for a new mode.
func RegisterClassifier(mode ClassificationMode, factory ClassifierFactory) {
	classificationStrategies[mode] = factory
}
