package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSourceNotFound   = errors.New("source not found")
	ErrSchema           = errors.New("unexpected table schema")
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrDuplicateAccount = errors.New("duplicate account")
)

// SourceNotFoundError reports a missing input resource: a workbook file, a
// spreadsheet, a sheet inside it, or a stored snapshot.
type SourceNotFoundError struct {
	Source string
	Sheet  string
	Err    error
}

func (e *SourceNotFoundError) Error() string {
	msg := "source not found: " + e.Source
	if e.Sheet != "" {
		msg += " (sheet " + e.Sheet + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SourceNotFoundError) Unwrap() error { return e.Err }

func (e *SourceNotFoundError) Is(target error) bool { return target == ErrSourceNotFound }

// SchemaError reports that the expected account-name column or month columns
// are absent, or that the header is otherwise unusable.
type SchemaError struct {
	Sheet   string
	Missing []string
	Reason  string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("unexpected table schema")
	if e.Sheet != "" {
		fmt.Fprintf(&b, " in sheet %q", e.Sheet)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing %s", strings.Join(e.Missing, ", "))
	}
	if e.Reason != "" {
		b.WriteString(": " + e.Reason)
	}
	return b.String()
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

// AccountNotFoundError reports that an account required for a headline
// metric is not in the (selected) records.
type AccountNotFoundError struct {
	Account string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("account not found: %q", e.Account)
}

func (e *AccountNotFoundError) Is(target error) bool { return target == ErrAccountNotFound }

// Warning codes surfaced alongside results.
const (
	WarnEmptySelection = "empty_selection"
	WarnAccountMissing = "account_not_found"
	WarnTotalMismatch  = "total_mismatch"
	WarnSentinel       = "sentinel_replaced"
)

// Warning is a recoverable condition that must reach the presentation layer.
// It is not an error: results accompanying it are still valid.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// EmptySelectionWarning is raised when zero accounts or months are selected.
func EmptySelectionWarning() Warning {
	return Warning{Code: WarnEmptySelection, Message: "no accounts or months selected: no data to show"}
}
