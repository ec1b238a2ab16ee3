// Package http provides HTTP server and handler implementations.
//
// This file turns query strings into dashboard selections.

package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"findash/internal/core"
	"findash/internal/services"
)

// Query parameter names. Both may repeat.
const (
	paramAccount = "account"
	paramMonth   = "month"
)

// ErrInvalidQuery is returned when a selection parameter cannot be parsed.
var ErrInvalidQuery = errors.New("invalid query")

// ParseSelection reads the account and month filters from values.
//
// An absent parameter selects everything on that axis. A parameter that is
// present but carries no non-blank value selects nothing, so "?account="
// yields an empty selection. Months accept any label ParseMonth understands
// or a number 1-12.
func ParseSelection(values url.Values) (services.Query, error) {
	q := services.Query{}

	rawAccounts, ok := values[paramAccount]
	if !ok {
		q.AllAccounts = true
	}
	for _, v := range rawAccounts {
		if name := sanitizeInput(v); name != "" {
			q.Accounts = append(q.Accounts, name)
		}
	}

	rawMonths, ok := values[paramMonth]
	if !ok {
		q.AllMonths = true
	}
	for _, v := range rawMonths {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		m, err := parseMonthParam(v)
		if err != nil {
			return services.Query{}, err
		}
		q.Months = append(q.Months, m)
	}
	return q, nil
}

func parseMonthParam(v string) (core.Month, error) {
	if n, err := strconv.Atoi(v); err == nil {
		m := core.Month(n)
		if !m.Valid() {
			return 0, fmt.Errorf("%w: month %d out of range", ErrInvalidQuery, n)
		}
		return m, nil
	}
	m, err := core.ParseMonth(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return m, nil
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}
