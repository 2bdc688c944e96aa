// Package quote looks up current stock prices.
package quote

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"paper-trader/apperror"
	"paper-trader/money"
)

// ErrNotFound is returned when the provider does not know the symbol.
// It is an ordinary outcome, not a provider failure.
var ErrNotFound = errors.New("quote: symbol not found")

// Quote is a point-in-time price for a symbol.
type Quote struct {
	Symbol string      `json:"symbol"`
	Name   string      `json:"name"`
	Price  money.Cents `json:"price"`
}

// Lookuper returns the current quote for an upper-case symbol.
type Lookuper interface {
	Lookup(ctx context.Context, symbol string) (Quote, error)
}

var symbolRe = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

// NormalizeSymbol trims and upper-cases user input and checks its shape.
func NormalizeSymbol(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", apperror.New(apperror.MissingField, "must provide symbol")
	}
	if !symbolRe.MatchString(s) {
		return "", apperror.New(apperror.InvalidInput, "invalid symbol format")
	}
	return s, nil
}
