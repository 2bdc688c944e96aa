// Package money holds the fixed-point currency type used for cash balances and prices.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the only currency the ledger trades in.
const Currency = gomoney.USD

// Cents is an amount of US dollars in hundredths.
type Cents int64

var (
	ErrEmpty     = errors.New("amount is empty")
	ErrMalformed = errors.New("amount is not a number")
	ErrPrecision = errors.New("amount has more than two decimal places")
	ErrOverflow  = errors.New("amount out of range")
)

// maxDollars keeps every amount well inside int64 cents.
var maxDollars = decimal.New(1, 15)

// Dollars converts a whole-dollar value.
func Dollars(d int64) Cents { return Cents(d * 100) }

// ParseAmount parses user input such as "12", "12.5" or "1,000.25".
// More than two decimal places are rejected rather than rounded.
func ParseAmount(s string) (Cents, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, ErrEmpty
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if !d.Equal(d.Round(2)) {
		return 0, ErrPrecision
	}
	return FromDecimal(d)
}

// FromDecimal rounds d half away from zero to whole cents.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	if d.Abs().GreaterThanOrEqual(maxDollars) {
		return 0, ErrOverflow
	}
	return Cents(d.Round(2).Shift(2).IntPart()), nil
}

// Decimal returns c in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Times multiplies a per-share price by a signed share count.
func (c Cents) Times(shares int64) (Cents, error) {
	if shares == 0 || c == 0 {
		return 0, nil
	}
	p := int64(c) * shares
	if p/shares != int64(c) || (int64(c) == -1 && shares == math.MinInt64) {
		return 0, ErrOverflow
	}
	return Cents(p), nil
}

// Display formats c as "$1,234.56".
func (c Cents) Display() string {
	return gomoney.New(int64(c), Currency).Display()
}

func (c Cents) String() string { return c.Display() }
