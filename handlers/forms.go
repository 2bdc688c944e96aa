package handlers

import (
	"errors"
	"strconv"
	"strings"

	"paper-trader/apperror"
	"paper-trader/ledger"
	"paper-trader/money"
)

type credentialsForm struct {
	Username     string `form:"username"`
	Password     string `form:"password"`
	Confirmation string `form:"confirmation"`
}

type orderForm struct {
	Symbol string `form:"symbol"`
	Shares string `form:"shares"`
}

type symbolForm struct {
	Symbol string `form:"symbol"`
}

type cashForm struct {
	Cash string `form:"cash"`
}

var errBadForm = apperror.New(apperror.InvalidInput, "invalid form")

// parseShares accepts whole positive numbers only: "10" but not "10.0" or "1e3".
func parseShares(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, apperror.New(apperror.MissingField, "must provide shares")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, apperror.New(apperror.InvalidInput, "shares must be a positive whole number")
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 || n > ledger.MaxShares {
		return 0, apperror.New(apperror.InvalidInput, "shares must be a positive whole number")
	}
	return n, nil
}

// parseCash accepts a positive amount with at most two decimal places.
func parseCash(s string) (money.Cents, error) {
	c, err := money.ParseAmount(s)
	switch {
	case errors.Is(err, money.ErrEmpty):
		return 0, apperror.New(apperror.MissingField, "must provide amount")
	case err != nil:
		return 0, apperror.New(apperror.InvalidInput, "amount must be a number with at most two decimals")
	case c <= 0:
		return 0, apperror.New(apperror.InvalidInput, "must use positive number")
	}
	return c, nil
}
