package handlers

import (
	"testing"

	"paper-trader/apperror"
	"paper-trader/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShares(t *testing.T) {
	n, err := parseShares(" 10 ")
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	_, err = parseShares("")
	assert.ErrorIs(t, err, apperror.ErrMissingField)

	for _, bad := range []string{"0", "-1", "1.5", "10.0", "1e3", "ten", "+5", "99999999999999999999"} {
		_, err := parseShares(bad)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, bad)
	}
}

func TestParseCash(t *testing.T) {
	c, err := parseCash("250.75")
	require.NoError(t, err)
	assert.Equal(t, money.Cents(25075), c)

	_, err = parseCash(" ")
	assert.ErrorIs(t, err, apperror.ErrMissingField)

	for _, bad := range []string{"0", "-5", "abc", "1.001"} {
		_, err := parseCash(bad)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, bad)
	}
}
