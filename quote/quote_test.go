package quote

import (
	"context"
	"testing"

	"paper-trader/apperror"
	"paper-trader/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSymbol(t *testing.T) {
	s, err := NormalizeSymbol("  aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", s)

	s, err = NormalizeSymbol("brk.b")
	require.NoError(t, err)
	assert.Equal(t, "BRK.B", s)

	_, err = NormalizeSymbol("   ")
	assert.ErrorIs(t, err, apperror.ErrMissingField)

	for _, bad := range []string{"1ABC", "AA PL", "TOOLONGSYMBOL", "A$"} {
		_, err = NormalizeSymbol(bad)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, bad)
	}
}

func TestStatic(t *testing.T) {
	s, err := ParseStatic(map[string]string{
		"aapl": "Apple Inc.|150.25",
		"x":    "20",
	})
	require.NoError(t, err)

	q, err := s.Lookup(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, Quote{Symbol: "AAPL", Name: "Apple Inc.", Price: 15025}, q)

	q, err = s.Lookup(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "X", q.Name)
	assert.Equal(t, money.Dollars(20), q.Price)

	_, err = s.Lookup(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)

	s.Set("X", "Ex Corp", money.Dollars(25))
	q, _ = s.Lookup(context.Background(), "X")
	assert.Equal(t, money.Dollars(25), q.Price)
}

func TestParseStatic_Invalid(t *testing.T) {
	_, err := ParseStatic(map[string]string{"X": "Ex|abc"})
	assert.Error(t, err)

	_, err = ParseStatic(map[string]string{"X": "Ex|0"})
	assert.Error(t, err)
}
