package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"paper-trader/money"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingLookuper struct {
	calls int
	q     Quote
	err   error
}

func (c *countingLookuper) Lookup(ctx context.Context, symbol string) (Quote, error) {
	c.calls++
	return c.q, c.err
}

func newCache(t *testing.T, next Lookuper) (*Cached, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewCached(next, rdb, time.Minute, zap.NewNop()), mr
}

func TestCached_HitsRedisSecondTime(t *testing.T) {
	next := &countingLookuper{q: Quote{Symbol: "X", Name: "Ex", Price: money.Dollars(20)}}
	c, mr := newCache(t, next)
	ctx := context.Background()

	q1, err := c.Lookup(ctx, "X")
	require.NoError(t, err)
	q2, err := c.Lookup(ctx, "X")
	require.NoError(t, err)

	assert.Equal(t, q1, q2)
	assert.Equal(t, 1, next.calls)
	assert.True(t, mr.Exists("quote:X"))

	mr.FastForward(2 * time.Minute)
	_, err = c.Lookup(ctx, "X")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)
}

func TestCached_DoesNotCacheFailures(t *testing.T) {
	next := &countingLookuper{err: ErrNotFound}
	c, mr := newCache(t, next)

	_, err := c.Lookup(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Lookup(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, 2, next.calls)
	assert.False(t, mr.Exists("quote:NOPE"))
}

func TestCached_RedisDownFallsThrough(t *testing.T) {
	next := &countingLookuper{q: Quote{Symbol: "X", Price: 100}}
	c, mr := newCache(t, next)
	mr.Close()

	q, err := c.Lookup(context.Background(), "X")
	require.NoError(t, err)
	assert.EqualValues(t, 100, q.Price)

	next.err = errors.New("provider down")
	_, err = c.Lookup(context.Background(), "X")
	assert.Error(t, err)
}
