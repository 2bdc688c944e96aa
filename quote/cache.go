package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

var _ Lookuper = (*Cached)(nil)

// Cached keeps successful lookups in Redis for a short time. Unknown
// symbols and provider failures are never cached.
type Cached struct {
	next   Lookuper
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCached(next Lookuper, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cached {
	return &Cached{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func cacheKey(symbol string) string {
	return fmt.Sprintf("quote:%s", symbol)
}

func (c *Cached) Lookup(ctx context.Context, symbol string) (Quote, error) {
	key := cacheKey(symbol)

	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var q Quote
		if jerr := json.Unmarshal(raw, &q); jerr == nil {
			return q, nil
		}
		c.logger.Warn("discarding unreadable cached quote", zap.String("symbol", symbol))
	case !errors.Is(err, redis.Nil):
		// A cache outage degrades to direct lookups.
		c.logger.Warn("quote cache read failed", zap.String("symbol", symbol), zap.Error(err))
	}

	q, err := c.next.Lookup(ctx, symbol)
	if err != nil {
		return Quote{}, err
	}

	if payload, err := json.Marshal(q); err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.logger.Warn("quote cache write failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	return q, nil
}
