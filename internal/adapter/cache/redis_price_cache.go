package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

// RedisPriceCache is a read-through layer in front of the catalog price
// lookup. A cache failure falls back to the source; prices are short-lived so
// catalog edits propagate quickly.
type RedisPriceCache struct {
	rdb    *redis.Client
	source usecase.PriceSource
	ttl    time.Duration
}

func NewRedisPriceCache(rdb *redis.Client, source usecase.PriceSource, ttl time.Duration) *RedisPriceCache {
	return &RedisPriceCache{rdb: rdb, source: source, ttl: ttl}
}

func (c *RedisPriceCache) PricesByID(ctx context.Context, ids []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(ids))
	missing := make([]string, 0, len(ids))

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = "price:" + id
	}
	if vals, err := c.rdb.MGet(ctx, keys...).Result(); err != nil {
		missing = append(missing, ids...)
	} else {
		for i, v := range vals {
			s, ok := v.(string)
			if !ok {
				missing = append(missing, ids[i])
				continue
			}
			d, err := decimal.NewFromString(s)
			if err != nil {
				missing = append(missing, ids[i])
				continue
			}
			prices[ids[i]] = d
		}
	}
	if len(missing) == 0 {
		return prices, nil
	}

	fresh, err := c.source.PricesByID(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, d := range fresh {
		prices[id] = d
		// Best-effort backfill.
		_ = c.rdb.Set(ctx, "price:"+id, d.StringFixed(2), c.ttl).Err()
	}
	return prices, nil
}

var _ usecase.PriceSource = (*RedisPriceCache)(nil)
