package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	domain "github.com/PabloIb21/teslo-orders-api/internal/entity"
	"github.com/PabloIb21/teslo-orders-api/internal/usecase"
)

type RedisStatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatusCache(rdb *redis.Client, ttl time.Duration) *RedisStatusCache {
	return &RedisStatusCache{rdb: rdb, ttl: ttl}
}

func (c *RedisStatusCache) SetStatus(ctx context.Context, orderID string, status domain.Status) error {
	return c.rdb.Set(ctx, "order:status:"+orderID, string(status), c.ttl).Err()
}

func (c *RedisStatusCache) GetStatus(ctx context.Context, orderID string) (domain.Status, bool, error) {
	val, err := c.rdb.Get(ctx, "order:status:"+orderID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return domain.Status(val), true, nil
}

var _ usecase.StatusCache = (*RedisStatusCache)(nil)
