package cache

import (
	"context"
	"courier-delivery-service/internal/domain"
	"courier-delivery-service/internal/platform/obs"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const redisKeyPrefix = "distance:"

// RedisDistanceCache stores distances as decimal strings under
// "distance:<from>|<to>" with an expiry.
type RedisDistanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisDistanceCache(rdb *redis.Client, ttl time.Duration) *RedisDistanceCache {
	return &RedisDistanceCache{rdb: rdb, ttl: ttl}
}

// OpenRedis parses a redis:// URL and verifies the connection.
func OpenRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("open redis: parse url: %w", err)
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("open redis: ping: %w", err)
	}
	return rdb, nil
}

func redisKey(from, to domain.Coordinates) string {
	return redisKeyPrefix + from.Key() + "|" + to.Key()
}

func (c *RedisDistanceCache) Get(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ decimal.Decimal, _ bool, err error) {
	defer obs.Time(ctx, "distance.cache.redis.Get")(&err)

	val, err := c.rdb.Get(ctx, redisKey(from, to)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("redis distance cache get: %w", err)
	}

	km, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("redis distance cache: parse %q: %w", val, err)
	}
	return km, true, nil
}

func (c *RedisDistanceCache) Put(
	ctx context.Context,
	from domain.Coordinates,
	to domain.Coordinates,
	km decimal.Decimal,
) error {
	if err := c.rdb.Set(ctx, redisKey(from, to), km.StringFixed(2), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis distance cache set: %w", err)
	}
	return nil
}
