package ratelimit

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/shopcore/internal/config"
)

const keyShopWrite = "shopcore:write:shop:%s"

// ShopWriteLimiter throttles mutating requests per shop.
type ShopWriteLimiter struct {
	enabled bool
	bucket  *TokenBucket
	limit   Limit
}

func NewShopWriteLimiter(cfg config.Config, client *redis.Client) (*ShopWriteLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}
	if client == nil {
		return nil, errors.New("rate limit requires REDIS_ADDR")
	}
	limit := Limit{Rate: limitCfg.ShopWriteRate, Burst: limitCfg.ShopWriteBurst}
	if err := limit.validate(); err != nil {
		return nil, err
	}
	return &ShopWriteLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		limit:   limit,
	}, nil
}

func (l *ShopWriteLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowShop takes one write token for the shop.
func (l *ShopWriteLimiter) AllowShop(ctx context.Context, shopID string) (Decision, error) {
	if !l.Enabled() {
		return Decision{Allowed: true}, nil
	}
	return l.bucket.Take(ctx, fmt.Sprintf(keyShopWrite, shopID), l.limit)
}
