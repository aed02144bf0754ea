package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/shopcore/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilGuardRunsDirectly(t *testing.T) {
	var g *Guard
	calls := 0
	err := g.WithLock(context.Background(), LockKey("purchase_order", "1", "2"), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	assert.ErrorIs(t, g.WithLock(context.Background(), "k", func() error { return boom }), boom)
}

func TestGuardDisabledWithoutRedis(t *testing.T) {
	cfg := config.Config{Locks: config.LockConfig{Enabled: true, TTLSeconds: 5}}
	assert.Nil(t, NewGuard(cfg, nil, nil))
}

func TestLockKey(t *testing.T) {
	assert.Equal(t, "shopcore:lock:payment:10:20", LockKey("payment", "10", "20"))
}

func TestShopWriteLimiterDisabledAllowsAll(t *testing.T) {
	limiter, err := NewShopWriteLimiter(config.Config{}, nil)
	require.NoError(t, err)
	assert.False(t, limiter.Enabled())

	res, err := limiter.AllowShop(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestShopWriteLimiterNeedsRedis(t *testing.T) {
	cfg := config.Config{RateLimit: config.RateLimitConfig{Enabled: true, ShopWriteRate: 1, ShopWriteBurst: 1}}
	_, err := NewShopWriteLimiter(cfg, nil)
	assert.Error(t, err)
}

func TestShopWriteLimiterRejectsZeroLimit(t *testing.T) {
	cfg := config.Config{RateLimit: config.RateLimitConfig{Enabled: true, ShopWriteRate: 0, ShopWriteBurst: 5}}
	_, err := NewShopWriteLimiter(cfg, redis.NewClient(&redis.Options{Addr: "localhost:0"}))
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestDecide(t *testing.T) {
	limit := Limit{Rate: 2, Burst: 10}

	d := decide(limit, false, 0.5, 250)
	assert.False(t, d.Allowed)
	assert.Equal(t, 250*time.Millisecond, d.RetryAfter)
	assert.Equal(t, 10, d.Limit)

	d = decide(limit, true, 3.7, 0)
	assert.Equal(t, 3, d.Remaining)
	assert.Zero(t, d.RetryAfter)
}

func TestLimitTTL(t *testing.T) {
	assert.Equal(t, 40*time.Second, Limit{Rate: 1, Burst: 20}.ttl())
	assert.Equal(t, time.Second, Limit{Rate: 100, Burst: 1}.ttl())
	assert.Equal(t, time.Second, Limit{Burst: 1}.ttl())
}

func TestTakeWithoutClient(t *testing.T) {
	var b *TokenBucket
	_, err := b.Take(context.Background(), "k", Limit{Rate: 1, Burst: 1})
	assert.Error(t, err)
}

func TestReplyParsing(t *testing.T) {
	assert.Equal(t, int64(3), toInt("3"))
	assert.Equal(t, int64(1), toInt(int64(1)))
	assert.InDelta(t, 2.5, toFloat("2.5"), 1e-9)
	assert.Zero(t, toFloat("bad"))
}
