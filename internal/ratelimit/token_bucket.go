package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// takeScript refills the bucket from redis server time and takes one token.
// Returns {allowed, tokens_left, wait_ms}.
const takeScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local t = redis.call("TIME")
local now = t[1] * 1000 + math.floor(t[2] / 1000)

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1]) or burst
local last = tonumber(state[2]) or now
if now > last then
  tokens = math.min(burst, tokens + (now - last) * rate / 1000)
end

local allowed = 0
local wait = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
else
  wait = math.ceil((1 - tokens) * 1000 / rate)
end

redis.call("HSET", KEYS[1], "tokens", tostring(tokens), "ts", now)
redis.call("PEXPIRE", KEYS[1], ttl)
return {allowed, tostring(tokens), wait}
`

var ErrInvalidLimit = errors.New("invalid_rate_limit")

// Limit is a refill rate in tokens per second with a maximum burst.
type Limit struct {
	Rate  float64
	Burst int
}

func (l Limit) validate() error {
	if l.Rate <= 0 || l.Burst <= 0 {
		return fmt.Errorf("%w: rate=%v burst=%d", ErrInvalidLimit, l.Rate, l.Burst)
	}
	return nil
}

// ttl keeps idle buckets around for two full refills.
func (l Limit) ttl() time.Duration {
	if l.validate() != nil {
		return time.Second
	}
	seconds := math.Max(1, math.Ceil(float64(l.Burst)/l.Rate*2))
	return time.Duration(seconds) * time.Second
}

// Decision is the outcome of taking one token.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// TokenBucket is a redis-backed token bucket shared by every API replica.
type TokenBucket struct {
	client *redis.Client
	script *redis.Script
}

func NewTokenBucket(client *redis.Client) *TokenBucket {
	if client == nil {
		return nil
	}
	return &TokenBucket{client: client, script: redis.NewScript(takeScript)}
}

// Take consumes one token from the bucket at key.
func (b *TokenBucket) Take(ctx context.Context, key string, limit Limit) (Decision, error) {
	if b == nil || b.client == nil {
		return Decision{}, errors.New("token bucket not configured")
	}
	if key == "" {
		return Decision{}, errors.New("token bucket key is empty")
	}
	if err := limit.validate(); err != nil {
		return Decision{}, err
	}

	res, err := b.script.Run(ctx, b.client, []string{key}, limit.Rate, limit.Burst, limit.ttl().Milliseconds()).Slice()
	if err != nil {
		return Decision{}, err
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("token bucket: unexpected reply of %d values", len(res))
	}
	return decide(limit, toInt(res[0]) == 1, toFloat(res[1]), toInt(res[2])), nil
}

func decide(limit Limit, allowed bool, tokens float64, waitMs int64) Decision {
	d := Decision{Allowed: allowed, Limit: limit.Burst, Remaining: int(tokens)}
	if !allowed && waitMs > 0 {
		d.RetryAfter = time.Duration(waitMs) * time.Millisecond
	}
	return d
}

func toInt(v interface{}) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case string:
		n, _ := strconv.ParseInt(val, 10, 64)
		return n
	default:
		return 0
	}
}

// toFloat parses the tostring'd token count. Bare lua numbers come back
// truncated to integers.
func toFloat(v interface{}) float64 {
	switch val := v.(type) {
	case int64:
		return float64(val)
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
