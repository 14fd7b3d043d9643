package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restroom-web/internal/config"
)

// bucketScript refills and takes one token atomically.  It returns
// {allowed, remaining, retry_after_ms}.
var bucketScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local interval = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local s = redis.call('HMGET', key, 'tokens', 'last')
local tokens = tonumber(s[1]) or capacity
local last = tonumber(s[2]) or now

local steps = math.floor(math.max(0, now - last) / interval)
if steps > 0 then
  tokens = math.min(capacity, tokens + steps * refill)
  last = last + steps * interval
end

local allowed, retry = 0, 0
if tokens > 0 then
  allowed = 1
  tokens = tokens - 1
else
  retry = math.max(0, interval - (now - last))
end

redis.call('HSET', key, 'tokens', tokens, 'last', last)
redis.call('EXPIRE', key, ttl)
return { allowed, tokens, retry }
`)

// LimitHandler renders the response for a blocked request.
type LimitHandler func(c echo.Context, retryAfter time.Duration) error

// NewTokenBucket limits the routes it wraps with a Redis token bucket.  It
// is a pass-through when disabled or when rdb is nil, and fails open when
// Redis errors so that a broken limiter never blocks logins.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client, onLimit LimitHandler) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			res, err := bucketScript.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL/time.Second),
			).Int64Slice()
			if err != nil || len(res) != 3 {
				c.Logger().Warnf("ratelimit: key=%s result=%v err=%v", key, res, err)
				return next(c)
			}
			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprint(cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprint(res[1]))
			if res[0] == 1 {
				return next(c)
			}
			retry := time.Duration(res[2]) * time.Millisecond
			secs := int((retry + time.Second - 1) / time.Second)
			c.Response().Header().Set("Retry-After", fmt.Sprint(secs))
			c.Logger().Infof("ratelimit: blocked key=%s retry=%s", key, retry)
			return onLimit(c, retry)
		}
	}
}

func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()
	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "visitor":
		parts = append(parts, "visitor", VisitorID(c))
	default: // ip_route
		parts = append(parts, "ip", ip, "route", route)
	}
	return strings.Join(parts, ":")
}
