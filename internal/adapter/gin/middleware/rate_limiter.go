package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"user-service/internal/config"
)

// Token Bucket algorithm implemented in Lua for atomicity.
// Data structure: {last_refill_time, current_tokens}
const tokenBucketScript = `
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])         -- tokens per second
	local capacity = tonumber(ARGV[2])     -- max tokens in bucket
	local now = tonumber(ARGV[3])          -- current timestamp
	local requested = tonumber(ARGV[4])    -- tokens requested (always 1)

	-- Get current bucket state
	local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
	local last_refill = tonumber(bucket[1]) or now
	local tokens = tonumber(bucket[2]) or capacity

	-- Calculate tokens to add based on elapsed time
	local elapsed = math.max(0, now - last_refill)
	local tokens_to_add = elapsed * rate
	tokens = math.min(capacity, tokens + tokens_to_add)

	-- Try to consume requested tokens
	if tokens >= requested then
		tokens = tokens - requested
		redis.call('HMSET', key, 'last_refill', now, 'tokens', tokens)
		redis.call('EXPIRE', key, 60)  -- Keep bucket for 60 seconds
		return 1  -- Allow request
	else
		redis.call('HMSET', key, 'last_refill', now, 'tokens', tokens)
		redis.call('EXPIRE', key, 60)
		return 0  -- Deny request
	end
`

// RateLimiter returns a Gin middleware for rate limiting using the
// Token Bucket algorithm backed by Redis. Each method/path/client-IP
// combination gets its own bucket. Redis failures fail open.
func RateLimiter(cfg config.RateLimitConfig, redisClient *redis.Client, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.Enabled || redisClient == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("ratelimit:tb:%s:%s:%s", c.Request.Method, c.Request.URL.Path, c.ClientIP())

		now := float64(time.Now().Unix())

		allowed, err := redisClient.Eval(c.Request.Context(), tokenBucketScript, []string{key},
			cfg.RequestsPerSecond,
			cfg.BurstCapacity,
			now,
			1, // Always request 1 token
		).Int64()

		if err != nil {
			// Fail-open: a broken limiter must not take the API down
			log.Warn("rate limiter unavailable, allowing request", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		if allowed == 0 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":    http.StatusTooManyRequests,
				"message":   fmt.Sprintf("Rate limit exceeded: %.2f requests/second (burst capacity: %d)", cfg.RequestsPerSecond, cfg.BurstCapacity),
				"timestamp": time.Now().UTC(),
			})
			return
		}

		c.Next()
	}
}
