package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerWindow int           // Number of requests allowed per window
	Window            time.Duration // Time window for rate limiting
	KeyPrefix         string        // Redis key prefix
}

// fixedWindow counts hits per key in windows that start with the first hit
type fixedWindow struct {
	client *redis.Client
	config RateLimitConfig
}

// hit records one request and returns the count in the current window and
// the time until the window resets. The expiry is only set on a fresh key
// and all three commands run in one MULTI so a crash between them cannot
// leave a counter without a TTL.
func (fw fixedWindow) hit(ctx context.Context, client string) (int64, time.Duration, error) {
	key := fw.config.KeyPrefix + ":" + client

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := fw.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, fw.config.Window)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	reset := ttl.Val()
	if reset <= 0 {
		reset = fw.config.Window
	}
	return incr.Val(), reset, nil
}

// clientID keys the counter by remote host. RealIP runs first in the chain.
func clientID(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware limits each client to RequestsPerWindow requests per
// Window. Redis errors let the request through.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	limiter := fixedWindow{client: redisClient, config: config}
	limit := strconv.Itoa(config.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientID(r)

			count, reset, err := limiter.hit(r.Context(), client)
			if err != nil {
				logger.Error("Rate limiter unavailable", zap.Error(err), zap.String("client_id", client))
				next.ServeHTTP(w, r)
				return
			}

			remaining := int64(config.RequestsPerWindow) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(reset).Unix(), 10))

			if count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("client_id", client),
					zap.Int64("count", count),
					zap.Int("limit", config.RequestsPerWindow),
				)

				w.Header().Set("Retry-After", strconv.Itoa(int(reset.Round(time.Second).Seconds())))
				RespondWithError(w, r, http.StatusTooManyRequests, "Too many requests, slow down and try again shortly.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
