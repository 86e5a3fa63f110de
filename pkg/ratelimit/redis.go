package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RedisLimiter is a sliding-window limiter shared across processes,
// implemented with one sorted set per key where scores are hit
// timestamps. When Redis is unreachable the request is allowed; rate
// limiting degrades open rather than taking the API down with it.
type RedisLimiter struct {
	client  *redis.Client
	window  time.Duration
	maxHits int
}

func NewRedisLimiter(client *redis.Client, window time.Duration, maxHits int) *RedisLimiter {
	return &RedisLimiter{
		client:  client,
		window:  window,
		maxHits: maxHits,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) bool {
	now := time.Now()
	windowStart := now.Add(-l.window)
	redisKey := "ratelimit:" + key

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	count := pipe.ZCard(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Msg("Rate limit check failed, allowing request")
		return true
	}

	if count.Val() >= int64(l.maxHits) {
		return false
	}

	pipe = l.client.TxPipeline()
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.New().String(),
	})
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Msg("Rate limit record failed")
	}
	return true
}
