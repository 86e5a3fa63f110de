// Package redis owns the Redis connection. The backend runs without
// Redis; callers get a nil client when it is not configured and fall
// back to in-process alternatives.
package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/iraycd/sway-backend/internal/config"
)

// NewClient connects to Redis when configured. Returns nil when
// REDIS_URL is unset or the server is unreachable.
func NewClient(cfg *config.Config) *redis.Client {
	if cfg.RedisURL == "" {
		log.Info().Msg("Redis not configured, using in-process rate limiting")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Error().
			Err(err).
			Str("addr", cfg.RedisURL).
			Msg("Failed to establish Redis connection, using in-process rate limiting")
		client.Close()
		return nil
	}

	log.Info().Str("addr", cfg.RedisURL).Msg("Redis connection established")
	return client
}
