package config

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Ctx = context.Background()
var RedisClient *redis.Client

// ConnectRedis initializes the Redis client used by the submission rate
// limiter. Redis is optional: when no address is configured the limiter
// stays disabled and submissions are uncapped.
func ConnectRedis(cfg *Config) {
	if cfg.RedisAddr == "" {
		log.Warn().Msg("Redis not configured, submission rate limiting disabled")
		return
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0, // default DB
	})

	if _, err := RedisClient.Ping(Ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	log.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
}
