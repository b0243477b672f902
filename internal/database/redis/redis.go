package redis

import (
	"context"
	"time"

	"github.com/chngmn/Quizly-server/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Client *redis.Client

// InitRedis connects the shared client. An empty address leaves Client nil
// and caching disabled.
func InitRedis(cfg *config.RedisConfig) error {
	if cfg.Address == "" {
		log.Warn().Msg("REDIS_ADDR is empty, caching is disabled")
		return nil
	}

	Client = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Client.Ping(ctx).Err(); err != nil {
		Client.Close()
		Client = nil
		return err
	}

	log.Info().Str("addr", cfg.Address).Msg("connected to Redis")
	return nil
}

func Close() {
	if Client != nil {
		if err := Client.Close(); err != nil {
			log.Error().Err(err).Msg("error closing Redis client")
		}
	}
}
