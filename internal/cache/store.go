package cache

import (
	"context"
	"fmt"
	"time"

	"esports-stats/internal/config"
	"esports-stats/internal/constants"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

// Store is the key-value cache the manager reads through. A miss is
// ("", false, nil); errors mean the backend itself failed.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

// NewStore returns a Redis-backed store when Redis is configured and an
// in-process one otherwise.
func NewStore(cfg *config.Config, logger zerolog.Logger) (Store, error) {
	if cfg.RedisURL == "" && cfg.RedisAddr == "" {
		logger.Info().Msg("redis not configured, using in-memory cache")
		return NewMemoryStore(constants.MemoryCacheJanitorTick), nil
	}

	var opts *redis.Options
	if cfg.RedisURL != "" {
		parsed, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), constants.CacheTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// reads degrade to misses, so an unreachable cache is not fatal
		logger.Warn().Err(err).Str("addr", opts.Addr).Msg("redis ping failed, continuing without warm cache")
	} else {
		logger.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("connected to redis")
	}

	return NewRedisStore(client), nil
}

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
