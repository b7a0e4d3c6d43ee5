package persistence

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/helpdeskhq/helpdesk-service/internal/config"
)

// LimiterStore adapts go-redis to fiber.Storage so rate limiter counters
// survive restarts and are shared across replicas.
type LimiterStore struct {
	client *redis.Client
}

var _ fiber.Storage = (*LimiterStore)(nil)

// NewLimiterStore connects to Redis using the provided configuration.
// Returns nil when no address is configured; the limiter then falls back to
// its in-memory counters.
func NewLimiterStore(cfg config.RedisConfig, logger *zap.Logger) *LimiterStore {
	if cfg.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	}

	return &LimiterStore{client: client}
}

// Get returns the value for the key, or nil when absent.
func (s *LimiterStore) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

// Set stores the value with an optional expiration.
func (s *LimiterStore) Set(key string, val []byte, exp time.Duration) error {
	return s.client.Set(context.Background(), key, val, exp).Err()
}

// Delete removes the key.
func (s *LimiterStore) Delete(key string) error {
	return s.client.Del(context.Background(), key).Err()
}

// Reset clears all keys in the configured database.
func (s *LimiterStore) Reset() error {
	return s.client.FlushDB(context.Background()).Err()
}

// Close closes the client.
func (s *LimiterStore) Close() error {
	return s.client.Close()
}
