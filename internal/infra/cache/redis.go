package cache

import (
	"github.com/agrohub-unirv/edital-hub/internal/config"
	"github.com/redis/go-redis/v9"
)

// New builds the redis client used for listing/detail caching.
func New(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
}
