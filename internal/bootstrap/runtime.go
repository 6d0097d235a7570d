// Package bootstrap connects the dependencies shared by the command-line tools.
package bootstrap

import (
	"fmt"

	"promptly/internal/cache"
	"promptly/internal/config"
	"promptly/internal/database"
	"promptly/internal/middleware"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// WithRedis also connects the cache. A nil client is not an error.
	WithRedis bool
}

// Runtime holds the connections a tool works with.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// InitRuntime connects to the database, applying the schema per DB_SCHEMA_MODE, and
// optionally to Redis.
func InitRuntime(cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	rt := &Runtime{DB: db}
	if opts.WithRedis {
		rt.Redis = cache.InitRedis(cfg.RedisURL)
	}
	return rt, nil
}

// Close releases every connection.
func (r *Runtime) Close() {
	if sqlDB, err := r.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			middleware.Logger.Warn("closing database", "error", err)
		}
	}
	if r.Redis != nil {
		if err := r.Redis.Close(); err != nil {
			middleware.Logger.Warn("closing redis", "error", err)
		}
	}
}
