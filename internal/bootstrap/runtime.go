// Package bootstrap wires up shared process dependencies for the binaries.
package bootstrap

import (
	"fmt"

	"unimarket/internal/cache"
	"unimarket/internal/config"
	"unimarket/internal/database"
	"unimarket/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedBuiltIns bool
}

// InitRuntime connects to DB and Redis and optionally ensures built-in
// reference data (universities, categories).
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedBuiltIns {
		if err := seed.EnsureBuiltins(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed built-in reference data: %w", err)
		}
	}

	return db, r, nil
}
