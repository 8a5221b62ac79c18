// Package bootstrap wires process-wide dependencies for the commands.
package bootstrap

import (
	"context"
	"fmt"

	"reso/internal/cache"
	"reso/internal/config"
	"reso/internal/database"
	"reso/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Runtime holds the shared connections of one process.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client

	shutdownTracing func(context.Context) error
}

// InitRuntime installs tracing and connects to the database and Redis.
// Redis is optional; a nil client disables the cache and fails rate limits open.
func InitRuntime(cfg *config.Config) (*Runtime, error) {
	shutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "reso-api",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Env,
		Enabled:        cfg.TracingEnabled,
		Exporter:       cfg.TracingExporter,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SamplerRatio:   1.0,
	})
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		_ = shutdown(context.Background())
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return &Runtime{DB: db, Redis: cache.GetClient(), shutdownTracing: shutdown}, nil
}

// Close flushes traces. Database and Redis are closed by their owners.
func (r *Runtime) Close(ctx context.Context) error {
	if r.shutdownTracing == nil {
		return nil
	}
	return r.shutdownTracing(ctx)
}
