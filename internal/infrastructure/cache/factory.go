package cache

import (
	"github.com/pathshala/backend/internal/domain/shared"
	"github.com/pathshala/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewIdempotencyStore creates the configured idempotency store. When Redis
// is requested but unreachable the in-memory store is used instead so the
// server still starts; the degradation is logged loudly.
func NewIdempotencyStore(cfg *config.Config, logger *zap.Logger) shared.IdempotencyStore {
	if cfg.Idempotency.UseRedis {
		store, err := NewRedisIdempotencyStore(cfg.Redis)
		if err == nil {
			logger.Info("using Redis idempotency store",
				zap.String("addr", cfg.Redis.RedisAddr()))
			return store
		}
		logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
			zap.Error(err))
	}
	return NewInMemoryIdempotencyStore()
}
