package cache

import (
	"context"

	"github.com/invoicedash/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Invalidator drops cached views after a mutation so the next read is fresh
type Invalidator struct {
	views ViewCache
	log   *zap.Logger
}

// NewInvalidator creates an invalidator over a view cache
func NewInvalidator(views ViewCache, log *zap.Logger) *Invalidator {
	return &Invalidator{views: views, log: log}
}

// Invalidate removes the cached views of path. Failures are logged, never returned.
func (i *Invalidator) Invalidate(ctx context.Context, path string) {
	deleted, err := i.views.DeletePath(ctx, path)
	if err != nil {
		logger.WithLogger(ctx, i.log).Warn("Cache invalidation failed",
			zap.String("path", path),
			zap.Error(err))
		return
	}
	logger.WithLogger(ctx, i.log).Debug("Cache invalidated",
		zap.String("path", path),
		zap.Int64("deleted_count", deleted))
}
