package caching

import (
	"context"

	"go.uber.org/zap"
)

// ListenInvalidations drops the cached pages of every kind announced on
// InvalidateChannel by another instance, then calls onKind (which may be
// nil). A page computed before the mutation and written after the sender's
// own purge is removed this way. It blocks until ctx is done.
func ListenInvalidations(ctx context.Context, cache CacheService, log *zap.Logger, onKind func(kind string)) error {
	return cache.Subscribe(ctx, InvalidateChannel, func(kind string) {
		if kind == "" {
			return
		}
		if _, err := cache.DeleteByPrefix(ctx, QueryKeyPrefix(kind)); err != nil {
			log.Warn("Cache purge after invalidation failed", zap.String("kind", kind), zap.Error(err))
		}
		if onKind != nil {
			onKind(kind)
		}
	})
}

// PurgeAll removes every cached page. The scheduler runs it periodically.
func PurgeAll(ctx context.Context, cache CacheService) (int, error) {
	return cache.DeleteByPrefix(ctx, KeyPrefix+"query:")
}
