package caching

import (
	"context"
	"encoding/json"
	"time"

	"assetdesk/internal/listing"

	"go.uber.org/zap"
)

// InvalidateChannel carries the kind whose cached pages were dropped.
const InvalidateChannel = KeyPrefix + "invalidate"

// QueryKeyPrefix is the key prefix of every cached page of kind.
func QueryKeyPrefix(kind string) string {
	return KeyPrefix + "query:" + kind + ":"
}

// QueryKey is the cache key of one page.
func QueryKey(kind string, q listing.QueryState) string {
	return QueryKeyPrefix(kind) + q.Normalize().Fingerprint()
}

// CachedSource caches Query pages of an inner DataSource in Redis. Any
// successful mutation drops every cached page of the kind and announces it
// on InvalidateChannel. Cache failures are logged and never fail a request.
type CachedSource[T listing.Record] struct {
	inner listing.DataSource[T]
	cache CacheService
	kind  string
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedSource[T listing.Record](inner listing.DataSource[T], cache CacheService, kind string, ttl time.Duration, log *zap.Logger) *CachedSource[T] {
	return &CachedSource[T]{inner: inner, cache: cache, kind: kind, ttl: ttl, log: log.With(zap.String("kind", kind))}
}

func (s *CachedSource[T]) Query(ctx context.Context, q listing.QueryState) (listing.Page[T], error) {
	key := QueryKey(s.kind, q)
	if raw, err := s.cache.GetString(ctx, key); err != nil {
		s.log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	} else if raw != "" {
		var page listing.Page[T]
		if err := json.Unmarshal([]byte(raw), &page); err == nil {
			s.log.Debug("Cache hit", zap.String("key", key))
			return page, nil
		}
		s.log.Warn("Discarding undecodable cache entry", zap.String("key", key))
	}

	page, err := s.inner.Query(ctx, q)
	if err != nil {
		return page, err
	}
	if data, err := json.Marshal(page); err == nil {
		if err := s.cache.SetString(ctx, key, string(data), s.ttl); err != nil {
			s.log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return page, nil
}

func (s *CachedSource[T]) Get(ctx context.Context, id int64) (T, error) {
	return s.inner.Get(ctx, id)
}

func (s *CachedSource[T]) Insert(ctx context.Context, item T) (T, error) {
	created, err := s.inner.Insert(ctx, item)
	if err == nil {
		s.Invalidate(ctx)
	}
	return created, err
}

func (s *CachedSource[T]) Replace(ctx context.Context, id int64, partial map[string]any) (T, error) {
	updated, err := s.inner.Replace(ctx, id, partial)
	if err == nil {
		s.Invalidate(ctx)
	}
	return updated, err
}

func (s *CachedSource[T]) Remove(ctx context.Context, id int64) error {
	err := s.inner.Remove(ctx, id)
	if err == nil {
		s.Invalidate(ctx)
	}
	return err
}

// FindByKey backs uniqueness checks and always reads through.
func (s *CachedSource[T]) FindByKey(ctx context.Context, field, value string) (T, bool, error) {
	return s.inner.FindByKey(ctx, field, value)
}

// Invalidate drops the kind's cached pages and tells other instances.
func (s *CachedSource[T]) Invalidate(ctx context.Context) {
	// A cancelled request must still clear the cache it just made stale.
	ctx = context.WithoutCancel(ctx)
	n, err := s.cache.DeleteByPrefix(ctx, QueryKeyPrefix(s.kind))
	if err != nil {
		s.log.Warn("Cache invalidation failed", zap.Error(err))
	} else {
		s.log.Debug("Cache invalidated", zap.Int("keys", n))
	}
	if err := s.cache.Publish(ctx, InvalidateChannel, s.kind); err != nil {
		s.log.Warn("Publishing invalidation failed", zap.Error(err))
	}
}

var _ listing.DataSource[listing.Record] = (*CachedSource[listing.Record])(nil)
