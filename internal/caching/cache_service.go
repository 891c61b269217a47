package caching

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix namespaces every key and channel this service writes.
const KeyPrefix = "assetdesk:"

type CacheService interface {
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	// GetString returns "" with a nil error on a cache miss.
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	// DeleteByPrefix removes every key starting with prefix and reports how
	// many were removed.
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)

	Publish(ctx context.Context, channel, message string) error
	// Subscribe calls handle for each message on channel until ctx is done.
	Subscribe(ctx context.Context, channel string, handle func(message string)) error

	Ping(ctx context.Context) error
	Close() error
}

type redisCacheService struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisCacheService(addr, password string, db int, log *zap.Logger) CacheService {
	// Accept redis://host:port as well as host:port
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn("Redis ping failed on initialization", zap.String("addr", parsedAddr), zap.Error(pingErr))
	} else {
		log.Info("Redis connection established", zap.String("addr", parsedAddr), zap.Int("db", db))
	}

	return &redisCacheService{client: client, log: log}
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil // cache miss
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// DeleteByPrefix walks the keyspace with SCAN so large caches do not block
// the server the way KEYS would.
func (r *redisCacheService) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	iter := r.client.Scan(ctx, 0, prefix+"*", 200).Iterator()
	var batch []string
	removed := 0
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := r.client.Del(ctx, batch...).Result()
		removed += int(n)
		batch = batch[:0]
		return err
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, err
	}
	return removed, flush()
}

func (r *redisCacheService) Publish(ctx context.Context, channel, message string) error {
	return r.client.Publish(ctx, channel, message).Err()
}

func (r *redisCacheService) Subscribe(ctx context.Context, channel string, handle func(message string)) error {
	sub := r.client.Subscribe(ctx, channel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before reporting success.
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			handle(msg.Payload)
		}
	}
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}
