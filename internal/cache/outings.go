package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"

	"palanquee-backend/internal/domain"
	"palanquee-backend/internal/logger"
)

const listKeyPrefix = "outings:list:"

// OutingCache is a read-through cache for outing listings. Misses and cache
// errors are both reported as a plain miss; the caller falls back to the
// database, so a dead Redis only costs latency.
type OutingCache interface {
	GetList(ctx context.Context, key string) ([]domain.Outing, int32, bool)
	SetList(ctx context.Context, key string, outings []domain.Outing, total int32)
	Invalidate(ctx context.Context)
}

type cachedList struct {
	Outings []domain.Outing `json:"outings"`
	Total   int32           `json:"total"`
}

type redisOutingCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisOutingCache(client *redis.Client, ttl time.Duration) OutingCache {
	return &redisOutingCache{client: client, ttl: ttl}
}

func (c *redisOutingCache) GetList(ctx context.Context, key string) ([]domain.Outing, int32, bool) {
	data, err := c.client.Get(ctx, listKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, 0, false
	}
	if err != nil {
		logger.Warn("Outing cache read failed", "key", key, "error", err)
		return nil, 0, false
	}

	var entry cachedList
	if err := json.Unmarshal(data, &entry); err != nil {
		logger.Warn("Outing cache entry corrupt", "key", key, "error", err)
		return nil, 0, false
	}
	return entry.Outings, entry.Total, true
}

func (c *redisOutingCache) SetList(ctx context.Context, key string, outings []domain.Outing, total int32) {
	data, err := json.Marshal(cachedList{Outings: outings, Total: total})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, listKeyPrefix+key, data, c.ttl).Err(); err != nil {
		logger.Warn("Outing cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops every cached listing. Listings embed confirmed counts, so
// reservation mutations invalidate too, not just outing edits.
func (c *redisOutingCache) Invalidate(ctx context.Context) {
	keys, err := c.client.Keys(ctx, listKeyPrefix+"*").Result()
	if err != nil {
		logger.Warn("Outing cache invalidation scan failed", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn("Outing cache invalidation failed", "error", err)
	}
}

// noopOutingCache is used when Redis is not configured.
type noopOutingCache struct{}

func NewNoopOutingCache() OutingCache {
	return noopOutingCache{}
}

func (noopOutingCache) GetList(context.Context, string) ([]domain.Outing, int32, bool) {
	return nil, 0, false
}
func (noopOutingCache) SetList(context.Context, string, []domain.Outing, int32) {}
func (noopOutingCache) Invalidate(context.Context)                              {}
