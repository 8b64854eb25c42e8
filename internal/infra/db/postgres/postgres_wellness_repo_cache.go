package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
	"soulsync/internal/infra/metrics"
	red "soulsync/internal/infra/redis"
)

var _ repository.WellnessRepository = (*wellnessRepoCacheDecorator)(nil)

type wellnessRepoCacheDecorator struct {
	inner repository.WellnessRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewWellnessRepoCacheDecorator(inner repository.WellnessRepository, cache red.RedisClient, ttl time.Duration) repository.WellnessRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &wellnessRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func wellnessKey(m model.DailyMood) string { return fmt.Sprintf("wellness:mood:%s", m) }

func (d *wellnessRepoCacheDecorator) ListByMood(ctx context.Context, tx repository.Tx, mood model.DailyMood) ([]*model.Exercise, error) {
	key := wellnessKey(mood)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var list []*model.Exercise
		if json.Unmarshal([]byte(val), &list) == nil {
			metrics.IncCacheRequest("wellness", metrics.CacheHit)
			return list, nil
		}
	}

	metrics.IncCacheRequest("wellness", metrics.CacheMiss)
	list, err := d.inner.ListByMood(ctx, tx, mood)
	if err != nil {
		return nil, err
	}
	// An empty catalog is not cached so a later seed shows up immediately.
	if len(list) > 0 {
		b, _ := json.Marshal(list)
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return list, nil
}

func (d *wellnessRepoCacheDecorator) Upsert(ctx context.Context, tx repository.Tx, e *model.Exercise) error {
	_ = d.cache.Del(ctx, wellnessKey(e.Mood))
	return d.inner.Upsert(ctx, tx, e)
}
