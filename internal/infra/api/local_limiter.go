package api

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"soulsync/internal/infra/logging"
)

type window struct {
	start time.Time
	count int
}

// LocalLimiter is a per-process fixed-window counter. The LRU bounds memory;
// an evicted client simply starts a fresh window.
type LocalLimiter struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *window]
	now   func() time.Time
}

func NewLocalLimiter(size int) (*LocalLimiter, error) {
	if size <= 0 {
		size = 10_000
	}
	c, err := lru.New[string, *window](size)
	if err != nil {
		return nil, err
	}
	return &LocalLimiter{cache: c, now: time.Now}, nil
}

func (l *LocalLimiter) Allow(_ context.Context, key string, limit int, win time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.cache.Get(key)
	if !ok || now.Sub(w.start) >= win {
		w = &window{start: now}
		l.cache.Add(key, w)
	}
	w.count++
	return w.count <= limit, nil
}

// FallbackLimiter asks primary and counts locally while primary errors, so a
// Redis outage degrades limits to per-instance instead of dropping them.
type FallbackLimiter struct {
	primary  Limiter
	fallback Limiter
	log      *zerolog.Logger
}

func NewFallbackLimiter(primary, fallback Limiter, logger *zerolog.Logger) *FallbackLimiter {
	return &FallbackLimiter{primary: primary, fallback: fallback, log: logger}
}

func (f *FallbackLimiter) Allow(ctx context.Context, key string, limit int, win time.Duration) (bool, error) {
	ok, err := f.primary.Allow(ctx, key, limit, win)
	if err == nil {
		return ok, nil
	}
	logging.With(ctx, f.log).Debug().Err(err).Msg("rate limiter primary failed; counting locally")
	return f.fallback.Allow(ctx, key, limit, win)
}
