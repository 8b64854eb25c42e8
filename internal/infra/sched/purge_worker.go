package sched

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	portuc "soulsync/internal/domain/ports/usecase"
	"soulsync/internal/infra/redis"
)

const purgeLockKey = "lock:community:purge"

// PurgeWorker periodically deletes community posts past their retention.
// When several instances run, the Redis lock lets only one purge per tick.
type PurgeWorker struct {
	interval time.Duration
	posts    portuc.CommunityMaintainer
	locker   redis.Locker
	log      *zerolog.Logger
}

// NewPurgeWorker accepts a nil locker for single-instance deployments.
func NewPurgeWorker(interval time.Duration, posts portuc.CommunityMaintainer, locker redis.Locker, logger *zerolog.Logger) *PurgeWorker {
	l := logger.With().Str("component", "PurgeWorker").Logger()
	return &PurgeWorker{
		interval: interval,
		posts:    posts,
		locker:   locker,
		log:      &l,
	}
}

// Run purges once at start and then on every tick until ctx is done.
func (w *PurgeWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting purge worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.purge(ctx)
	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping purge worker")
			return ctx.Err()
		case <-ticker.C:
			w.purge(ctx)
		}
	}
}

func (w *PurgeWorker) purge(ctx context.Context) {
	if w.locker != nil {
		token, err := w.locker.TryLock(ctx, purgeLockKey, w.interval)
		switch {
		case errors.Is(err, redis.ErrLockHeld):
			w.log.Debug().Msg("purge skipped; another instance holds the lock")
			return
		case err != nil:
			w.log.Warn().Err(err).Msg("purge lock unavailable")
			return
		}
		defer func() {
			if err := w.locker.Unlock(context.WithoutCancel(ctx), purgeLockKey, token); err != nil {
				w.log.Warn().Err(err).Msg("purge unlock failed")
			}
		}()
	}

	n, err := w.posts.PurgeExpired(ctx)
	if err != nil {
		w.log.Error().Err(err).Msg("purge worker error")
		return
	}
	if n > 0 {
		w.log.Info().Int64("count", n).Msg("expired community posts purged")
	}
}
