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
	"soulsync/internal/infra/security"
)

// conversationWindow is how many recent turns are kept in the cache entry.
const conversationWindow = 50

var _ repository.ConversationRepository = (*conversationRepoCacheDecorator)(nil)

// conversationRepoCacheDecorator keeps the tail of each conversation in Redis.
// The cached payload is sealed with the same cipher as the table.
type conversationRepoCacheDecorator struct {
	inner  repository.ConversationRepository
	cache  red.RedisClient
	cipher security.TextCipher
	ttl    time.Duration
}

func NewConversationRepoCacheDecorator(inner repository.ConversationRepository, cache red.RedisClient, c security.TextCipher, ttl time.Duration) repository.ConversationRepository {
	if c == nil {
		c = security.PlainCipher{}
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &conversationRepoCacheDecorator{inner: inner, cache: cache, cipher: c, ttl: ttl}
}

func conversationKey(userID string) string { return fmt.Sprintf("conv:recent:%s", userID) }

func (d *conversationRepoCacheDecorator) AppendTurn(ctx context.Context, tx repository.Tx, t *model.Turn) error {
	if err := d.inner.AppendTurn(ctx, tx, t); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, conversationKey(t.UserID))
	return nil
}

func (d *conversationRepoCacheDecorator) RecentTurns(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.Turn, error) {
	if tx != nil || limit > conversationWindow {
		metrics.IncCacheRequest("conversation", metrics.CacheBypass)
		return d.inner.RecentTurns(ctx, tx, userID, limit)
	}
	if limit <= 0 {
		return nil, nil
	}
	key := conversationKey(userID)
	if turns, ok := d.load(ctx, key, userID); ok {
		metrics.IncCacheRequest("conversation", metrics.CacheHit)
		return tail(turns, limit), nil
	}

	metrics.IncCacheRequest("conversation", metrics.CacheMiss)
	turns, err := d.inner.RecentTurns(ctx, tx, userID, conversationWindow)
	if err != nil {
		return nil, err
	}
	d.save(ctx, key, userID, turns)
	return tail(turns, limit), nil
}

func (d *conversationRepoCacheDecorator) load(ctx context.Context, key, userID string) ([]*model.Turn, bool) {
	val, err := d.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	plain, err := d.cipher.Open(userID, val)
	if err != nil {
		return nil, false
	}
	var turns []*model.Turn
	if json.Unmarshal([]byte(plain), &turns) != nil {
		return nil, false
	}
	return turns, true
}

func (d *conversationRepoCacheDecorator) save(ctx context.Context, key, userID string, turns []*model.Turn) {
	b, err := json.Marshal(turns)
	if err != nil {
		return
	}
	sealed, err := d.cipher.Seal(userID, string(b))
	if err != nil {
		return
	}
	_ = d.cache.Set(ctx, key, sealed, d.ttl)
}

func tail(turns []*model.Turn, n int) []*model.Turn {
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}
