package redis

import (
	"context"
	"time"

	"soulsync/internal/domain/ports/repository"
)

var _ repository.StateRepository = (*StateRepo)(nil)

const introPrefix = "soulsync:counselor:intro:"

// StateRepo holds per-session counselor flags. A session is one JWT (its jti),
// so a fresh login gets a fresh welcome message.
type StateRepo struct {
	client RedisClient
	now    func() time.Time
}

func NewStateRepo(client RedisClient) *StateRepo {
	return &StateRepo{client: client, now: time.Now}
}

// MarkIntroSent is SETNX with ttl: only the first caller per session sees true.
func (s *StateRepo) MarkIntroSent(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return s.client.SetNX(ctx, introPrefix+sessionID, s.now().UTC().Format(time.RFC3339), ttl)
}

func (s *StateRepo) ClearIntro(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.client.Del(ctx, introPrefix+sessionID)
}
