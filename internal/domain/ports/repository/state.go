package repository

import (
	"context"
	"time"
)

// StateRepository keeps short-lived per-session flags outside the process.
type StateRepository interface {
	// MarkIntroSent records that the welcome message was delivered for the
	// session. It returns true only for the first call within ttl.
	MarkIntroSent(ctx context.Context, sessionID string, ttl time.Duration) (bool, error)
	ClearIntro(ctx context.Context, sessionID string) error
}
