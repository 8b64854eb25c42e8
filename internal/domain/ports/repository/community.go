package repository

import (
	"context"
	"time"

	"soulsync/internal/domain/model"
)

type CommunityRepository interface {
	Create(ctx context.Context, tx Tx, p *model.Post) error
	// CountSince counts the user's posts created at or after since.
	CountSince(ctx context.Context, tx Tx, userID string, since time.Time) (int, error)
	// ListAll returns the feed oldest first, with usernames resolved.
	ListAll(ctx context.Context, tx Tx) ([]*model.Post, error)
	DeleteOlderThan(ctx context.Context, tx Tx, cutoff time.Time) (int64, error)
}
