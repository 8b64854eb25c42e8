package repository

import (
	"context"
	"time"

	"soulsync/internal/domain/model"
)

type MoodRepository interface {
	// Create fails with domain.ErrAlreadyExists when the user already has an
	// entry for that day.
	Create(ctx context.Context, tx Tx, e *model.MoodEntry) error
	FindByDate(ctx context.Context, tx Tx, userID string, day time.Time) (*model.MoodEntry, error)
	// ListRange returns entries with from <= date <= to, oldest first.
	ListRange(ctx context.Context, tx Tx, userID string, from, to time.Time) ([]*model.MoodEntry, error)
}
