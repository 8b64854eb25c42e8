package repository

import (
	"context"

	"soulsync/internal/domain/model"
)

type WellnessRepository interface {
	// ListByMood returns the exercises for a mood ordered by their position.
	ListByMood(ctx context.Context, tx Tx, mood model.DailyMood) ([]*model.Exercise, error)
	Upsert(ctx context.Context, tx Tx, e *model.Exercise) error
}
