package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
	"soulsync/internal/infra/logging"
)

var _ WellnessUseCase = (*wellnessUC)(nil)

type WellnessUseCase interface {
	// Today returns the exercises for today's check-in; without one it
	// fails with domain.ErrNoMoodToday.
	Today(ctx context.Context, userID string) (model.DailyMood, []*model.Exercise, error)
}

type wellnessUC struct {
	moods     repository.MoodRepository
	exercises repository.WellnessRepository
	log       *zerolog.Logger
}

func NewWellnessUseCase(moods repository.MoodRepository, exercises repository.WellnessRepository, logger *zerolog.Logger) WellnessUseCase {
	return &wellnessUC{moods: moods, exercises: exercises, log: logger}
}

func (u *wellnessUC) Today(ctx context.Context, userID string) (model.DailyMood, []*model.Exercise, error) {
	defer logging.TraceDuration(u.log, "WellnessUC.Today")()
	e, err := todayMood(ctx, u.moods, userID)
	if err != nil {
		return "", nil, err
	}
	list, err := u.exercises.ListByMood(ctx, repository.NoTX, e.Mood)
	if err != nil {
		return "", nil, err
	}
	return e.Mood, list, nil
}
