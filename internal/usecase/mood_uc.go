package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"soulsync/internal/domain"
	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
	"soulsync/internal/infra/logging"
	"soulsync/internal/infra/metrics"
)

// maxRangeDays bounds a dashboard query.
const maxRangeDays = 366

var _ MoodUseCase = (*moodUC)(nil)

// MoodUseCase handles the once-a-day check-in and the dashboard.
type MoodUseCase interface {
	SubmitToday(ctx context.Context, userID, mood string) (*model.MoodEntry, error)
	// Today returns domain.ErrNoMoodToday when the user has not checked in.
	Today(ctx context.Context, userID string) (*model.MoodEntry, error)
	HasSubmittedToday(ctx context.Context, userID string) (bool, error)
	Range(ctx context.Context, userID string, from, to time.Time) ([]*model.MoodEntry, error)
	Stats(ctx context.Context, userID string, from, to time.Time) (model.MoodStats, error)
}

type moodUC struct {
	moods repository.MoodRepository
	log   *zerolog.Logger
}

func NewMoodUseCase(moods repository.MoodRepository, logger *zerolog.Logger) MoodUseCase {
	return &moodUC{moods: moods, log: logger}
}

func (u *moodUC) SubmitToday(ctx context.Context, userID, mood string) (*model.MoodEntry, error) {
	defer logging.TraceDuration(u.log, "MoodUC.SubmitToday")()

	m, err := model.ParseDailyMood(mood)
	if err != nil {
		return nil, err
	}
	e, err := model.NewMoodEntry(userID, m, time.Now())
	if err != nil {
		return nil, err
	}
	if err := u.moods.Create(ctx, repository.NoTX, e); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrMoodAlreadySubmitted
		}
		return nil, fmt.Errorf("save mood: %w", err)
	}
	metrics.IncMoodSubmitted(string(m))
	return e, nil
}

func (u *moodUC) Today(ctx context.Context, userID string) (*model.MoodEntry, error) {
	defer logging.TraceDuration(u.log, "MoodUC.Today")()
	return todayMood(ctx, u.moods, userID)
}

func (u *moodUC) HasSubmittedToday(ctx context.Context, userID string) (bool, error) {
	defer logging.TraceDuration(u.log, "MoodUC.HasSubmittedToday")()
	_, err := todayMood(ctx, u.moods, userID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNoMoodToday):
		return false, nil
	}
	return false, err
}

func (u *moodUC) Range(ctx context.Context, userID string, from, to time.Time) ([]*model.MoodEntry, error) {
	defer logging.TraceDuration(u.log, "MoodUC.Range")()
	from, to = model.StartOfDay(from), model.StartOfDay(to)
	if to.Before(from) || to.Sub(from) > maxRangeDays*24*time.Hour {
		return nil, domain.ErrInvalidArgument
	}
	return u.moods.ListRange(ctx, repository.NoTX, userID, from, to)
}

// Stats aggregates the range; the streak is counted back from to.
func (u *moodUC) Stats(ctx context.Context, userID string, from, to time.Time) (model.MoodStats, error) {
	defer logging.TraceDuration(u.log, "MoodUC.Stats")()
	list, err := u.Range(ctx, userID, from, to)
	if err != nil {
		return model.MoodStats{}, err
	}
	entries := make([]model.MoodEntry, 0, len(list))
	for _, e := range list {
		entries = append(entries, *e)
	}
	return model.ComputeMoodStats(entries, to), nil
}

func todayMood(ctx context.Context, moods repository.MoodRepository, userID string) (*model.MoodEntry, error) {
	e, err := moods.FindByDate(ctx, repository.NoTX, userID, today())
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrNoMoodToday
	}
	return e, err
}
