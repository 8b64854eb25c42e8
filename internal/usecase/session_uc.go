package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/adapter"
	"soulsync/internal/domain/ports/repository"
	"soulsync/internal/infra/logging"
	"soulsync/internal/infra/metrics"
)

var _ SessionUseCase = (*sessionUC)(nil)

// BookInput is the counseling session request form.
type BookInput struct {
	Username    string
	Phone       string
	Problem     string
	SessionType string
}

// SessionUseCase books sessions with human counselors.
type SessionUseCase interface {
	Book(ctx context.Context, in BookInput) (*model.SessionBooking, error)
}

type sessionUC struct {
	sessions   repository.SessionRepository
	notifier   adapter.Notifier
	dispatch   Dispatcher
	counselors []int64
	log        *zerolog.Logger
	dev        bool
}

// NewSessionUseCase sends a counselor alert per booking through dispatch.
// A nil dispatch or an empty counselor list disables alerts.
func NewSessionUseCase(
	sessions repository.SessionRepository,
	notifier adapter.Notifier,
	dispatch Dispatcher,
	counselorChatIDs []int64,
	logger *zerolog.Logger,
	dev bool,
) SessionUseCase {
	return &sessionUC{
		sessions:   sessions,
		notifier:   notifier,
		dispatch:   dispatch,
		counselors: append([]int64(nil), counselorChatIDs...),
		log:        logger,
		dev:        dev,
	}
}

func (u *sessionUC) Book(ctx context.Context, in BookInput) (*model.SessionBooking, error) {
	defer logging.TraceDuration(u.log, "SessionUC.Book")()

	b, err := model.NewSessionBooking(in.Username, in.Phone, in.Problem, in.SessionType)
	if err != nil {
		return nil, err
	}
	if err := u.sessions.Save(ctx, repository.NoTX, b); err != nil {
		return nil, fmt.Errorf("save booking: %w", err)
	}
	metrics.IncBooking(string(b.Type))
	logging.With(ctx, u.log).Info().
		Str("booking_id", b.ID).
		Str("phone", logging.Redact(b.Phone, u.dev)).
		Msg("session booked")

	u.notify(ctx, b)
	return b, nil
}

func (u *sessionUC) notify(ctx context.Context, b *model.SessionBooking) {
	if u.dispatch == nil || u.notifier == nil || len(u.counselors) == 0 {
		return
	}
	text := fmt.Sprintf("New %s session request\nFrom: %s\nPhone: %s\nProblem: %s",
		b.Type, b.Username, b.Phone, b.Problem)
	ids := u.counselors
	err := u.dispatch.Submit(func(ctx context.Context) error {
		var failed int
		for _, id := range ids {
			if err := u.notifier.SendMessage(ctx, id, text); err != nil {
				failed++
				metrics.IncNotification("failed")
				u.log.Warn().Err(err).Int64("chat_id", id).Str("booking_id", b.ID).Msg("counselor alert failed")
				continue
			}
			metrics.IncNotification("sent")
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d counselor alerts failed", failed, len(ids))
		}
		return nil
	})
	if err != nil {
		metrics.IncNotification("dropped")
		logging.With(ctx, u.log).Warn().Err(err).Str("booking_id", b.ID).Msg("counselor alert not queued")
	}
}
