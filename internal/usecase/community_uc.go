package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"soulsync/internal/domain"
	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
	portuc "soulsync/internal/domain/ports/usecase"
	"soulsync/internal/infra/logging"
	"soulsync/internal/infra/metrics"
	"soulsync/internal/policy"
)

var (
	_ CommunityUseCase           = (*communityUC)(nil)
	_ portuc.CommunityMaintainer = (*communityUC)(nil)
)

// RejectionError is a posting-policy refusal. It unwraps to
// domain.ErrUserBlocked or domain.ErrSpamDetected and its message is safe to
// show to the user.
type RejectionError struct {
	Decision policy.Decision
}

func (e *RejectionError) Error() string { return e.Decision.Message() }

func (e *RejectionError) Unwrap() error {
	if e.Decision.Verdict == policy.VerdictBlocked {
		return domain.ErrUserBlocked
	}
	return domain.ErrSpamDetected
}

// CommunityUseCase is the shared feed guarded by the posting policy.
type CommunityUseCase interface {
	Post(ctx context.Context, userID, text string) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type communityUC struct {
	posts     repository.CommunityRepository
	users     repository.UserRepository
	tm        repository.TransactionManager
	retention time.Duration
	log       *zerolog.Logger
}

func NewCommunityUseCase(
	posts repository.CommunityRepository,
	users repository.UserRepository,
	tm repository.TransactionManager,
	retention time.Duration,
	logger *zerolog.Logger,
) CommunityUseCase {
	if retention <= 0 {
		retention = model.PostRetention
	}
	return &communityUC{posts: posts, users: users, tm: tm, retention: retention, log: logger}
}

// Post runs the policy and the write under the user's row lock, so
// concurrent posts from one user are judged one at a time.
func (u *communityUC) Post(ctx context.Context, userID, text string) (*model.Post, error) {
	defer logging.TraceDuration(u.log, "CommunityUC.Post")()

	now := time.Now()
	post, err := model.NewPost(userID, text, now)
	if err != nil {
		return nil, err
	}
	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	post.Username = user.Username

	var decision policy.Decision
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		st, err := u.users.LockSpamState(ctx, tx, userID)
		if err != nil {
			return err
		}
		recent, err := u.posts.CountSince(ctx, tx, userID, now.Add(-policy.BurstWindow))
		if err != nil {
			return err
		}
		decision = policy.Evaluate(st, recent, now)
		switch decision.Verdict {
		case policy.VerdictBurst:
			return u.users.UpdateSpamState(ctx, tx, userID, decision.State)
		case policy.VerdictAdmit:
			return u.posts.Create(ctx, tx, post)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("community post: %w", err)
	}

	metrics.IncCommunityPost(decision.Verdict.String())
	if decision.Admitted() {
		return post, nil
	}
	if decision.Verdict == policy.VerdictBurst {
		metrics.IncSpamStrike(decision.State.Strikes)
		logging.With(ctx, u.log).Warn().
			Int("strikes", decision.State.Strikes).
			Time("blocked_until", decision.State.BlockedUntil).
			Msg("spam burst; user blocked")
	}
	return nil, &RejectionError{Decision: decision}
}

func (u *communityUC) List(ctx context.Context) ([]*model.Post, error) {
	defer logging.TraceDuration(u.log, "CommunityUC.List")()
	return u.posts.ListAll(ctx, repository.NoTX)
}

func (u *communityUC) PurgeExpired(ctx context.Context) (int64, error) {
	defer logging.TraceDuration(u.log, "CommunityUC.PurgeExpired")()
	n, err := u.posts.DeleteOlderThan(ctx, repository.NoTX, time.Now().Add(-u.retention))
	if err != nil {
		return 0, err
	}
	metrics.AddPostsPurged(n)
	return n, nil
}
