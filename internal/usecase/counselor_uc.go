package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"soulsync/internal/counselor"
	"soulsync/internal/domain"
	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
	"soulsync/internal/infra/logging"
	"soulsync/internal/infra/metrics"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

var _ CounselorUseCase = (*counselorUC)(nil)

// CounselorReply is one answer of the rule-based companion.
type CounselorReply struct {
	Text        string
	Topic       counselor.Topic
	Case        string
	Mood        model.ChatMood
	TypingDelay time.Duration
}

func (r *CounselorReply) Crisis() bool { return r.Topic == counselor.TopicCrisis }

// CounselorUseCase drives the rule-based companion conversation.
type CounselorUseCase interface {
	// Reply answers text. An empty mood falls back to today's check-in.
	Reply(ctx context.Context, userID, text, mood string) (*CounselorReply, error)
	// Intro returns the welcome message once per session; later calls
	// report sent=false and an empty text.
	Intro(ctx context.Context, userID, sessionID string) (text string, sent bool, err error)
	QuickReplies(ctx context.Context, userID, mood string) ([]string, error)
	History(ctx context.Context, userID string, limit int) ([]*model.Turn, error)
}

type counselorUC struct {
	engine   *counselor.Engine
	users    repository.UserRepository
	moods    repository.MoodRepository
	turns    repository.ConversationRepository
	state    repository.StateRepository
	tm       repository.TransactionManager
	introTTL time.Duration
	log      *zerolog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewCounselorUseCase(
	engine *counselor.Engine,
	users repository.UserRepository,
	moods repository.MoodRepository,
	turns repository.ConversationRepository,
	state repository.StateRepository,
	tm repository.TransactionManager,
	introTTL time.Duration,
	logger *zerolog.Logger,
) CounselorUseCase {
	if introTTL <= 0 {
		introTTL = 24 * time.Hour
	}
	return &counselorUC{
		engine:   engine,
		users:    users,
		moods:    moods,
		turns:    turns,
		state:    state,
		tm:       tm,
		introTTL: introTTL,
		log:      logger,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (u *counselorUC) Reply(ctx context.Context, userID, text, mood string) (*CounselorReply, error) {
	defer logging.TraceDuration(u.log, "CounselorUC.Reply")()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.ErrInvalidArgument
	}
	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	cm := u.resolveMood(ctx, userID, mood)

	r := u.engine.Reply(counselor.Input{Text: text, Mood: cm, Persona: user.Persona, Level: user.Level})

	userTurn, err := model.NewTurn(userID, model.SenderUser, text)
	if err != nil {
		return nil, err
	}
	botTurn, err := model.NewTurn(userID, model.SenderAssistant, r.Text)
	if err != nil {
		return nil, err
	}
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.turns.AppendTurn(ctx, tx, userTurn); err != nil {
			return err
		}
		return u.turns.AppendTurn(ctx, tx, botTurn)
	})
	if err != nil {
		return nil, fmt.Errorf("append turns: %w", err)
	}

	metrics.IncCounselorReply(string(r.Topic), string(cm))
	if r.Topic == counselor.TopicCrisis {
		metrics.IncCrisisDetected()
		logging.With(ctx, u.log).Warn().Str("user_id", userID).Msg("crisis language detected")
	}

	u.mu.Lock()
	delay := counselor.TypingDelay(u.rnd)
	u.mu.Unlock()

	return &CounselorReply{Text: r.Text, Topic: r.Topic, Case: r.Case, Mood: cm, TypingDelay: delay}, nil
}

func (u *counselorUC) Intro(ctx context.Context, userID, sessionID string) (string, bool, error) {
	defer logging.TraceDuration(u.log, "CounselorUC.Intro")()

	if sessionID == "" {
		return "", false, domain.ErrInvalidArgument
	}
	user, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return "", false, err
	}
	first, err := u.state.MarkIntroSent(ctx, sessionID, u.introTTL)
	if err != nil {
		return "", false, fmt.Errorf("mark intro: %w", err)
	}
	if !first {
		return "", false, nil
	}
	text := u.engine.Intro(counselor.IntroInput{
		Name:          user.Username,
		Mood:          u.resolveMood(ctx, userID, ""),
		Persona:       user.Persona,
		Level:         user.Level,
		ClassOrCourse: user.ClassOrCourse,
		Now:           time.Now(),
	})
	return text, true, nil
}

func (u *counselorUC) QuickReplies(ctx context.Context, userID, mood string) ([]string, error) {
	defer logging.TraceDuration(u.log, "CounselorUC.QuickReplies")()
	return u.engine.QuickReplies(u.resolveMood(ctx, userID, mood)), nil
}

func (u *counselorUC) History(ctx context.Context, userID string, limit int) ([]*model.Turn, error) {
	defer logging.TraceDuration(u.log, "CounselorUC.History")()
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}
	return u.turns.RecentTurns(ctx, repository.NoTX, userID, limit)
}

// resolveMood prefers the explicit chat mood, then today's check-in. A store
// failure degrades to the unknown mood so a reply is always produced.
func (u *counselorUC) resolveMood(ctx context.Context, userID, mood string) model.ChatMood {
	if m := model.ParseChatMood(mood); m != "" {
		return m
	}
	e, err := todayMood(ctx, u.moods, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNoMoodToday) {
			logging.With(ctx, u.log).Warn().Err(err).Msg("today's mood lookup failed")
		}
		return ""
	}
	return e.Mood.ChatMood()
}
