//go:build !integration

package api

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"soulsync/internal/domain"
	"soulsync/internal/domain/model"
	"soulsync/internal/infra/i18n"
	"soulsync/internal/usecase"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func newTestTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}
	return tr
}

// ---- use case stubs ----

type stubUsers struct {
	users map[string]*model.User
}

func (s *stubUsers) LoginWithDevice(ctx context.Context, in usecase.LoginInput) (*model.User, error) {
	if in.DeviceID == "" {
		return nil, domain.ErrInvalidArgument
	}
	for _, u := range s.users {
		if u.DeviceID == in.DeviceID {
			return u, nil
		}
	}
	u, err := model.NewUser("", "StormVale123", in.DeviceID, model.Level(in.Level), in.ClassOrCourse, model.Persona(in.AssistantType))
	if err != nil {
		return nil, err
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *stubUsers) Get(ctx context.Context, id string) (*model.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

type stubMoods struct {
	usecase.MoodUseCase
	submitted map[string]*model.MoodEntry
	rangeFrom time.Time
	rangeTo   time.Time
}

func (s *stubMoods) SubmitToday(ctx context.Context, userID, mood string) (*model.MoodEntry, error) {
	if _, ok := s.submitted[userID]; ok {
		return nil, domain.ErrMoodAlreadySubmitted
	}
	m, err := model.ParseDailyMood(mood)
	if err != nil {
		return nil, err
	}
	e, _ := model.NewMoodEntry(userID, m, time.Now())
	s.submitted[userID] = e
	return e, nil
}

func (s *stubMoods) Today(ctx context.Context, userID string) (*model.MoodEntry, error) {
	if e, ok := s.submitted[userID]; ok {
		return e, nil
	}
	return nil, domain.ErrNoMoodToday
}

func (s *stubMoods) HasSubmittedToday(ctx context.Context, userID string) (bool, error) {
	_, ok := s.submitted[userID]
	return ok, nil
}

func (s *stubMoods) Range(ctx context.Context, userID string, from, to time.Time) ([]*model.MoodEntry, error) {
	s.rangeFrom, s.rangeTo = from, to
	return nil, nil
}

func (s *stubMoods) Stats(ctx context.Context, userID string, from, to time.Time) (model.MoodStats, error) {
	return model.ComputeMoodStats(nil, to), nil
}

type stubCounselor struct {
	usecase.CounselorUseCase
	mu       sync.Mutex
	sessions []string
}

func (s *stubCounselor) Reply(ctx context.Context, userID, text, mood string) (*usecase.CounselorReply, error) {
	if text == "boom" {
		panic("engine exploded")
	}
	return &usecase.CounselorReply{Text: "I'm listening.", Mood: model.ParseChatMood(mood), TypingDelay: 2 * time.Second}, nil
}

func (s *stubCounselor) Intro(ctx context.Context, userID, sessionID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sessionID)
	return "Good Morning", true, nil
}

type stubChat struct {
	err error
}

func (s *stubChat) Ask(ctx context.Context, userID string, in usecase.AskInput) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "hello " + in.Message, nil
}

type stubCommunity struct {
	usecase.CommunityUseCase
	err error
}

func (s *stubCommunity) Post(ctx context.Context, userID, text string) (*model.Post, error) {
	if s.err != nil {
		return nil, s.err
	}
	return model.NewPost(userID, text, time.Now())
}

func (s *stubCommunity) List(ctx context.Context) ([]*model.Post, error) {
	p, _ := model.NewPost("u-1", "hi", time.Now())
	p.Username = "EmberNova417"
	return []*model.Post{p}, nil
}

type stubSessions struct{}

func (stubSessions) Book(ctx context.Context, in usecase.BookInput) (*model.SessionBooking, error) {
	return model.NewSessionBooking(in.Username, in.Phone, in.Problem, in.SessionType)
}

type stubWellness struct{}

func (stubWellness) Today(ctx context.Context, userID string) (model.DailyMood, []*model.Exercise, error) {
	return "", nil, domain.ErrNoMoodToday
}

// ---- limiter ----

type countingLimiter struct {
	mu   sync.Mutex
	hits map[string]int
	err  error
}

func (l *countingLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hits[key]++
	return l.hits[key] <= limit, nil
}
