//go:build !integration

package usecase_test

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"soulsync/internal/domain"
	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/adapter"
	"soulsync/internal/domain/ports/repository"
)

// =============================
// Adapters
// =============================

// ---- Mock AIServiceAdapter ----

type MockAI struct {
	mu sync.Mutex

	ChatWithUsageFunc func(ctx context.Context, model string, msgs []adapter.Message) (string, adapter.Usage, error)
	CountTokensFunc   func(ctx context.Context, model string, msgs []adapter.Message) (int, error)

	// last prompt seen by ChatWithUsage
	Prompts [][]adapter.Message
}

var _ adapter.AIServiceAdapter = (*MockAI)(nil)

func (m *MockAI) ListModels(ctx context.Context) ([]string, error) {
	return []string{"gemini-2.0-flash"}, nil
}

func (m *MockAI) GetModelInfo(name string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{Name: name}, nil
}

func (m *MockAI) CountTokens(ctx context.Context, model string, msgs []adapter.Message) (int, error) {
	if m.CountTokensFunc != nil {
		return m.CountTokensFunc(ctx, model, msgs)
	}
	return len(msgs), nil
}

func (m *MockAI) Chat(ctx context.Context, model string, msgs []adapter.Message) (string, error) {
	s, _, err := m.ChatWithUsage(ctx, model, msgs)
	return s, err
}

func (m *MockAI) ChatWithUsage(ctx context.Context, model string, msgs []adapter.Message) (string, adapter.Usage, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, append([]adapter.Message(nil), msgs...))
	m.mu.Unlock()
	if m.ChatWithUsageFunc != nil {
		return m.ChatWithUsageFunc(ctx, model, msgs)
	}
	return "echo: " + msgs[len(msgs)-1].Content, adapter.Usage{PromptTokens: 3, CompletionTokens: 2, TotalTokens: 5}, nil
}

// ---- Mock Notifier ----

type sentAlert struct {
	ChatID int64
	Text   string
}

type MockNotifier struct {
	mu   sync.Mutex
	Sent []sentAlert

	SendMessageFunc func(ctx context.Context, chatID int64, text string) error
}

var _ adapter.Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	if m.SendMessageFunc != nil {
		if err := m.SendMessageFunc(ctx, chatID, text); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentAlert{ChatID: chatID, Text: text})
	return nil
}

// ---- Inline dispatcher ----

// inlineDispatcher runs tasks synchronously; SubmitErr simulates a full queue.
type inlineDispatcher struct {
	SubmitErr error
	Errs      []error
}

func (d *inlineDispatcher) Submit(task func(ctx context.Context) error) error {
	if d.SubmitErr != nil {
		return d.SubmitErr
	}
	d.Errs = append(d.Errs, task(context.Background()))
	return nil
}

// =============================
// Repositories
// =============================

// ---- In-memory UserRepository ----

type MockUserRepo struct {
	mu       sync.Mutex
	byID     map[string]*model.User
	byDevice map[string]string

	// TakenNames makes ExistsUsername report true for these names.
	TakenNames map[string]bool
	SaveErr    error
	SpamWrites int
}

var _ repository.UserRepository = (*MockUserRepo)(nil)

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{
		byID:       make(map[string]*model.User),
		byDevice:   make(map[string]string),
		TakenNames: make(map[string]bool),
	}
}

func (m *MockUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byDevice[u.DeviceID]; ok && id != u.ID {
		return domain.ErrAlreadyExists
	}
	cp := *u
	m.byID[u.ID] = &cp
	m.byDevice[u.DeviceID] = u.ID
	return nil
}

func (m *MockUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *MockUserRepo) FindByDeviceID(ctx context.Context, tx repository.Tx, deviceID string) (*model.User, error) {
	m.mu.Lock()
	id, ok := m.byDevice[deviceID]
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return m.FindByID(ctx, tx, id)
}

func (m *MockUserRepo) ExistsUsername(ctx context.Context, tx repository.Tx, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TakenNames[username] {
		return true, nil
	}
	for _, u := range m.byID {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepo) LockSpamState(ctx context.Context, tx repository.Tx, userID string) (model.SpamState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return model.SpamState{}, domain.ErrNotFound
	}
	return u.Spam, nil
}

func (m *MockUserRepo) UpdateSpamState(ctx context.Context, tx repository.Tx, userID string, st model.SpamState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Spam = st
	m.SpamWrites++
	return nil
}

// seedUser stores a valid user and returns it.
func seedUser(repo *MockUserRepo, id, name string, persona model.Persona) *model.User {
	u, err := model.NewUser(id, name, "device-"+id, model.LevelCollege, "Computer Science", persona)
	if err != nil {
		panic(err)
	}
	_ = repo.Save(context.Background(), repository.NoTX, u)
	return u
}

// ---- In-memory MoodRepository ----

type MockMoodRepo struct {
	mu      sync.Mutex
	entries map[string]*model.MoodEntry

	FindErr error
}

var _ repository.MoodRepository = (*MockMoodRepo)(nil)

func NewMockMoodRepo() *MockMoodRepo {
	return &MockMoodRepo{entries: make(map[string]*model.MoodEntry)}
}

func moodKey(userID string, day time.Time) string {
	return userID + "|" + day.Format("2006-01-02")
}

func (m *MockMoodRepo) Create(ctx context.Context, tx repository.Tx, e *model.MoodEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := moodKey(e.UserID, e.Date)
	if _, ok := m.entries[k]; ok {
		return domain.ErrAlreadyExists
	}
	cp := *e
	m.entries[k] = &cp
	return nil
}

func (m *MockMoodRepo) FindByDate(ctx context.Context, tx repository.Tx, userID string, day time.Time) (*model.MoodEntry, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[moodKey(userID, day)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *MockMoodRepo) ListRange(ctx context.Context, tx repository.Tx, userID string, from, to time.Time) ([]*model.MoodEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.MoodEntry
	for _, e := range m.entries {
		if e.UserID != userID || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// seedMood stores a check-in for the given day.
func seedMood(repo *MockMoodRepo, userID string, mood model.DailyMood, day time.Time) {
	e, err := model.NewMoodEntry(userID, mood, day)
	if err != nil {
		panic(err)
	}
	_ = repo.Create(context.Background(), repository.NoTX, e)
}

// ---- In-memory ConversationRepository ----

type MockConversationRepo struct {
	mu    sync.Mutex
	turns []*model.Turn
	next  int64

	AppendErr error
}

var _ repository.ConversationRepository = (*MockConversationRepo)(nil)

func NewMockConversationRepo() *MockConversationRepo { return &MockConversationRepo{} }

func (m *MockConversationRepo) AppendTurn(ctx context.Context, tx repository.Tx, t *model.Turn) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	t.ID = m.next
	cp := *t
	m.turns = append(m.turns, &cp)
	return nil
}

func (m *MockConversationRepo) RecentTurns(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var mine []*model.Turn
	for _, t := range m.turns {
		if t.UserID == userID {
			cp := *t
			mine = append(mine, &cp)
		}
	}
	if len(mine) > limit {
		mine = mine[len(mine)-limit:]
	}
	return mine, nil
}

// ---- In-memory CommunityRepository ----

type MockCommunityRepo struct {
	mu    sync.Mutex
	posts []*model.Post

	// Recent overrides CountSince when >= 0.
	Recent int
}

var _ repository.CommunityRepository = (*MockCommunityRepo)(nil)

func NewMockCommunityRepo() *MockCommunityRepo { return &MockCommunityRepo{Recent: -1} }

func (m *MockCommunityRepo) Create(ctx context.Context, tx repository.Tx, p *model.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.posts = append(m.posts, &cp)
	return nil
}

func (m *MockCommunityRepo) CountSince(ctx context.Context, tx repository.Tx, userID string, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Recent >= 0 {
		return m.Recent, nil
	}
	n := 0
	for _, p := range m.posts {
		if p.UserID == userID && !p.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (m *MockCommunityRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Post, 0, len(m.posts))
	for _, p := range m.posts {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockCommunityRepo) DeleteOlderThan(ctx context.Context, tx repository.Tx, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.posts[:0]
	var n int64
	for _, p := range m.posts {
		if p.CreatedAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, p)
	}
	m.posts = kept
	return n, nil
}

// ---- In-memory SessionRepository ----

type MockSessionRepo struct {
	mu   sync.Mutex
	byID map[string]*model.SessionBooking
}

var _ repository.SessionRepository = (*MockSessionRepo)(nil)

func NewMockSessionRepo() *MockSessionRepo {
	return &MockSessionRepo{byID: make(map[string]*model.SessionBooking)}
}

func (m *MockSessionRepo) Save(ctx context.Context, tx repository.Tx, b *model.SessionBooking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.byID[b.ID] = &cp
	return nil
}

func (m *MockSessionRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.SessionBooking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// ---- In-memory WellnessRepository ----

type MockWellnessRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Exercise
}

var _ repository.WellnessRepository = (*MockWellnessRepo)(nil)

func NewMockWellnessRepo() *MockWellnessRepo {
	return &MockWellnessRepo{byID: make(map[string]*model.Exercise)}
}

func (m *MockWellnessRepo) ListByMood(ctx context.Context, tx repository.Tx, mood model.DailyMood) ([]*model.Exercise, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Exercise
	for _, e := range m.byID {
		if e.Mood == mood {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *MockWellnessRepo) Upsert(ctx context.Context, tx repository.Tx, e *model.Exercise) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.byID[e.ID] = &cp
	return nil
}

// ---- In-memory StateRepository ----

type MockStateRepo struct {
	mu   sync.Mutex
	sent map[string]bool

	MarkErr error
}

var _ repository.StateRepository = (*MockStateRepo)(nil)

func NewMockStateRepo() *MockStateRepo { return &MockStateRepo{sent: make(map[string]bool)} }

func (m *MockStateRepo) MarkIntroSent(ctx context.Context, sessionID string, ttl time.Duration) (bool, error) {
	if m.MarkErr != nil {
		return false, m.MarkErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sent[sessionID] {
		return false, nil
	}
	m.sent[sessionID] = true
	return true, nil
}

func (m *MockStateRepo) ClearIntro(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sent, sessionID)
	return nil
}

// ---- Transaction manager ----

type MockTxManager struct {
	WithTxFunc func(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error
	Calls      int
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

var _ repository.TransactionManager = (*MockTxManager)(nil)

// WithTx runs fn immediately with NoTX unless WithTxFunc is set.
func (m *MockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.Calls++
	if m.WithTxFunc != nil {
		return m.WithTxFunc(ctx, txOpt, fn)
	}
	return fn(ctx, repository.NoTX)
}

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}
