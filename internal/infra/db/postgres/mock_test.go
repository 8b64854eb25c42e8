//go:build !integration

package postgres

import (
	"context"
	"time"

	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
	red "soulsync/internal/infra/redis"
)

// --- Mocks for Cache Decorator Tests ---

// mockInnerUserRepo mocks the database repository that the User decorator wraps.
type mockInnerUserRepo struct {
	SaveFunc            func(ctx context.Context, tx repository.Tx, u *model.User) error
	FindByIDFunc        func(ctx context.Context, tx repository.Tx, id string) (*model.User, error)
	FindByDeviceIDFunc  func(ctx context.Context, tx repository.Tx, deviceID string) (*model.User, error)
	ExistsUsernameFunc  func(ctx context.Context, tx repository.Tx, username string) (bool, error)
	LockSpamStateFunc   func(ctx context.Context, tx repository.Tx, userID string) (model.SpamState, error)
	UpdateSpamStateFunc func(ctx context.Context, tx repository.Tx, userID string, st model.SpamState) error
}

func (m *mockInnerUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	return m.SaveFunc(ctx, tx, u)
}
func (m *mockInnerUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	return m.FindByIDFunc(ctx, tx, id)
}
func (m *mockInnerUserRepo) FindByDeviceID(ctx context.Context, tx repository.Tx, deviceID string) (*model.User, error) {
	return m.FindByDeviceIDFunc(ctx, tx, deviceID)
}
func (m *mockInnerUserRepo) ExistsUsername(ctx context.Context, tx repository.Tx, username string) (bool, error) {
	return m.ExistsUsernameFunc(ctx, tx, username)
}
func (m *mockInnerUserRepo) LockSpamState(ctx context.Context, tx repository.Tx, userID string) (model.SpamState, error) {
	return m.LockSpamStateFunc(ctx, tx, userID)
}
func (m *mockInnerUserRepo) UpdateSpamState(ctx context.Context, tx repository.Tx, userID string, st model.SpamState) error {
	return m.UpdateSpamStateFunc(ctx, tx, userID, st)
}

type mockInnerConversationRepo struct {
	AppendTurnFunc  func(ctx context.Context, tx repository.Tx, t *model.Turn) error
	RecentTurnsFunc func(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.Turn, error)
}

func (m *mockInnerConversationRepo) AppendTurn(ctx context.Context, tx repository.Tx, t *model.Turn) error {
	return m.AppendTurnFunc(ctx, tx, t)
}
func (m *mockInnerConversationRepo) RecentTurns(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.Turn, error) {
	return m.RecentTurnsFunc(ctx, tx, userID, limit)
}

type mockInnerWellnessRepo struct {
	ListByMoodFunc func(ctx context.Context, tx repository.Tx, mood model.DailyMood) ([]*model.Exercise, error)
	UpsertFunc     func(ctx context.Context, tx repository.Tx, e *model.Exercise) error
}

func (m *mockInnerWellnessRepo) ListByMood(ctx context.Context, tx repository.Tx, mood model.DailyMood) ([]*model.Exercise, error) {
	return m.ListByMoodFunc(ctx, tx, mood)
}
func (m *mockInnerWellnessRepo) Upsert(ctx context.Context, tx repository.Tx, e *model.Exercise) error {
	return m.UpsertFunc(ctx, tx, e)
}

// mockRedisClient mocks our Redis client wrapper.
type mockRedisClient struct {
	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	SetNXFunc  func(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	DelFunc    func(ctx context.Context, keys ...string) error
	PingFunc   func(ctx context.Context) error
	IncrFunc   func(ctx context.Context, key string) (int64, error)
	ExpireFunc func(ctx context.Context, key string, expiration time.Duration) error
	CloseFunc  func() error
}

var _ red.RedisClient = &mockRedisClient{}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc == nil {
		return "", red.Nil
	}
	return m.GetFunc(ctx, key)
}
func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc == nil {
		return nil
	}
	return m.SetFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return m.SetNXFunc(ctx, key, value, expiration)
}
func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc == nil {
		return nil
	}
	return m.DelFunc(ctx, keys...)
}
func (m *mockRedisClient) Ping(ctx context.Context) error { return m.PingFunc(ctx) }
func (m *mockRedisClient) Incr(ctx context.Context, key string) (int64, error) {
	return m.IncrFunc(ctx, key)
}
func (m *mockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return m.ExpireFunc(ctx, key, expiration)
}
func (m *mockRedisClient) Close() error { return m.CloseFunc() }
