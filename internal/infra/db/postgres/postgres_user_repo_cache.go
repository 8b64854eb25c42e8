package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
	"soulsync/internal/infra/metrics"
	red "soulsync/internal/infra/redis"
)

var _ repository.UserRepository = (*userRepoCacheDecorator)(nil)

// userRepoCacheDecorator caches users by id. The device key holds only the
// user id so a spam state write has a single key to invalidate.
type userRepoCacheDecorator struct {
	inner repository.UserRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewUserRepoCacheDecorator(inner repository.UserRepository, cache red.RedisClient, ttl time.Duration) repository.UserRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &userRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func userIDKey(id string) string         { return fmt.Sprintf("user:id:%s", id) }
func userDeviceKey(device string) string { return fmt.Sprintf("user:device:%s", device) }

func (d *userRepoCacheDecorator) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	_ = d.cache.Del(ctx, userIDKey(u.ID), userDeviceKey(u.DeviceID))
	return d.inner.Save(ctx, tx, u)
}

func (d *userRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	// Reads inside a transaction must see the transaction's view.
	if tx != nil {
		return d.inner.FindByID(ctx, tx, id)
	}
	key := userIDKey(id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		var user model.User
		if json.Unmarshal([]byte(val), &user) == nil {
			metrics.IncCacheRequest("user", metrics.CacheHit)
			return &user, nil
		}
	}

	metrics.IncCacheRequest("user", metrics.CacheMiss)
	user, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	d.store(ctx, user)
	return user, nil
}

func (d *userRepoCacheDecorator) FindByDeviceID(ctx context.Context, tx repository.Tx, deviceID string) (*model.User, error) {
	if tx == nil {
		id, err := d.cache.Get(ctx, userDeviceKey(deviceID))
		if err == nil && id != "" {
			return d.FindByID(ctx, nil, id)
		}
		if err != nil && !errors.Is(err, red.Nil) {
			metrics.IncCacheRequest("user_device", metrics.CacheError)
		}
	}
	metrics.IncCacheRequest("user_device", metrics.CacheMiss)
	user, err := d.inner.FindByDeviceID(ctx, tx, deviceID)
	if err != nil {
		return nil, err
	}
	d.store(ctx, user)
	return user, nil
}

func (d *userRepoCacheDecorator) store(ctx context.Context, user *model.User) {
	if user == nil {
		return
	}
	b, err := json.Marshal(user)
	if err != nil {
		return
	}
	_ = d.cache.Set(ctx, userIDKey(user.ID), b, d.ttl)
	_ = d.cache.Set(ctx, userDeviceKey(user.DeviceID), user.ID, d.ttl)
}

// Pass-through methods that don't need caching
func (d *userRepoCacheDecorator) ExistsUsername(ctx context.Context, tx repository.Tx, username string) (bool, error) {
	return d.inner.ExistsUsername(ctx, tx, username)
}

func (d *userRepoCacheDecorator) LockSpamState(ctx context.Context, tx repository.Tx, userID string) (model.SpamState, error) {
	return d.inner.LockSpamState(ctx, tx, userID)
}

func (d *userRepoCacheDecorator) UpdateSpamState(ctx context.Context, tx repository.Tx, userID string, st model.SpamState) error {
	if err := d.inner.UpdateSpamState(ctx, tx, userID, st); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, userIDKey(userID))
	return nil
}
