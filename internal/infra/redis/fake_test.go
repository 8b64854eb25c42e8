//go:build !integration

package redis

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// memClient is an in-memory RedisClient with lazy expiry.
type memClient struct {
	mu   sync.Mutex
	now  func() time.Time
	vals map[string]string
	exp  map[string]time.Time
}

func newMemClient() *memClient {
	return &memClient{now: time.Now, vals: map[string]string{}, exp: map[string]time.Time{}}
}

func (m *memClient) expired(key string) bool {
	if t, ok := m.exp[key]; ok && !m.now().Before(t) {
		delete(m.vals, key)
		delete(m.exp, key)
		return true
	}
	return false
}

func (m *memClient) Ping(context.Context) error { return nil }

func (m *memClient) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals[key] = fmt.Sprint(value)
	delete(m.exp, key)
	if ttl > 0 {
		m.exp[key] = m.now().Add(ttl)
	}
	return nil
}

func (m *memClient) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	m.expired(key)
	_, exists := m.vals[key]
	m.mu.Unlock()
	if exists {
		return false, nil
	}
	return true, m.Set(ctx, key, value, ttl)
}

func (m *memClient) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expired(key)
	v, ok := m.vals[key]
	if !ok {
		return "", Nil
	}
	return v, nil
}

func (m *memClient) Incr(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expired(key)
	var n int64
	fmt.Sscan(m.vals[key], &n)
	n++
	m.vals[key] = fmt.Sprint(n)
	return n, nil
}

func (m *memClient) Expire(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vals[key]; ok {
		m.exp[key] = m.now().Add(ttl)
	}
	return nil
}

func (m *memClient) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.vals, k)
		delete(m.exp, k)
	}
	return nil
}

func (m *memClient) Close() error { return nil }

var _ RedisClient = (*memClient)(nil)
