//go:build !integration

package redis

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	ctx := context.Background()
	mem := newMemClient()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mem.now = func() time.Time { return clock }
	rl := NewRateLimiter(mem)
	rl.now = mem.now
	key := ClientKey("10.0.0.1")

	for i := 1; i <= 3; i++ {
		ok, err := rl.Allow(ctx, key, 3, time.Minute)
		if err != nil || !ok {
			t.Fatalf("request %d: ok=%v err=%v, want allowed", i, ok, err)
		}
	}
	if ok, _ := rl.Allow(ctx, key, 3, time.Minute); ok {
		t.Fatal("4th request in the window should be rejected")
	}

	clock = clock.Add(time.Minute)
	if ok, _ := rl.Allow(ctx, key, 3, time.Minute); !ok {
		t.Fatal("a new window should admit requests again")
	}
}

func TestStateRepo_MarkIntroSent(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepo(newMemClient())

	first, err := repo.MarkIntroSent(ctx, "sess-1", time.Hour)
	if err != nil || !first {
		t.Fatalf("first call: first=%v err=%v", first, err)
	}
	again, _ := repo.MarkIntroSent(ctx, "sess-1", time.Hour)
	if again {
		t.Error("second call in the same session must report false")
	}
	other, _ := repo.MarkIntroSent(ctx, "sess-2", time.Hour)
	if !other {
		t.Error("sessions must be independent")
	}

	if err := repo.ClearIntro(ctx, "sess-1"); err != nil {
		t.Fatalf("ClearIntro: %v", err)
	}
	if first, _ := repo.MarkIntroSent(ctx, "sess-1", time.Hour); !first {
		t.Error("after ClearIntro the intro should be sendable again")
	}
}
