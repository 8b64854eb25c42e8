//go:build !integration

package ai_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"soulsync/internal/domain"
	"soulsync/internal/domain/ports/adapter"
	ai "soulsync/internal/infra/adapters/ai"
)

type slowAI struct {
	stubAI
	inFlight, peak int32
}

func (s *slowAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	n := atomic.AddInt32(&s.inFlight, 1)
	for {
		p := atomic.LoadInt32(&s.peak)
		if n <= p || atomic.CompareAndSwapInt32(&s.peak, p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	atomic.AddInt32(&s.inFlight, -1)
	return "ok", adapter.Usage{}, nil
}

func TestLimitedAI_CapsConcurrency(t *testing.T) {
	inner := &slowAI{}
	l := ai.NewLimitedAI(inner, 2)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = l.ChatWithUsage(context.Background(), "m", nil)
		}()
	}
	wg.Wait()
	if p := atomic.LoadInt32(&inner.peak); p > 2 {
		t.Fatalf("peak concurrency = %d, want <= 2", p)
	}
}

func TestLimitedAI_GivesUpWhenContextEnds(t *testing.T) {
	block := make(chan struct{})
	inner := &blockingAI{release: block, started: make(chan struct{})}
	l := ai.NewLimitedAI(inner, 1)

	go func() { _, _ = l.Chat(context.Background(), "m", nil) }()
	<-inner.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := l.Chat(ctx, "m", nil); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded while waiting for a slot, got %v", err)
	}
	close(block)
}

type blockingAI struct {
	stubAI
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (b *blockingAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	b.once.Do(func() { close(b.started) })
	<-b.release
	return "ok", nil
}

func TestNoopAI_ReportsUnavailable(t *testing.T) {
	_, err := ai.NewNoopAIAdapter().Chat(context.Background(), "", []adapter.Message{{Role: adapter.RoleUser, Content: "hi"}})
	if !errors.Is(err, domain.ErrAIUnavailable) {
		t.Fatalf("expected ErrAIUnavailable, got %v", err)
	}
}

func TestMultiAI_NoProvidersIsUnavailable(t *testing.T) {
	m := ai.NewMultiAIAdapter("gemini", map[string]adapter.AIServiceAdapter{}, nil)
	if _, _, err := m.ChatWithUsage(context.Background(), "gemini-2.5-flash", nil); !errors.Is(err, domain.ErrAIUnavailable) {
		t.Fatalf("expected ErrAIUnavailable, got %v", err)
	}
}

func TestTokenCounter(t *testing.T) {
	c := ai.NewTokenCounter()
	if c.Count("") != 0 {
		t.Error("empty text should count zero tokens")
	}
	one := c.CountMessages([]adapter.Message{{Role: adapter.RoleUser, Content: "I feel anxious about exams"}})
	two := c.CountMessages([]adapter.Message{
		{Role: adapter.RoleUser, Content: "I feel anxious about exams"},
		{Role: adapter.RoleAssistant, Content: "That sounds heavy."},
	})
	if one <= 0 || two <= one {
		t.Errorf("counts should grow with messages: one=%d two=%d", one, two)
	}
}
