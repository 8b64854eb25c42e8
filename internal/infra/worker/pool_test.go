//go:build !integration

package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestPool_RunsAndDrainsTasks(t *testing.T) {
	p := NewPool(2, 16, nil)
	p.Start(context.Background())

	var done int32
	for i := 0; i < 10; i++ {
		if err := p.Submit(func(ctx context.Context) error {
			atomic.AddInt32(&done, 1)
			return nil
		}); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	p.Stop()

	if got := atomic.LoadInt32(&done); got != 10 {
		t.Fatalf("ran %d tasks, want 10", got)
	}
	if err := p.Submit(func(context.Context) error { return nil }); !errors.Is(err, ErrStopped) {
		t.Errorf("Submit after Stop = %v, want ErrStopped", err)
	}
	p.Stop() // idempotent
}

func TestPool_RejectsWhenSaturated(t *testing.T) {
	p := NewPool(1, 1, nil) // not started, so the queue never drains
	noop := func(context.Context) error { return nil }

	if err := p.Submit(noop); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	if err := p.Submit(noop); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("second Submit = %v, want ErrQueueFull", err)
	}
	if err := p.Submit(nil); err == nil {
		t.Error("nil task should be rejected")
	}
}

func TestPool_SurvivesPanickingTask(t *testing.T) {
	p := NewPool(1, 4, nil)
	p.Start(context.Background())

	var ran int32
	_ = p.Submit(func(context.Context) error { panic("boom") })
	_ = p.Submit(func(context.Context) error {
		atomic.StoreInt32(&ran, 1)
		return errors.New("reported, not fatal")
	})
	p.Stop()

	if atomic.LoadInt32(&ran) != 1 {
		t.Fatal("worker should keep running after a panic")
	}
}
