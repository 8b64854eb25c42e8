package ai

import (
	"context"

	"golang.org/x/sync/semaphore"

	"soulsync/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*limitedAI)(nil)

// limitedAI caps in-flight chat calls across the process. Callers waiting for
// a slot give up when their context ends. Token counting is local and is not
// limited.
type limitedAI struct {
	inner adapter.AIServiceAdapter
	slots *semaphore.Weighted
}

// NewLimitedAI returns inner unchanged when maxConcurrent <= 0.
func NewLimitedAI(inner adapter.AIServiceAdapter, maxConcurrent int) adapter.AIServiceAdapter {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedAI{inner: inner, slots: semaphore.NewWeighted(int64(maxConcurrent))}
}

func (l *limitedAI) ListModels(ctx context.Context) ([]string, error) {
	return l.inner.ListModels(ctx)
}

func (l *limitedAI) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return l.inner.GetModelInfo(model)
}

func (l *limitedAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	return l.inner.CountTokens(ctx, model, messages)
}

func (l *limitedAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	if err := l.slots.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer l.slots.Release(1)
	return l.inner.Chat(ctx, model, messages)
}

func (l *limitedAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	if err := l.slots.Acquire(ctx, 1); err != nil {
		return "", adapter.Usage{}, err
	}
	defer l.slots.Release(1)
	return l.inner.ChatWithUsage(ctx, model, messages)
}
