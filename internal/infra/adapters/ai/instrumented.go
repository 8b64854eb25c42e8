package ai

import (
	"context"
	"time"

	"soulsync/internal/domain/ports/adapter"
	"soulsync/internal/infra/metrics"
)

var _ adapter.AIServiceAdapter = (*instrumentedAI)(nil)

// instrumentedAI records token usage and latency per provider and model.
type instrumentedAI struct {
	inner    adapter.AIServiceAdapter
	provider string
}

func NewInstrumentedAI(inner adapter.AIServiceAdapter, provider string) adapter.AIServiceAdapter {
	return &instrumentedAI{inner: inner, provider: provider}
}

func (i *instrumentedAI) ListModels(ctx context.Context) ([]string, error) {
	return i.inner.ListModels(ctx)
}

func (i *instrumentedAI) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return i.inner.GetModelInfo(model)
}

func (i *instrumentedAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	return i.inner.CountTokens(ctx, model, messages)
}

func (i *instrumentedAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := i.ChatWithUsage(ctx, model, messages)
	return reply, err
}

func (i *instrumentedAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	start := time.Now()
	reply, u, err := i.inner.ChatWithUsage(ctx, model, messages)
	metrics.ObserveChatUsage(i.provider, modelOrDefault(model, "default"), u.PromptTokens, u.CompletionTokens, time.Since(start), err)
	return reply, u, err
}
