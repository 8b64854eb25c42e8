package ai

import (
	"context"

	"soulsync/internal/domain"
	"soulsync/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAIAdapter)(nil)

// NoopAIAdapter stands in when no provider key is configured. Every call
// reports domain.ErrAIUnavailable.
type NoopAIAdapter struct{}

func NewNoopAIAdapter() *NoopAIAdapter { return &NoopAIAdapter{} }

func (a *NoopAIAdapter) ListModels(ctx context.Context) ([]string, error) { return nil, nil }

func (a *NoopAIAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{}, domain.ErrAIUnavailable
}

func (a *NoopAIAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	return 0, domain.ErrAIUnavailable
}

func (a *NoopAIAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	return "", domain.ErrAIUnavailable
}

func (a *NoopAIAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	return "", adapter.Usage{}, domain.ErrAIUnavailable
}
