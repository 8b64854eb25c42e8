package ai

import (
	"context"
	"errors"
	"sort"
	"strings"

	"soulsync/internal/domain"
	"soulsync/internal/domain/ports/adapter"
	"soulsync/internal/infra/metrics"
)

var _ adapter.AIServiceAdapter = (*MultiAIAdapter)(nil)

// MultiAIAdapter routes each call to a provider by model name and, for chat,
// fails over to the remaining providers when the routed one errors. The
// fallback providers are asked for their own default model.
type MultiAIAdapter struct {
	defaultProvider string
	byProvider      map[string]adapter.AIServiceAdapter
	order           []string // failover order after the routed provider
	modelToProvider map[string]string
}

// NewMultiAIAdapter keeps the default provider first in the failover order;
// the rest follow by name so retries are deterministic.
func NewMultiAIAdapter(
	defaultProvider string,
	byProvider map[string]adapter.AIServiceAdapter,
	modelToProvider map[string]string,
) *MultiAIAdapter {
	def := strings.ToLower(defaultProvider)
	providers := make(map[string]adapter.AIServiceAdapter, len(byProvider))
	order := make([]string, 0, len(byProvider))
	for name, a := range byProvider {
		if a == nil {
			continue
		}
		name = strings.ToLower(name)
		providers[name] = a
		order = append(order, name)
	}
	sort.Slice(order, func(i, j int) bool {
		if (order[i] == def) != (order[j] == def) {
			return order[i] == def
		}
		return order[i] < order[j]
	})
	return &MultiAIAdapter{
		defaultProvider: def,
		byProvider:      providers,
		order:           order,
		modelToProvider: modelToProvider,
	}
}

func (m *MultiAIAdapter) resolveProvider(model string) string {
	if p := m.modelToProvider[model]; p != "" {
		return strings.ToLower(p)
	}
	l := strings.ToLower(model)
	switch {
	case strings.HasPrefix(l, "gemini"):
		return "gemini"
	case strings.HasPrefix(l, "gpt"), strings.HasPrefix(l, "o1"), strings.HasPrefix(l, "o3"):
		return "openai"
	default:
		return m.defaultProvider
	}
}

// route returns the provider name for model, or the first available one.
func (m *MultiAIAdapter) route(model string) string {
	if p := m.resolveProvider(model); m.byProvider[p] != nil {
		return p
	}
	if len(m.order) > 0 {
		return m.order[0]
	}
	return ""
}

func (m *MultiAIAdapter) ListModels(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for model := range m.modelToProvider {
		add(model)
	}
	for _, p := range m.order {
		list, _ := m.byProvider[p].ListModels(ctx)
		for _, name := range list {
			add(name)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MultiAIAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	p := m.route(model)
	if p == "" {
		return adapter.ModelInfo{Name: model}, nil
	}
	return m.byProvider[p].GetModelInfo(model)
}

func (m *MultiAIAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	p := m.route(model)
	if p == "" {
		return 0, domain.ErrAIUnavailable
	}
	return m.byProvider[p].CountTokens(ctx, model, messages)
}

func (m *MultiAIAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := m.ChatWithUsage(ctx, model, messages)
	return reply, err
}

// ChatWithUsage returns the first successful answer. A cancelled or expired
// ctx stops the failover; otherwise the routed provider's error is returned
// when every provider fails.
func (m *MultiAIAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	first := m.route(model)
	if first == "" {
		return "", adapter.Usage{}, domain.ErrAIUnavailable
	}
	reply, u, firstErr := m.byProvider[first].ChatWithUsage(ctx, model, messages)
	if firstErr == nil {
		return reply, u, nil
	}
	for _, p := range m.order {
		if p == first {
			continue
		}
		if ctx.Err() != nil || errors.Is(firstErr, context.Canceled) {
			break
		}
		metrics.IncAIFailover(first, p)
		reply, u, err := m.byProvider[p].ChatWithUsage(ctx, "", messages)
		if err == nil {
			return reply, u, nil
		}
	}
	return "", adapter.Usage{}, firstErr
}
