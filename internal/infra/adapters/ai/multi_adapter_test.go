package ai_test

import (
	"context"
	"errors"
	"testing"

	"soulsync/internal/domain/ports/adapter"
	ai "soulsync/internal/infra/adapters/ai"
)

type stubAI struct {
	name         string
	ctN          int
	cwuN         int
	lastModelCT  string
	lastModelCWU string
}

func (s *stubAI) ListModels(ctx context.Context) ([]string, error) {
	return []string{s.name + "-model"}, nil
}
func (s *stubAI) GetModelInfo(model string) (adapter.ModelInfo, error) {
	return adapter.ModelInfo{Name: model}, nil
}
func (s *stubAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	s.ctN++
	s.lastModelCT = model
	return 1, nil
}
func (s *stubAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	return "ok", nil
}
func (s *stubAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	s.cwuN++
	s.lastModelCWU = model
	return "ok", adapter.Usage{PromptTokens: 1, CompletionTokens: 1}, nil
}

func TestRouting_ModelMapThenPrefixThenDefault(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	open := &stubAI{name: "openai"}
	gem := &stubAI{name: "gemini"}

	m := ai.NewMultiAIAdapter(
		"openai",
		map[string]adapter.AIServiceAdapter{"openai": open, "gemini": gem},
		map[string]string{"custom-x": "gemini"},
	)

	// explicit map wins
	_, _ = m.CountTokens(ctx, "custom-x", nil)
	if gem.ctN != 1 || open.ctN != 0 {
		t.Fatalf("explicit map should route to gemini, got open:%d gem:%d", open.ctN, gem.ctN)
	}
	open.ctN, gem.ctN = 0, 0

	// gpt-* -> openai
	_, _, _ = m.ChatWithUsage(ctx, "gpt-4o-mini", nil)
	if open.cwuN != 1 || gem.cwuN != 0 {
		t.Fatalf("heuristic gpt-* should go openai")
	}
	open.cwuN, gem.cwuN = 0, 0

	// gemini-* -> gemini
	_, _, _ = m.ChatWithUsage(ctx, "gemini-1.5-flash", nil)
	if gem.cwuN != 1 || open.cwuN != 0 {
		t.Fatalf("heuristic gemini-* should go gemini")
	}

	// unknown -> default provider (openai)
	open.ctN, gem.ctN = 0, 0
	_, _ = m.CountTokens(ctx, "unknown", nil)
	if open.ctN != 1 || gem.ctN != 0 {
		t.Fatalf("unknown model should go to default provider (openai)")
	}
}

type failingAI struct {
	stubAI
	err error
}

func (f *failingAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	f.cwuN++
	return "", adapter.Usage{}, f.err
}

func TestChat_FailsOverToOtherProvider(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	gem := &failingAI{stubAI: stubAI{name: "gemini"}, err: errors.New("429 quota")}
	open := &stubAI{name: "openai"}

	m := ai.NewMultiAIAdapter("gemini",
		map[string]adapter.AIServiceAdapter{"gemini": gem, "openai": open}, nil)

	reply, _, err := m.ChatWithUsage(ctx, "gemini-2.5-flash", []adapter.Message{{Role: adapter.RoleUser, Content: "hi"}})
	if err != nil || reply != "ok" {
		t.Fatalf("ChatWithUsage = %q, %v; want ok from openai", reply, err)
	}
	if gem.cwuN != 1 || open.cwuN != 1 {
		t.Fatalf("calls gemini=%d openai=%d, want 1 each", gem.cwuN, open.cwuN)
	}
	if open.lastModelCWU != "" {
		t.Errorf("fallback should use its default model, got %q", open.lastModelCWU)
	}
}

func TestChat_AllProvidersFailReturnsRoutedError(t *testing.T) {
	t.Parallel()
	gemErr := errors.New("gemini down")
	gem := &failingAI{stubAI: stubAI{name: "gemini"}, err: gemErr}
	open := &failingAI{stubAI: stubAI{name: "openai"}, err: errors.New("openai down")}

	m := ai.NewMultiAIAdapter("openai",
		map[string]adapter.AIServiceAdapter{"gemini": gem, "openai": open}, nil)

	_, _, err := m.ChatWithUsage(context.Background(), "gemini-2.5-flash", nil)
	if !errors.Is(err, gemErr) {
		t.Fatalf("err = %v, want the routed provider's error", err)
	}
}

func TestChat_CancelledContextSkipsFailover(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gem := &failingAI{stubAI: stubAI{name: "gemini"}, err: context.Canceled}
	open := &stubAI{name: "openai"}

	m := ai.NewMultiAIAdapter("gemini",
		map[string]adapter.AIServiceAdapter{"gemini": gem, "openai": open}, nil)

	if _, _, err := m.ChatWithUsage(ctx, "gemini-2.5-flash", nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if open.cwuN != 0 {
		t.Errorf("openai called %d times after cancel", open.cwuN)
	}
}
