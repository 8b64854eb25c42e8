package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"soulsync/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*GeminiAdapter)(nil)

var errGeminiBlocked = errors.New("gemini: reply withheld by safety filter")

// companionSafety blocks only what Gemini rates medium or worse.
var companionSafety = []*genai.SafetySetting{
	{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
	{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
}

// GeminiAdapter talks to Google Gemini through the genai SDK.
type GeminiAdapter struct {
	client *genai.Client
	model  string
	maxOut int32
	safety []*genai.SafetySetting
}

// NewGeminiAdapter dials Gemini. An empty baseURL keeps the SDK endpoint.
func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, defaultModel string, maxOut int) (*GeminiAdapter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiAdapter{client: c, model: defaultModel, maxOut: int32(maxOut), safety: companionSafety}, nil
}

func (g *GeminiAdapter) ListModels(ctx context.Context) ([]string, error) {
	var out []string
	for m, err := range g.client.Models.All(ctx) {
		if err != nil {
			return nil, fmt.Errorf("gemini list models: %w", err)
		}
		out = append(out, strings.TrimPrefix(m.Name, "models/"))
	}
	if len(out) == 0 && g.model != "" {
		out = append(out, g.model)
	}
	return out, nil
}

// GetModelInfo falls back to the bare name when the lookup fails.
func (g *GeminiAdapter) GetModelInfo(model string) (adapter.ModelInfo, error) {
	name := modelOrDefault(model, g.model)
	m, err := g.client.Models.Get(context.Background(), name, nil)
	if err != nil || m == nil {
		return adapter.ModelInfo{Name: name}, nil
	}
	return adapter.ModelInfo{
		Name:        strings.TrimPrefix(m.Name, "models/"),
		Description: m.Description,
		MaxTokens:   int(m.InputTokenLimit),
		Supports:    m.SupportedActions,
	}, nil
}

func (g *GeminiAdapter) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	_, contents := toGeminiContents(messages)
	if len(contents) == 0 {
		return 0, nil
	}
	resp, err := g.client.Models.CountTokens(ctx, modelOrDefault(model, g.model), contents, nil)
	if err != nil {
		return 0, fmt.Errorf("gemini count tokens: %w", err)
	}
	return int(resp.TotalTokens), nil
}

func (g *GeminiAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := g.ChatWithUsage(ctx, model, messages)
	return reply, err
}

// ChatWithUsage sends the whole conversation in one GenerateContent call.
func (g *GeminiAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	system, contents := toGeminiContents(messages)
	if len(contents) == 0 || contents[len(contents)-1].Role != genai.RoleUser {
		return "", adapter.Usage{}, errors.New("gemini: conversation must end with a user turn")
	}

	cfg := &genai.GenerateContentConfig{SafetySettings: g.safety}
	if g.maxOut > 0 {
		cfg.MaxOutputTokens = g.maxOut
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	resp, err := g.client.Models.GenerateContent(ctx, modelOrDefault(model, g.model), contents, cfg)
	if err != nil {
		return "", adapter.Usage{}, fmt.Errorf("gemini generate: %w", err)
	}

	var u adapter.Usage
	if md := resp.UsageMetadata; md != nil {
		u = adapter.Usage{
			PromptTokens:     int(md.PromptTokenCount),
			CompletionTokens: int(md.CandidatesTokenCount),
			TotalTokens:      int(md.TotalTokenCount),
		}
	}
	if blocked(resp) {
		return "", u, errGeminiBlocked
	}
	return strings.TrimSpace(resp.Text()), u, nil
}

func blocked(resp *genai.GenerateContentResponse) bool {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return true
	}
	if len(resp.Candidates) == 0 {
		return true
	}
	return resp.Candidates[0].FinishReason == genai.FinishReasonSafety
}

// toGeminiContents lifts system messages into one instruction and folds
// consecutive turns from the same speaker together, since Gemini expects the
// user and model roles to alternate. Empty messages are dropped.
func toGeminiContents(msgs []adapter.Message) (string, []*genai.Content) {
	var system []string
	var out []*genai.Content
	for _, m := range msgs {
		text := strings.TrimSpace(m.Content)
		if text == "" {
			continue
		}
		role := genai.RoleUser
		switch strings.ToLower(m.Role) {
		case adapter.RoleSystem:
			system = append(system, text)
			continue
		case adapter.RoleAssistant, "model":
			role = genai.RoleModel
		}
		if n := len(out); n > 0 && out[n-1].Role == role {
			out[n-1].Parts = append(out[n-1].Parts, &genai.Part{Text: text})
			continue
		}
		out = append(out, &genai.Content{Role: role, Parts: []*genai.Part{{Text: text}}})
	}
	return strings.Join(system, "\n\n"), out
}

func modelOrDefault(model, def string) string {
	if m := strings.TrimSpace(model); m != "" {
		return m
	}
	return def
}
