package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"soulsync/internal/domain"
	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/adapter"
	"soulsync/internal/domain/ports/repository"
	"soulsync/internal/infra/logging"
	"soulsync/internal/infra/metrics"
)

// FallbackAIReply is sent when the provider returns an empty completion.
const FallbackAIReply = "I'm here with you."

var _ ChatUseCase = (*chatUC)(nil)

// AskInput carries the message plus the profile hints the client sends.
// Empty profile fields are filled from the stored user.
type AskInput struct {
	Message       string
	Mood          string
	Level         string
	ClassOrCourse string
	AssistantType string
}

// ChatUseCase is the generative AI companion.
type ChatUseCase interface {
	Ask(ctx context.Context, userID string, in AskInput) (string, error)
}

// ChatOptions tunes the companion prompt.
type ChatOptions struct {
	Model        string
	HistoryTurns int // turns sent as context, the new message included
	PromptBudget int // token ceiling for the whole prompt; 0 disables trimming
	Timeout      time.Duration
}

type chatUC struct {
	ai    adapter.AIServiceAdapter
	users repository.UserRepository
	turns repository.ConversationRepository
	tm    repository.TransactionManager
	opts  ChatOptions
	log   *zerolog.Logger
}

// NewChatUseCase wires the companion. Without a configured provider pass
// NoopAIAdapter; Ask then reports domain.ErrAIUnavailable.
func NewChatUseCase(
	ai adapter.AIServiceAdapter,
	users repository.UserRepository,
	turns repository.ConversationRepository,
	tm repository.TransactionManager,
	opts ChatOptions,
	logger *zerolog.Logger,
) ChatUseCase {
	if opts.HistoryTurns <= 0 {
		opts.HistoryTurns = 10
	}
	return &chatUC{ai: ai, users: users, turns: turns, tm: tm, opts: opts, log: logger}
}

// Ask sends the profile frame, recent history and msg to the provider. Both
// turns are stored only once a completion comes back, so a failed call leaves
// no orphaned user turn behind.
func (c *chatUC) Ask(ctx context.Context, userID string, in AskInput) (string, error) {
	defer logging.TraceDuration(c.log, "ChatUC.Ask")()

	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return "", domain.ErrInvalidArgument
	}
	user, err := c.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return "", err
	}
	userTurn, err := model.NewTurn(userID, model.SenderUser, msg)
	if err != nil {
		return "", err
	}
	var recent []*model.Turn
	if c.opts.HistoryTurns > 1 {
		if recent, err = c.turns.RecentTurns(ctx, repository.NoTX, userID, c.opts.HistoryTurns-1); err != nil {
			return "", fmt.Errorf("load history: %w", err)
		}
	}

	cctx := ctx
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}
	prompt := c.fitBudget(cctx, buildPrompt(user, in, append(recent, userTurn)))
	reply, usage, err := c.ai.ChatWithUsage(cctx, c.opts.Model, prompt)
	if err != nil {
		if errors.Is(err, domain.ErrAIUnavailable) {
			metrics.IncAIUnavailable()
			return "", err
		}
		logging.With(ctx, c.log).Error().Err(err).Str("model", c.opts.Model).Msg("ai chat failed")
		return "", fmt.Errorf("ai chat: %w", domain.ErrOperationFailed)
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = FallbackAIReply
	}

	botTurn, err := model.NewTurn(userID, model.SenderAssistant, reply)
	if err != nil {
		return "", err
	}
	err = c.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := c.turns.AppendTurn(ctx, tx, userTurn); err != nil {
			return err
		}
		return c.turns.AppendTurn(ctx, tx, botTurn)
	})
	if err != nil {
		return "", fmt.Errorf("append turns: %w", err)
	}
	logging.With(ctx, c.log).Debug().
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Msg("ai reply")
	return reply, nil
}

// fitBudget drops the oldest history turns until the provider's count fits
// opts.PromptBudget. The system frame and the new message always stay, and
// the history never opens on an assistant turn. A failed count sends the
// prompt as is.
func (c *chatUC) fitBudget(ctx context.Context, msgs []adapter.Message) []adapter.Message {
	if c.opts.PromptBudget <= 0 {
		return msgs
	}
	trimmed := 0
	for {
		n, err := c.ai.CountTokens(ctx, c.opts.Model, msgs)
		if err != nil {
			if !errors.Is(err, domain.ErrAIUnavailable) {
				logging.With(ctx, c.log).Warn().Err(err).Msg("prompt token count failed")
			}
			return msgs
		}
		if n <= c.opts.PromptBudget || len(msgs) <= 2 {
			metrics.ObservePromptTokens(n, trimmed)
			return msgs
		}
		drop := 1
		for 1+drop < len(msgs)-1 && msgs[1+drop].Role == adapter.RoleAssistant {
			drop++
		}
		msgs = append(msgs[:1:1], msgs[1+drop:]...)
		trimmed += drop
	}
}

// buildPrompt frames the profile as a system message followed by the recent
// turns, oldest first. The newest turn is always the user's.
func buildPrompt(user *model.User, in AskInput, recent []*model.Turn) []adapter.Message {
	orUnknown := func(v, fallback string) string {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
		if fallback != "" {
			return fallback
		}
		return "unknown"
	}
	var sb strings.Builder
	sb.WriteString("You are a caring mental health AI companion.\n\n")
	fmt.Fprintf(&sb, "Mood: %s\n", orUnknown(in.Mood, ""))
	fmt.Fprintf(&sb, "Level: %s\n", orUnknown(in.Level, string(user.Level)))
	fmt.Fprintf(&sb, "Course: %s\n", orUnknown(in.ClassOrCourse, user.ClassOrCourse))
	fmt.Fprintf(&sb, "Assistant: %s\n\n", orUnknown(in.AssistantType, string(user.Persona)))
	sb.WriteString("Respond empathetically.")

	msgs := make([]adapter.Message, 0, len(recent)+1)
	msgs = append(msgs, adapter.Message{Role: adapter.RoleSystem, Content: sb.String()})
	for _, t := range recent {
		role := adapter.RoleUser
		if t.Sender == model.SenderAssistant {
			role = adapter.RoleAssistant
		}
		msgs = append(msgs, adapter.Message{Role: role, Content: t.Text})
	}
	return msgs
}
