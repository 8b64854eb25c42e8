package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"soulsync/internal/domain/ports/adapter"
	"soulsync/internal/infra/logging"
)

var _ adapter.Notifier = (*NoopNotifier)(nil)

// NoopNotifier logs alerts instead of sending them; used when no bot token
// is configured.
type NoopNotifier struct {
	log *zerolog.Logger
}

func NewNoopNotifier(log *zerolog.Logger) *NoopNotifier {
	return &NoopNotifier{log: log}
}

func (n *NoopNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	logging.With(ctx, n.log).Info().Int64("chat_id", chatID).Int("len", len(text)).Msg("[noop-telegram] notification suppressed")
	return nil
}
