package telegram

import (
	"context"
	"errors"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"soulsync/internal/domain/ports/adapter"
)

// maxMessageLen is Telegram's limit for a single text message.
const maxMessageLen = 4096

var _ adapter.Notifier = (*TelegramNotifier)(nil)

type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramNotifier posts counselor alerts through the Bot API. It never polls
// for updates.
type TelegramNotifier struct {
	bot sender
}

func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("telegram token is empty")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &TelegramNotifier{bot: bot}, nil
}

func (n *TelegramNotifier) SendMessage(ctx context.Context, chatID int64, text string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if r := []rune(text); len(r) > maxMessageLen {
		text = string(r[:maxMessageLen-1]) + "…"
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	_, err := n.bot.Send(msg)
	return err
}
