package adapter

import "context"

// Notifier delivers plain-text alerts to staff chats (counselors).
type Notifier interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}
