package model

import (
	"strings"
	"time"

	"soulsync/internal/domain"
)

// Sender identifies who produced a conversation turn.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "ai"
)

// Turn is a single message in a user's counselor conversation.
type Turn struct {
	ID        int64
	UserID    string
	Sender    Sender
	Text      string
	CreatedAt time.Time
}

func NewTurn(userID string, sender Sender, text string) (*Turn, error) {
	if userID == "" || strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if sender != SenderUser && sender != SenderAssistant {
		return nil, domain.ErrInvalidArgument
	}
	return &Turn{
		UserID:    userID,
		Sender:    sender,
		Text:      text,
		CreatedAt: time.Now(),
	}, nil
}
