package model

import (
	"strings"
	"time"
	"unicode/utf8"

	"soulsync/internal/domain"

	"github.com/oklog/ulid/v2"
)

const (
	// PostRetention is how long community posts stay visible.
	PostRetention = 7 * 24 * time.Hour
	// MaxPostLength bounds a single post in runes.
	MaxPostLength = 2000
)

// Post is a message in the shared community feed. IDs are ULIDs so they sort
// by creation time.
type Post struct {
	ID        string
	UserID    string
	Username  string
	Text      string
	CreatedAt time.Time
}

func NewPost(userID, text string, now time.Time) (*Post, error) {
	text = strings.TrimSpace(text)
	if userID == "" || text == "" {
		return nil, domain.ErrInvalidArgument
	}
	if utf8.RuneCountInString(text) > MaxPostLength {
		return nil, domain.ErrInvalidArgument
	}
	return &Post{
		ID:        ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		UserID:    userID,
		Text:      text,
		CreatedAt: now,
	}, nil
}
