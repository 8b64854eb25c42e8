package model

import (
	"strings"
	"time"

	"soulsync/internal/domain"

	"github.com/google/uuid"
)

// DailyMood is the once-per-day check-in vocabulary.
type DailyMood string

const (
	MoodVeryBad DailyMood = "very_bad"
	MoodBad     DailyMood = "bad"
	MoodAverage DailyMood = "average"
	MoodGood    DailyMood = "good"
	MoodAwesome DailyMood = "awesome"
)

// DailyMoods lists the vocabulary from worst to best.
var DailyMoods = []DailyMood{MoodVeryBad, MoodBad, MoodAverage, MoodGood, MoodAwesome}

func ParseDailyMood(s string) (DailyMood, error) {
	m := DailyMood(strings.ToLower(strings.TrimSpace(s)))
	if m.Score() == 0 {
		return "", domain.ErrInvalidArgument
	}
	return m, nil
}

// Score maps the mood onto 1 (very_bad) .. 5 (awesome); 0 for unknown values.
func (m DailyMood) Score() int {
	for i, v := range DailyMoods {
		if v == m {
			return i + 1
		}
	}
	return 0
}

// ChatMood converts a daily check-in into the chat vocabulary.
func (m DailyMood) ChatMood() ChatMood {
	switch m {
	case MoodVeryBad:
		return ChatVerySad
	case MoodBad:
		return ChatSad
	case MoodAverage:
		return ChatNeutral
	case MoodGood:
		return ChatHappy
	case MoodAwesome:
		return ChatVeryHappy
	}
	return ""
}

// ChatMood is the mood vocabulary of the counselor conversation.
// The empty value means "unknown".
type ChatMood string

const (
	ChatVerySad   ChatMood = "very_sad"
	ChatSad       ChatMood = "sad"
	ChatNeutral   ChatMood = "neutral"
	ChatHappy     ChatMood = "happy"
	ChatVeryHappy ChatMood = "very_happy"
)

// ParseChatMood returns the normalized mood; unrecognized input yields "".
func ParseChatMood(s string) ChatMood {
	switch m := ChatMood(strings.ToLower(strings.TrimSpace(s))); m {
	case ChatVerySad, ChatSad, ChatNeutral, ChatHappy, ChatVeryHappy:
		return m
	}
	return ""
}

func (m ChatMood) IsLow() bool  { return m == ChatVerySad || m == ChatSad }
func (m ChatMood) IsHigh() bool { return m == ChatHappy || m == ChatVeryHappy }

// MoodEntry is one daily check-in. Date is the start of the local day.
type MoodEntry struct {
	ID        string
	UserID    string
	Mood      DailyMood
	Date      time.Time
	CreatedAt time.Time
}

func NewMoodEntry(userID string, mood DailyMood, now time.Time) (*MoodEntry, error) {
	if userID == "" || mood.Score() == 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &MoodEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Mood:      mood,
		Date:      StartOfDay(now),
		CreatedAt: now,
	}, nil
}

// StartOfDay truncates t to local midnight in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
