package model

import (
	"strings"
	"time"

	"soulsync/internal/domain"

	"github.com/google/uuid"
)

// Level is the education stage a user picked at sign up.
type Level string

const (
	LevelSchool  Level = "school"
	LevelCollege Level = "college"
)

// Persona selects the voice of the rule-based companion ("assistant type").
type Persona string

const (
	PersonaBoy  Persona = "boy"
	PersonaGirl Persona = "girl"
)

func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(s))); l {
	case LevelSchool, LevelCollege:
		return l, nil
	}
	return "", domain.ErrInvalidArgument
}

func ParsePersona(s string) (Persona, error) {
	switch p := Persona(strings.ToLower(strings.TrimSpace(s))); p {
	case PersonaBoy, PersonaGirl:
		return p, nil
	}
	return "", domain.ErrInvalidArgument
}

// SpamState is the per-user ban state owned by the community posting policy.
// A zero BlockedUntil means the user has never been banned.
type SpamState struct {
	Strikes      int
	BlockedUntil time.Time
}

func (s SpamState) IsBlocked(now time.Time) bool {
	return !s.BlockedUntil.IsZero() && s.BlockedUntil.After(now)
}

// User is an anonymous, device-bound account.
type User struct {
	ID            string
	Username      string
	DeviceID      string
	Level         Level
	ClassOrCourse string
	Persona       Persona
	Spam          SpamState
	CreatedAt     time.Time
	LastActiveAt  time.Time
}

func NewUser(id, username, deviceID string, level Level, classOrCourse string, persona Persona) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if strings.TrimSpace(username) == "" || strings.TrimSpace(deviceID) == "" {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := ParseLevel(string(level)); err != nil {
		return nil, err
	}
	if _, err := ParsePersona(string(persona)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(classOrCourse) == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:            id,
		Username:      username,
		DeviceID:      deviceID,
		Level:         level,
		ClassOrCourse: strings.TrimSpace(classOrCourse),
		Persona:       persona,
		CreatedAt:     now,
		LastActiveAt:  now,
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
func (u *User) Touch()       { u.LastActiveAt = time.Now() }
