package model

import (
	"strings"
	"time"

	"soulsync/internal/domain"

	"github.com/google/uuid"
)

type SessionType string

const (
	SessionCall SessionType = "call"
	SessionText SessionType = "text"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingApproved  BookingStatus = "approved"
	BookingCompleted BookingStatus = "completed"
	BookingRejected  BookingStatus = "rejected"
)

// MinPhoneLength is the shortest phone number accepted for a booking.
const MinPhoneLength = 10

// SessionBooking is a request for a session with a human counselor.
type SessionBooking struct {
	ID        string
	Username  string
	Phone     string
	Problem   string
	Type      SessionType
	Status    BookingStatus
	CreatedAt time.Time
}

func NewSessionBooking(username, phone, problem, sessionType string) (*SessionBooking, error) {
	username = strings.TrimSpace(username)
	phone = strings.TrimSpace(phone)
	problem = strings.TrimSpace(problem)
	if username == "" || phone == "" || problem == "" {
		return nil, domain.ErrInvalidArgument
	}
	if len(phone) < MinPhoneLength {
		return nil, domain.ErrInvalidArgument
	}
	st := SessionType(strings.ToLower(strings.TrimSpace(sessionType)))
	if st != SessionCall && st != SessionText {
		return nil, domain.ErrInvalidArgument
	}
	return &SessionBooking{
		ID:        uuid.NewString(),
		Username:  username,
		Phone:     phone,
		Problem:   problem,
		Type:      st,
		Status:    BookingPending,
		CreatedAt: time.Now(),
	}, nil
}
