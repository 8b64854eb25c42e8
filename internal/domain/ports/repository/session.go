package repository

import (
	"context"

	"soulsync/internal/domain/model"
)

// SessionRepository stores counseling session bookings.
type SessionRepository interface {
	Save(ctx context.Context, tx Tx, b *model.SessionBooking) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.SessionBooking, error)
}
