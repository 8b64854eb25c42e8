package repository

import (
	"context"

	"soulsync/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByDeviceID(ctx context.Context, tx Tx, deviceID string) (*model.User, error)
	ExistsUsername(ctx context.Context, tx Tx, username string) (bool, error)

	// LockSpamState reads the user's ban state and, inside a transaction,
	// holds the row lock until commit.
	LockSpamState(ctx context.Context, tx Tx, userID string) (model.SpamState, error)
	// UpdateSpamState writes strikes and blocked-until in a single statement.
	UpdateSpamState(ctx context.Context, tx Tx, userID string, st model.SpamState) error
}
