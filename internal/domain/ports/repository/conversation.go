package repository

import (
	"context"

	"soulsync/internal/domain/model"
)

type ConversationRepository interface {
	AppendTurn(ctx context.Context, tx Tx, t *model.Turn) error
	// RecentTurns returns up to limit of the latest turns, oldest first.
	RecentTurns(ctx context.Context, tx Tx, userID string, limit int) ([]*model.Turn, error)
}
