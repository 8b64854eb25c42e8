package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
	"soulsync/internal/infra/security"
)

var _ repository.ConversationRepository = (*PostgresConversationRepo)(nil)

// PostgresConversationRepo keeps counselor turns sealed at rest.
type PostgresConversationRepo struct {
	pool   *pgxpool.Pool
	cipher security.TextCipher
}

func NewPostgresConversationRepo(pool *pgxpool.Pool, c security.TextCipher) *PostgresConversationRepo {
	if c == nil {
		c = security.PlainCipher{}
	}
	return &PostgresConversationRepo{pool: pool, cipher: c}
}

func (r *PostgresConversationRepo) AppendTurn(ctx context.Context, qx repository.Tx, t *model.Turn) error {
	body, err := r.cipher.Seal(t.UserID, t.Text)
	if err != nil {
		return fmt.Errorf("seal turn: %w", err)
	}
	const q = `
INSERT INTO conversation_turns (user_id, sender, body, created_at)
VALUES ($1,$2,$3,$4)
RETURNING id;`
	if err := pickRow(ctx, r.pool, qx, q, t.UserID, string(t.Sender), body, t.CreatedAt).Scan(&t.ID); err != nil {
		return mapErr(err)
	}
	return nil
}

func (r *PostgresConversationRepo) RecentTurns(ctx context.Context, qx repository.Tx, userID string, limit int) ([]*model.Turn, error) {
	if limit <= 0 {
		return nil, nil
	}
	const q = `
SELECT id, sender, body, created_at FROM (
  SELECT id, sender, body, created_at
    FROM conversation_turns
   WHERE user_id=$1
   ORDER BY id DESC
   LIMIT $2
) t ORDER BY id ASC;`
	rows, err := queryRows(ctx, r.pool, qx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()
	out := make([]*model.Turn, 0, limit)
	for rows.Next() {
		t := &model.Turn{UserID: userID}
		var sender, body string
		if err := rows.Scan(&t.ID, &sender, &body, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.Sender = model.Sender(sender)
		if t.Text, err = r.cipher.Open(userID, body); err != nil {
			return nil, fmt.Errorf("open turn %d: %w", t.ID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
