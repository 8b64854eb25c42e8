package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
)

var _ repository.CommunityRepository = (*PostgresCommunityRepo)(nil)

type PostgresCommunityRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCommunityRepo(pool *pgxpool.Pool) *PostgresCommunityRepo {
	return &PostgresCommunityRepo{pool: pool}
}

func (r *PostgresCommunityRepo) Create(ctx context.Context, qx repository.Tx, p *model.Post) error {
	const q = `INSERT INTO community_posts (id, user_id, body, created_at) VALUES ($1,$2,$3,$4);`
	_, err := execOn(ctx, r.pool, qx, q, p.ID, p.UserID, p.Text, p.CreatedAt)
	return mapErr(err)
}

func (r *PostgresCommunityRepo) CountSince(ctx context.Context, qx repository.Tx, userID string, since time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM community_posts WHERE user_id=$1 AND created_at >= $2;`
	var n int
	if err := pickRow(ctx, r.pool, qx, q, userID, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func (r *PostgresCommunityRepo) ListAll(ctx context.Context, qx repository.Tx) ([]*model.Post, error) {
	const q = `
SELECT p.id, p.user_id, COALESCE(u.username, 'Anonymous'), p.body, p.created_at
  FROM community_posts p
  LEFT JOIN users u ON u.id = p.user_id
 ORDER BY p.created_at ASC, p.id ASC;`
	rows, err := queryRows(ctx, r.pool, qx, q)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()
	var out []*model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Username, &p.Text, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *PostgresCommunityRepo) DeleteOlderThan(ctx context.Context, qx repository.Tx, cutoff time.Time) (int64, error) {
	tag, err := execOn(ctx, r.pool, qx, `DELETE FROM community_posts WHERE created_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge posts: %w", err)
	}
	return tag.RowsAffected(), nil
}
