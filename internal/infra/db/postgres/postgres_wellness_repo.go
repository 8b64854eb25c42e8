package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
)

var _ repository.WellnessRepository = (*PostgresWellnessRepo)(nil)

type PostgresWellnessRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresWellnessRepo(pool *pgxpool.Pool) *PostgresWellnessRepo {
	return &PostgresWellnessRepo{pool: pool}
}

func (r *PostgresWellnessRepo) ListByMood(ctx context.Context, qx repository.Tx, mood model.DailyMood) ([]*model.Exercise, error) {
	const q = `
SELECT id, mood, title, category, content, emoji, duration, intensity, sort_order
  FROM wellness_exercises
 WHERE mood=$1
 ORDER BY sort_order ASC, id ASC;`
	rows, err := queryRows(ctx, r.pool, qx, q, string(mood))
	if err != nil {
		return nil, fmt.Errorf("query exercises: %w", err)
	}
	defer rows.Close()
	var out []*model.Exercise
	for rows.Next() {
		var e model.Exercise
		var m string
		if err := rows.Scan(&e.ID, &m, &e.Title, &e.Category, &e.Content, &e.Emoji, &e.Duration, &e.Intensity, &e.Order); err != nil {
			return nil, fmt.Errorf("scan exercise: %w", err)
		}
		e.Mood = model.DailyMood(m)
		out = append(out, &e)
	}
	return out, rows.Err()
}

func (r *PostgresWellnessRepo) Upsert(ctx context.Context, qx repository.Tx, e *model.Exercise) error {
	const q = `
INSERT INTO wellness_exercises (id, mood, title, category, content, emoji, duration, intensity, sort_order)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
  mood=$2, title=$3, category=$4, content=$5, emoji=$6, duration=$7, intensity=$8, sort_order=$9;`
	_, err := execOn(ctx, r.pool, qx, q, e.ID, string(e.Mood), e.Title, e.Category, e.Content, e.Emoji, e.Duration, e.Intensity, e.Order)
	return mapErr(err)
}
