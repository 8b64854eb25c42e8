package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
)

var _ repository.MoodRepository = (*PostgresMoodRepo)(nil)

// PostgresMoodRepo stores daily check-ins. Days are DATE values, so the
// caller's local midnight round-trips as a calendar day.
type PostgresMoodRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresMoodRepo(pool *pgxpool.Pool) *PostgresMoodRepo {
	return &PostgresMoodRepo{pool: pool}
}

func (r *PostgresMoodRepo) Create(ctx context.Context, qx repository.Tx, e *model.MoodEntry) error {
	const q = `INSERT INTO mood_entries (id, user_id, mood, day, created_at) VALUES ($1,$2,$3,$4,$5);`
	_, err := execOn(ctx, r.pool, qx, q, e.ID, e.UserID, string(e.Mood), calendarDay(e.Date), e.CreatedAt)
	return mapErr(err)
}

func (r *PostgresMoodRepo) FindByDate(ctx context.Context, qx repository.Tx, userID string, day time.Time) (*model.MoodEntry, error) {
	const q = `SELECT id, user_id, mood, day, created_at FROM mood_entries WHERE user_id=$1 AND day=$2;`
	return scanMood(pickRow(ctx, r.pool, qx, q, userID, calendarDay(day)), day.Location())
}

func (r *PostgresMoodRepo) ListRange(ctx context.Context, qx repository.Tx, userID string, from, to time.Time) ([]*model.MoodEntry, error) {
	const q = `
SELECT id, user_id, mood, day, created_at
  FROM mood_entries
 WHERE user_id=$1 AND day BETWEEN $2 AND $3
 ORDER BY day ASC;`
	rows, err := queryRows(ctx, r.pool, qx, q, userID, calendarDay(from), calendarDay(to))
	if err != nil {
		return nil, fmt.Errorf("query moods: %w", err)
	}
	defer rows.Close()
	var out []*model.MoodEntry
	for rows.Next() {
		e, err := scanMood(rows, from.Location())
		if err != nil {
			return nil, fmt.Errorf("scan mood: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanMood(row pgx.Row, loc *time.Location) (*model.MoodEntry, error) {
	var e model.MoodEntry
	var mood string
	var day time.Time
	if err := row.Scan(&e.ID, &e.UserID, &mood, &day, &e.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	e.Mood = model.DailyMood(mood)
	y, m, d := day.Date()
	e.Date = time.Date(y, m, d, 0, 0, 0, 0, loc)
	return &e, nil
}

// calendarDay pins t's local date to UTC midnight so the driver encodes the
// intended DATE regardless of the session time zone.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
