package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
)

var _ repository.SessionRepository = (*PostgresSessionRepo)(nil)

type PostgresSessionRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSessionRepo(pool *pgxpool.Pool) *PostgresSessionRepo {
	return &PostgresSessionRepo{pool: pool}
}

func (r *PostgresSessionRepo) Save(ctx context.Context, qx repository.Tx, b *model.SessionBooking) error {
	const q = `
INSERT INTO session_bookings (id, username, phone, problem, session_type, status, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET status=$6;`
	_, err := execOn(ctx, r.pool, qx, q, b.ID, b.Username, b.Phone, b.Problem, string(b.Type), string(b.Status), b.CreatedAt)
	return mapErr(err)
}

func (r *PostgresSessionRepo) FindByID(ctx context.Context, qx repository.Tx, id string) (*model.SessionBooking, error) {
	const q = `SELECT id, username, phone, problem, session_type, status, created_at FROM session_bookings WHERE id=$1;`
	var b model.SessionBooking
	var typ, status string
	if err := pickRow(ctx, r.pool, qx, q, id).Scan(&b.ID, &b.Username, &b.Phone, &b.Problem, &typ, &status, &b.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	b.Type = model.SessionType(typ)
	b.Status = model.BookingStatus(status)
	return &b, nil
}
