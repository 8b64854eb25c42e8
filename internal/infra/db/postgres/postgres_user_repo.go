package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"soulsync/internal/domain"
	"soulsync/internal/domain/model"
	"soulsync/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

const userColumns = `id, username, device_id, level, class_or_course, persona,
       spam_strikes, blocked_until, created_at, last_active_at`

func (r *PostgresUserRepo) Save(ctx context.Context, qx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (
  id, username, device_id, level, class_or_course, persona,
  spam_strikes, blocked_until, created_at, last_active_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10
) ON CONFLICT (id) DO UPDATE SET
  username=$2, level=$4, class_or_course=$5, persona=$6, last_active_at=$10;
`
	args := []interface{}{
		u.ID, u.Username, u.DeviceID, string(u.Level), u.ClassOrCourse, string(u.Persona),
		u.Spam.Strikes, nullTime(u.Spam.BlockedUntil), u.CreatedAt, u.LastActiveAt,
	}
	var err error
	switch v := qx.(type) {
	case pgx.Tx:
		_, err = v.Exec(ctx, q, args...)
	case *pgxpool.Conn:
		_, err = v.Exec(ctx, q, args...)
	default:
		_, err = r.pool.Exec(ctx, q, args...)
	}
	return mapErr(err)
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, qx repository.Tx, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id=$1;`
	return scanUser(pickRow(ctx, r.pool, qx, q, id))
}

func (r *PostgresUserRepo) FindByDeviceID(ctx context.Context, qx repository.Tx, deviceID string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE device_id=$1;`
	return scanUser(pickRow(ctx, r.pool, qx, q, deviceID))
}

func (r *PostgresUserRepo) ExistsUsername(ctx context.Context, qx repository.Tx, username string) (bool, error) {
	row := pickRow(ctx, r.pool, qx, `SELECT EXISTS (SELECT 1 FROM users WHERE username=$1);`, username)
	var ok bool
	if err := row.Scan(&ok); err != nil {
		return false, fmt.Errorf("exists username: %w", err)
	}
	return ok, nil
}

// LockSpamState takes the row lock when qx is a transaction; outside one the
// lock is released as soon as the statement completes.
func (r *PostgresUserRepo) LockSpamState(ctx context.Context, qx repository.Tx, userID string) (model.SpamState, error) {
	const q = `SELECT spam_strikes, blocked_until FROM users WHERE id=$1 FOR UPDATE;`
	var st model.SpamState
	var until *time.Time
	if err := pickRow(ctx, r.pool, qx, q, userID).Scan(&st.Strikes, &until); err != nil {
		return model.SpamState{}, mapErr(err)
	}
	if until != nil {
		st.BlockedUntil = *until
	}
	return st, nil
}

func (r *PostgresUserRepo) UpdateSpamState(ctx context.Context, qx repository.Tx, userID string, st model.SpamState) error {
	const q = `UPDATE users SET spam_strikes=$2, blocked_until=$3 WHERE id=$1;`
	tag, err := execOn(ctx, r.pool, qx, q, userID, st.Strikes, nullTime(st.BlockedUntil))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	var level, persona string
	var until *time.Time
	if err := row.Scan(&u.ID, &u.Username, &u.DeviceID, &level, &u.ClassOrCourse, &persona,
		&u.Spam.Strikes, &until, &u.CreatedAt, &u.LastActiveAt); err != nil {
		return nil, mapErr(err)
	}
	u.Level = model.Level(level)
	u.Persona = model.Persona(persona)
	if until != nil {
		u.Spam.BlockedUntil = *until
	}
	return &u, nil
}

func nullTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
