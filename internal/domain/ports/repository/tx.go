package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager runs fn inside a database transaction and hands the
// transaction handle to repositories through tx.
//
// The concrete type of tx is infra-defined (pgx.Tx for Postgres).
// Repositories MUST accept a nil tx and fall back to the pool.
//
// tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
//	st, err := users.LockSpamState(ctx, tx, userID)
//	...
//	return users.UpdateSpamState(ctx, tx, userID, st)
// })
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
