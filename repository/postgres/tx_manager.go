package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/planner/domain"
)

// TxManager runs use case operations in SERIALIZABLE transactions so that the
// read-validate-write sequence of each operation commits as one unit.
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return asConflict(err)
	}
	if err = tx.Commit(ctx); err != nil {
		return asConflict(err)
	}
	return nil
}

// asConflict reports serialization failures as a domain conflict. The caller
// may retry the whole operation.
func asConflict(err error) error {
	if isSerializationFailure(err) {
		return domain.WrapError(domain.ErrCodeConflict, "concurrent modification, retry the request", err)
	}
	return err
}
