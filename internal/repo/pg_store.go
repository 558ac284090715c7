package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"tasks/internal/utils"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PGStore implements Store with Postgres.
type PGStore struct {
	pool *pgxpool.Pool
	db   DBTX
	inTx bool
}

func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool, db: pool}
}

func (s *PGStore) TaskLists() TaskListRepo {
	return &PGTaskListRepo{db: s.db, lock: s.inTx}
}

func (s *PGStore) Tasks() TaskRepo {
	return &PGTaskRepo{db: s.db, lock: s.inTx}
}

func (s *PGStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		return fn(&PGStore{pool: s.pool, db: tx, inTx: true})
	})
}

// translate maps driver errors onto the package sentinels; everything else passes through.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case utils.IsPGForeignKeyViolation(err):
		return errors.Join(ErrForeignKey, err)
	}
	return err
}
