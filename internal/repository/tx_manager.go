package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TxRepositories bundles the repositories bound to one transaction.
type TxRepositories struct {
	Slots        SlotRepository
	Appointments AppointmentRepository
}

// TxManager runs a function against transaction-bound repositories,
// committing on success and rolling back on error. The booking protocol
// uses this so a failed slot claim takes the freshly created appointment
// down with it.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

type PgxTxManager struct {
	pool *pgxpool.Pool
}

func NewPgxTxManager(pool *pgxpool.Pool) *PgxTxManager {
	return &PgxTxManager{pool: pool}
}

func (m *PgxTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	repos := TxRepositories{
		Slots:        NewSlotPostgresRepository(tx),
		Appointments: NewAppointmentPostgresRepository(tx),
	}

	if err := fn(ctx, repos); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
