package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/OpenBar-api/internal/application/order"
	"github.com/jhoicas/OpenBar-api/internal/application/role"
	"github.com/jhoicas/OpenBar-api/internal/application/usecase"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var (
	_ order.TxRunner           = (*TxRunner)(nil)
	_ role.TxRunner            = (*TxRunner)(nil)
	_ usecase.RechargeTxRunner = (*TxRunner)(nil)
)

// roleTreeLockKey clave del bloqueo consultivo que serializa los cambios de la jerarquía de roles.
const roleTreeLockKey int64 = 0x0BA5_0002

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunOrder transacción con repos de pedidos y usuarios atados a la tx.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(orders repository.OrderRepository, users repository.UserRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewUserRepository(tx))
	})
}

// RunRoles toma pg_advisory_xact_lock antes de fn: las reasignaciones de padre se ven en orden.
func (r *TxRunner) RunRoles(ctx context.Context, fn func(roles repository.RoleRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, roleTreeLockKey); err != nil {
			return fmt.Errorf("lock role tree: %w", err)
		}
		return fn(NewRoleRepository(tx))
	})
}

// RunRecharge transacción con repos de recargas y usuarios.
func (r *TxRunner) RunRecharge(ctx context.Context, fn func(recharges repository.RechargeRepository, users repository.UserRepository) error) error {
	return r.run(ctx, func(tx pgx.Tx) error {
		return fn(NewRechargeRepository(tx), NewUserRepository(tx))
	})
}

// run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
