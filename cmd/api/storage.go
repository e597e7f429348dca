package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/OpenBar-api/internal/application/order"
	"github.com/jhoicas/OpenBar-api/internal/application/role"
	"github.com/jhoicas/OpenBar-api/internal/application/usecase"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
	"github.com/jhoicas/OpenBar-api/internal/infrastructure/memory"
	"github.com/jhoicas/OpenBar-api/internal/infrastructure/postgres"
	"github.com/jhoicas/OpenBar-api/pkg/config"
	"github.com/jhoicas/OpenBar-api/pkg/logger"
)

// storage repositorios y runners de transacción del driver elegido.
type storage struct {
	roles      repository.RoleRepository
	perms      repository.PermissionRepository
	users      repository.UserRepository
	cardSalts  repository.CardSaltRepository
	recharges  repository.RechargeRepository
	orders     repository.OrderRepository
	roleTx     role.TxRunner
	orderTx    order.TxRunner
	rechargeTx usecase.RechargeTxRunner
}

// openStorage abre PostgreSQL (con migraciones) o el almacén en memoria según DB_DRIVER.
func openStorage(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*storage, func(), error) {
	switch cfg.Driver {
	case config.DriverMemory:
		log.Warn().Msg("driver en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &storage{
			roles: s.Roles(), perms: s.Permissions(), users: s.Users(), cardSalts: s.CardSalts(),
			recharges: s.Recharges(), orders: s.Orders(),
			roleTx: s, orderTx: s, rechargeTx: s,
		}, func() {}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("migraciones: %w", err)
		}
		tx := postgres.NewTxRunner(pool)
		return &storage{
			roles:      postgres.NewRoleRepository(pool),
			perms:      postgres.NewPermissionRepository(pool),
			users:      postgres.NewUserRepository(pool),
			cardSalts:  postgres.NewCardSaltRepository(pool),
			recharges:  postgres.NewRechargeRepository(pool),
			orders:     postgres.NewOrderRepository(pool),
			roleTx:     tx,
			orderTx:    tx,
			rechargeTx: tx,
		}, pool.Close, nil
	}
	return nil, nil, fmt.Errorf("driver desconocido %q", cfg.Driver)
}
