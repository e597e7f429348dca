package memory

import (
	"context"

	"github.com/jhoicas/OpenBar-api/internal/application/order"
	"github.com/jhoicas/OpenBar-api/internal/application/role"
	"github.com/jhoicas/OpenBar-api/internal/application/usecase"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var (
	_ order.TxRunner            = (*Store)(nil)
	_ role.TxRunner             = (*Store)(nil)
	_ usecase.RechargeTxRunner = (*Store)(nil)
)

// RunOrder transacción de pedidos. Los bloqueos de fila no hacen falta: las transacciones no se solapan.
func (s *Store) RunOrder(ctx context.Context, fn func(orders repository.OrderRepository, users repository.UserRepository) error) error {
	return s.runTx(ctx, func() error {
		return fn(&OrderRepo{s: s, tx: true}, &UserRepo{s: s, tx: true})
	})
}

// RunRoles transacción de roles.
func (s *Store) RunRoles(ctx context.Context, fn func(roles repository.RoleRepository) error) error {
	return s.runTx(ctx, func() error {
		return fn(&RoleRepo{s: s, tx: true})
	})
}

// RunRecharge transacción de recargas.
func (s *Store) RunRecharge(ctx context.Context, fn func(recharges repository.RechargeRepository, users repository.UserRepository) error) error {
	return s.runTx(ctx, func() error {
		return fn(&RechargeRepo{s: s, tx: true}, &UserRepo{s: s, tx: true})
	})
}

// Roles repositorio de roles fuera de transacción.
func (s *Store) Roles() *RoleRepo { return &RoleRepo{s: s} }

// Permissions repositorio de permisos.
func (s *Store) Permissions() *PermissionRepo { return &PermissionRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// CardSalts repositorio de sales de tarjeta.
func (s *Store) CardSalts() *CardSaltRepo { return &CardSaltRepo{s: s} }

// Recharges repositorio de recargas.
func (s *Store) Recharges() *RechargeRepo { return &RechargeRepo{s: s} }

// Orders repositorio de pedidos.
func (s *Store) Orders() *OrderRepo { return &OrderRepo{s: s} }
