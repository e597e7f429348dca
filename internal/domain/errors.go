package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrUserNotFound = errors.New("usuario no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")
)

// Jerarquía de roles.
var (
	ErrStructuralIntegrity = errors.New("jerarquía de roles corrupta: ciclo en los datos almacenados")
	ErrInvalidParent       = errors.New("padre de rol inválido")
)

// Ciclo de vida de pedidos.
var (
	ErrOrderNotEditable  = errors.New("el pedido ya no es editable")
	ErrInvalidQuantity   = errors.New("la cantidad debe ser positiva")
	ErrWrongState        = errors.New("el pedido no está en la cesta")
	ErrInsufficientFunds = errors.New("saldo insuficiente para validar el pedido")
	ErrAlreadyFinished   = errors.New("el pedido ya está terminado")
	ErrAlreadyCancelled  = errors.New("el pedido ya está cancelado")
	ErrNotReady          = errors.New("el pedido no está validado")
)

// StructuralIntegrityError indica que el recorrido de la jerarquía encontró un rol dos veces.
// Nunca se repara automáticamente.
type StructuralIntegrityError struct {
	RootID   int64 // rol desde el que empezó el recorrido
	RepeatID int64 // rol encontrado por segunda vez
}

func (e *StructuralIntegrityError) Error() string {
	return fmt.Sprintf("%s (raíz %d, rol repetido %d)", ErrStructuralIntegrity, e.RootID, e.RepeatID)
}

func (e *StructuralIntegrityError) Unwrap() error { return ErrStructuralIntegrity }

// ValidationError rechaza un cambio estructural de la jerarquía de roles.
type ValidationError struct {
	Err      error // siempre ErrInvalidParent por ahora
	RoleID   int64
	ParentID int64
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: rol %d, padre %d: %s", e.Err, e.RoleID, e.ParentID, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StateError rechaza una transición del ciclo de vida de un pedido.
// Err identifica el invariante violado (ErrWrongState, ErrNotReady, ...).
type StateError struct {
	Err     error
	OrderID int64
	Status  string
}

func (e *StateError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("pedido %d: %s", e.OrderID, e.Err)
	}
	return fmt.Sprintf("pedido %d (%s): %s", e.OrderID, e.Status, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }
