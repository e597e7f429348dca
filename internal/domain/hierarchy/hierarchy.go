// Package hierarchy mantiene el bosque de roles sin ciclos (servicio de dominio).
// No guarda estado propio: lee los hijos de cada rol a través de ChildrenReader.
package hierarchy

import (
	"context"
	"fmt"

	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

// ChildrenReader es lo único que la jerarquía necesita del almacenamiento.
// repository.RoleRepository lo cumple.
type ChildrenReader interface {
	ListChildren(ctx context.Context, parentID int64) ([]*entity.Role, error)
}

// Hierarchy consultas y validaciones sobre la relación padre/hijo de los roles.
type Hierarchy struct {
	reader ChildrenReader
}

// New construye la jerarquía sobre un lector (pool o transacción).
func New(reader ChildrenReader) *Hierarchy {
	return &Hierarchy{reader: reader}
}

// ListDescendants recorre la relación hijos desde roleID con una pila explícita
// y devuelve todos los descendientes, sin incluir roleID.
// Encontrar un rol dos veces significa que los datos ya contienen un ciclo:
// se devuelve *domain.StructuralIntegrityError en lugar de iterar sin fin.
func (h *Hierarchy) ListDescendants(ctx context.Context, roleID int64) ([]*entity.Role, error) {
	visited := map[int64]struct{}{roleID: {}}
	stack := []int64{roleID}
	var out []*entity.Role

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		children, err := h.reader.ListChildren(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("hierarchy: hijos del rol %d: %w", current, err)
		}
		for _, child := range children {
			if _, seen := visited[child.ID]; seen {
				return nil, &domain.StructuralIntegrityError{RootID: roleID, RepeatID: child.ID}
			}
			visited[child.ID] = struct{}{}
			out = append(out, child)
			stack = append(stack, child.ID)
		}
	}
	return out, nil
}

// ValidateNewParent comprueba que asignar parentID como padre de childID mantiene el bosque.
// Debe llamarse antes de persistir cualquier cambio de padre.
func (h *Hierarchy) ValidateNewParent(ctx context.Context, childID, parentID int64) error {
	if childID == parentID {
		return &domain.ValidationError{
			Err: domain.ErrInvalidParent, RoleID: childID, ParentID: parentID,
			Reason: "un rol no puede ser su propio padre",
		}
	}
	descendants, err := h.ListDescendants(ctx, childID)
	if err != nil {
		return err
	}
	if containsRole(descendants, parentID) {
		return &domain.ValidationError{
			Err: domain.ErrInvalidParent, RoleID: childID, ParentID: parentID,
			Reason: "el padre no puede ser descendiente del rol",
		}
	}
	return nil
}

// ValidateDeletion devuelve los descendientes que se borran en cascada junto con roleID.
// No toca el almacenamiento; el llamador borra el conjunto en su transacción.
func (h *Hierarchy) ValidateDeletion(ctx context.Context, roleID int64) ([]*entity.Role, error) {
	return h.ListDescendants(ctx, roleID)
}

// IsDescendant informa si roleID está estrictamente por debajo de ancestorID.
func (h *Hierarchy) IsDescendant(ctx context.Context, ancestorID, roleID int64) (bool, error) {
	if ancestorID == roleID {
		return false, nil
	}
	descendants, err := h.ListDescendants(ctx, ancestorID)
	if err != nil {
		return false, err
	}
	return containsRole(descendants, roleID), nil
}

func containsRole(roles []*entity.Role, id int64) bool {
	for _, r := range roles {
		if r.ID == id {
			return true
		}
	}
	return false
}
