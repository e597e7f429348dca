package auth

import (
	"context"

	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/hierarchy"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

// BestRange mayor alcance concedido para perm entre grants ("nombre.rango"). ok=false si no hay ninguno.
func BestRange(grants []string, perm string) (entity.Range, bool) {
	best, found := entity.RangeSelf, false
	for _, g := range grants {
		name, r, ok := entity.ParseGrant(g)
		if !ok || name != perm {
			continue
		}
		if !found || r > best {
			best, found = r, true
		}
	}
	return best, found
}

// AccessChecker decide si un usuario puede actuar sobre un recurso de otro según el alcance del permiso.
type AccessChecker struct {
	users repository.UserRepository
	roles *hierarchy.Hierarchy
}

// NewAccessChecker construye el verificador sobre usuarios y la jerarquía de roles.
func NewAccessChecker(users repository.UserRepository, roles repository.RoleRepository) *AccessChecker {
	return &AccessChecker{users: users, roles: hierarchy.New(roles)}
}

// CanAccess informa si actorID, con grants, puede usar perm sobre un recurso de ownerID.
//   - EVERYONE: siempre.
//   - UNDERPRIVILEGED: el propio actor o usuarios cuyo rol cuelga del rol del actor.
//   - SELF: solo el propio actor.
func (a *AccessChecker) CanAccess(ctx context.Context, actorID int64, grants []string, perm string, ownerID int64) (bool, error) {
	r, ok := BestRange(grants, perm)
	if !ok {
		return false, nil
	}
	switch {
	case r == entity.RangeEveryone:
		return true, nil
	case actorID == ownerID:
		return true, nil
	case r == entity.RangeSelf:
		return false, nil
	}

	actor, err := a.users.GetByID(ctx, actorID)
	if err != nil {
		return false, err
	}
	if actor == nil {
		return false, domain.ErrUnauthorized
	}
	owner, err := a.users.GetByID(ctx, ownerID)
	if err != nil {
		return false, err
	}
	if owner == nil {
		return false, domain.ErrUserNotFound
	}
	return a.roles.IsDescendant(ctx, actor.RoleID, owner.RoleID)
}
