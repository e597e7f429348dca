package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo permisos en memoria.
type PermissionRepo struct {
	s *Store
}

func (r *PermissionRepo) AddToRole(ctx context.Context, perm *entity.Permission) error {
	return r.s.withWrite(ctx, false, func(s *snapshot) error {
		if perm.RoleID == nil {
			return domain.ErrInvalidInput
		}
		if _, ok := s.roles[*perm.RoleID]; !ok {
			return domain.ErrNotFound
		}
		for _, p := range s.perms {
			if p.RoleID != nil && *p.RoleID == *perm.RoleID && p.Name == perm.Name && p.LoginType == perm.LoginType {
				return domain.ErrDuplicate
			}
		}
		perm.ID = s.nextID("permissions")
		s.perms[perm.ID] = *perm
		return nil
	})
}

// AddToUser permiso propio de un usuario.
func (r *PermissionRepo) AddToUser(ctx context.Context, perm *entity.Permission) error {
	return r.s.withWrite(ctx, false, func(s *snapshot) error {
		if perm.UserID == nil {
			return domain.ErrInvalidInput
		}
		if _, ok := s.users[*perm.UserID]; !ok {
			return domain.ErrUserNotFound
		}
		perm.ID = s.nextID("permissions")
		s.perms[perm.ID] = *perm
		return nil
	})
}

func (r *PermissionRepo) ListByRole(_ context.Context, roleID int64) ([]*entity.Permission, error) {
	return r.filter(func(p entity.Permission) bool {
		return p.RoleID != nil && *p.RoleID == roleID
	}), nil
}

func (r *PermissionRepo) RemoveFromRole(ctx context.Context, roleID, permissionID int64) error {
	return r.s.withWrite(ctx, false, func(s *snapshot) error {
		p, ok := s.perms[permissionID]
		if !ok || p.RoleID == nil || *p.RoleID != roleID {
			return domain.ErrNotFound
		}
		delete(s.perms, permissionID)
		return nil
	})
}

func (r *PermissionRepo) ListGranted(_ context.Context, roleID, userID int64, loginType entity.LoginType) ([]*entity.Permission, error) {
	return r.filter(func(p entity.Permission) bool {
		if p.LoginType != loginType {
			return false
		}
		return (p.RoleID != nil && *p.RoleID == roleID) || (p.UserID != nil && *p.UserID == userID)
	}), nil
}

func (r *PermissionRepo) filter(keep func(entity.Permission) bool) []*entity.Permission {
	var out []*entity.Permission
	r.s.withRead(func(s *snapshot) {
		for _, p := range s.perms {
			if keep(p) {
				p := p
				out = append(out, &p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
