package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo roles en memoria.
type RoleRepo struct {
	s  *Store
	tx bool
}

func (r *RoleRepo) Create(ctx context.Context, role *entity.Role) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		if role.ParentID != nil {
			if _, ok := s.roles[*role.ParentID]; !ok {
				return domain.ErrNotFound
			}
		}
		role.ID = s.nextID("roles")
		s.roles[role.ID] = *role
		return nil
	})
}

func (r *RoleRepo) GetByID(_ context.Context, id int64) (*entity.Role, error) {
	var out *entity.Role
	r.s.withRead(func(s *snapshot) {
		if role, ok := s.roles[id]; ok {
			out = &role
		}
	})
	return out, nil
}

func (r *RoleRepo) List(_ context.Context) ([]*entity.Role, error) {
	var out []*entity.Role
	r.s.withRead(func(s *snapshot) {
		for _, role := range s.roles {
			role := role
			out = append(out, &role)
		}
	})
	sortRoles(out)
	return out, nil
}

func (r *RoleRepo) ListChildren(_ context.Context, parentID int64) ([]*entity.Role, error) {
	var out []*entity.Role
	r.s.withRead(func(s *snapshot) {
		for _, role := range s.roles {
			if role.ParentID != nil && *role.ParentID == parentID {
				role := role
				out = append(out, &role)
			}
		}
	})
	sortRoles(out)
	return out, nil
}

func (r *RoleRepo) Update(ctx context.Context, role *entity.Role) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		if _, ok := s.roles[role.ID]; !ok {
			return domain.ErrNotFound
		}
		if role.ParentID != nil {
			if _, ok := s.roles[*role.ParentID]; !ok {
				return domain.ErrNotFound
			}
		}
		s.roles[role.ID] = *role
		return nil
	})
}

// DeleteMany borra los roles y sus permisos. Falla con ErrConflict si algún usuario usa uno de ellos
// o si quedaría un rol huérfano fuera del conjunto.
func (r *RoleRepo) DeleteMany(ctx context.Context, ids []int64) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		return deleteRoles(s, toSet(ids))
	})
}

func (r *RoleRepo) DeleteAll(ctx context.Context) error {
	return r.s.withWrite(ctx, r.tx, func(s *snapshot) error {
		all := make(map[int64]struct{}, len(s.roles))
		for id := range s.roles {
			all[id] = struct{}{}
		}
		return deleteRoles(s, all)
	})
}

func deleteRoles(s *snapshot, ids map[int64]struct{}) error {
	for _, u := range s.users {
		if _, hit := ids[u.RoleID]; hit {
			return domain.ErrConflict
		}
	}
	for id, role := range s.roles {
		if _, gone := ids[id]; gone || role.ParentID == nil {
			continue
		}
		if _, parentGone := ids[*role.ParentID]; parentGone {
			return domain.ErrConflict
		}
	}
	for id := range ids {
		delete(s.roles, id)
	}
	for id, p := range s.perms {
		if p.RoleID == nil {
			continue
		}
		if _, gone := ids[*p.RoleID]; gone {
			delete(s.perms, id)
		}
	}
	return nil
}

func toSet(ids []int64) map[int64]struct{} {
	m := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func sortRoles(roles []*entity.Role) {
	sort.Slice(roles, func(i, j int) bool { return roles[i].ID < roles[j].ID })
}
