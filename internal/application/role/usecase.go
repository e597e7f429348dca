package role

import (
	"context"

	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/internal/domain/hierarchy"
	"github.com/jhoicas/OpenBar-api/internal/domain/repository"
	"github.com/jhoicas/OpenBar-api/pkg/logger"
)

// UseCase CRUD de roles y sus permisos; toda modificación del padre pasa por hierarchy.
type UseCase struct {
	roles repository.RoleRepository
	perms repository.PermissionRepository
	tx    TxRunner
	log   *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(roles repository.RoleRepository, perms repository.PermissionRepository, tx TxRunner, log *logger.Logger) *UseCase {
	return &UseCase{roles: roles, perms: perms, tx: tx, log: log.Component("roles")}
}

// List devuelve todos los roles.
func (uc *UseCase) List(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := uc.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	return toRoleResponses(roles), nil
}

// Get devuelve un rol o domain.ErrNotFound.
func (uc *UseCase) Get(ctx context.Context, id int64) (*dto.RoleResponse, error) {
	r, err := uc.roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	out := toRoleResponse(r)
	return &out, nil
}

// Create crea un rol. Un rol nuevo no tiene hijos, así que cualquier padre existente es válido.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateRoleRequest) (*dto.RoleResponse, error) {
	r := &entity.Role{Name: in.Name, ParentID: in.ParentID}
	err := uc.tx.RunRoles(ctx, func(roles repository.RoleRepository) error {
		if err := requireRole(ctx, roles, in.ParentID); err != nil {
			return err
		}
		return roles.Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	out := toRoleResponse(r)
	return &out, nil
}

// Update cambia nombre y padre. El nuevo padre debe existir y no puede ser el propio rol
// ni uno de sus descendientes; la comprobación y la escritura van en la misma transacción.
func (uc *UseCase) Update(ctx context.Context, id int64, in dto.UpdateRoleRequest) (*dto.RoleResponse, error) {
	var updated *entity.Role
	err := uc.tx.RunRoles(ctx, func(roles repository.RoleRepository) error {
		r, err := roles.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		if in.ParentID != nil {
			if err := requireRole(ctx, roles, in.ParentID); err != nil {
				return err
			}
			if err := hierarchy.New(roles).ValidateNewParent(ctx, id, *in.ParentID); err != nil {
				return err
			}
		}
		r.Name = in.Name
		r.ParentID = in.ParentID
		if err := roles.Update(ctx, r); err != nil {
			return err
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toRoleResponse(updated)
	return &out, nil
}

// Delete borra el rol junto con todos sus descendientes y devuelve los ids borrados.
func (uc *UseCase) Delete(ctx context.Context, id int64) ([]int64, error) {
	var ids []int64
	err := uc.tx.RunRoles(ctx, func(roles repository.RoleRepository) error {
		r, err := roles.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if r == nil {
			return domain.ErrNotFound
		}
		descendants, err := hierarchy.New(roles).ValidateDeletion(ctx, id)
		if err != nil {
			return err
		}
		ids = make([]int64, 0, len(descendants)+1)
		ids = append(ids, id)
		for _, d := range descendants {
			ids = append(ids, d.ID)
		}
		return roles.DeleteMany(ctx, ids)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("role_id", id).Int("deleted", len(ids)).Msg("rol borrado en cascada")
	return ids, nil
}

// DeleteAll borra todos los roles.
func (uc *UseCase) DeleteAll(ctx context.Context) error {
	return uc.tx.RunRoles(ctx, func(roles repository.RoleRepository) error {
		return roles.DeleteAll(ctx)
	})
}

// Descendants roles estrictamente por debajo de id.
func (uc *UseCase) Descendants(ctx context.Context, id int64) ([]dto.RoleResponse, error) {
	if _, err := uc.Get(ctx, id); err != nil {
		return nil, err
	}
	roles, err := hierarchy.New(uc.roles).ListDescendants(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRoleResponses(roles), nil
}

// ListPermissions permisos asignados al rol.
func (uc *UseCase) ListPermissions(ctx context.Context, roleID int64) ([]dto.PermissionResponse, error) {
	if _, err := uc.Get(ctx, roleID); err != nil {
		return nil, err
	}
	perms, err := uc.perms.ListByRole(ctx, roleID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, ToPermissionResponse(p))
	}
	return out, nil
}

// AddPermission asigna un permiso al rol. Un permiso repetido devuelve domain.ErrDuplicate.
func (uc *UseCase) AddPermission(ctx context.Context, roleID int64, in dto.PermissionRequest) (*dto.PermissionResponse, error) {
	if _, err := uc.Get(ctx, roleID); err != nil {
		return nil, err
	}
	p := &entity.Permission{
		Name:      in.Name,
		LoginType: entity.LoginType(in.LoginType),
		Range:     entity.Range(in.Range),
		RoleID:    &roleID,
	}
	if err := uc.perms.AddToRole(ctx, p); err != nil {
		return nil, err
	}
	out := ToPermissionResponse(p)
	return &out, nil
}

// RemovePermission quita un permiso del rol.
func (uc *UseCase) RemovePermission(ctx context.Context, roleID, permissionID int64) error {
	return uc.perms.RemoveFromRole(ctx, roleID, permissionID)
}

func requireRole(ctx context.Context, roles repository.RoleRepository, id *int64) error {
	if id == nil {
		return nil
	}
	r, err := roles.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if r == nil {
		return domain.ErrNotFound
	}
	return nil
}

func toRoleResponse(r *entity.Role) dto.RoleResponse {
	return dto.RoleResponse{ID: r.ID, Name: r.Name, ParentID: r.ParentID}
}

func toRoleResponses(roles []*entity.Role) []dto.RoleResponse {
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResponse(r))
	}
	return out
}

// ToPermissionResponse convierte la entidad al DTO de salida.
func ToPermissionResponse(p *entity.Permission) dto.PermissionResponse {
	return dto.PermissionResponse{
		ID:        p.ID,
		Name:      p.Name,
		LoginType: int(p.LoginType),
		Range:     int(p.Range),
		RoleID:    p.RoleID,
		UserID:    p.UserID,
	}
}
