package dto

// CreateRoleRequest entrada para crear un rol. ParentID nil crea una raíz.
type CreateRoleRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,gt=0"`
}

// UpdateRoleRequest reemplaza nombre y padre del rol (PUT).
type UpdateRoleRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	ParentID *int64 `json:"parent_id" validate:"omitempty,gt=0"`
}

// RoleResponse salida de un rol.
type RoleResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
}

// PermissionRequest permiso a añadir a un rol.
type PermissionRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100"`
	LoginType int    `json:"login_type" validate:"min=0,max=2"`
	Range     int    `json:"range" validate:"min=0,max=2"`
}

// PermissionResponse salida de un permiso.
type PermissionResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	LoginType int    `json:"login_type"`
	Range     int    `json:"range"`
	RoleID    *int64 `json:"role_id,omitempty"`
	UserID    *int64 `json:"user_id,omitempty"`
}
