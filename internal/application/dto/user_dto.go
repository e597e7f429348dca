package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password y tarjeta en claro, se hashean en el use case).
type CreateUserRequest struct {
	Username   *string `json:"username" validate:"omitempty,min=1,max=100"`
	Password   string  `json:"password" validate:"omitempty,min=8,max=72"`
	FirstName  string  `json:"first_name" validate:"required,max=100"`
	Name       string  `json:"name" validate:"required,max=100"`
	RoleID     int64   `json:"role_id" validate:"required,gt=0"`
	CardID     string  `json:"card_id" validate:"required,max=64"`
	GroupYear  *int    `json:"group_year" validate:"omitempty,min=1900,max=3000"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	Mail       *string `json:"mail" validate:"omitempty,email,max=150"`
	StatsAgree bool    `json:"stats_agree"`
}

// UpdateUserRequest reemplaza los datos editables. Password y CardID vacíos conservan los actuales.
type UpdateUserRequest struct {
	Username   *string `json:"username" validate:"omitempty,min=1,max=100"`
	Password   string  `json:"password" validate:"omitempty,min=8,max=72"`
	FirstName  string  `json:"first_name" validate:"required,max=100"`
	Name       string  `json:"name" validate:"required,max=100"`
	RoleID     int64   `json:"role_id" validate:"required,gt=0"`
	CardID     string  `json:"card_id" validate:"omitempty,max=64"`
	GroupYear  *int    `json:"group_year" validate:"omitempty,min=1900,max=3000"`
	Phone      *string `json:"phone" validate:"omitempty,max=20"`
	Mail       *string `json:"mail" validate:"omitempty,email,max=150"`
	StatsAgree bool    `json:"stats_agree"`
}

// CardLookupRequest búsqueda de usuario por tarjeta.
type CardLookupRequest struct {
	CardID string `json:"card_id" validate:"required,max=64"`
}

// UserResponse salida de un usuario (sin password ni hash de tarjeta).
type UserResponse struct {
	ID         int64      `json:"id"`
	Username   *string    `json:"username,omitempty"`
	FirstName  string     `json:"first_name"`
	Name       string     `json:"name"`
	RoleID     int64      `json:"role_id"`
	Balance    int64      `json:"balance"`
	GroupYear  *int       `json:"group_year,omitempty"`
	Phone      *string    `json:"phone,omitempty"`
	Mail       *string    `json:"mail,omitempty"`
	StatsAgree bool       `json:"stats_agree"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
