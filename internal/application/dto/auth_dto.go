package dto

import "time"

// LoginRequest entrada de POST /auth/token.
// Username lleva prefijo: "username:<nombre>", "card_id:<tarjeta>" o "token:<jwt>".
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
}

// TokenResponse token emitido y sus permisos.
type TokenResponse struct {
	Token       string   `json:"token"`
	UserID      int64    `json:"user_id"`
	LoginType   int      `json:"login_type"`
	Permissions []string `json:"permissions"`
	ExpiresIn   int      `json:"expires_in"` // segundos
}

// LoginHistoryEntry login exitoso registrado.
type LoginHistoryEntry struct {
	UserID    int64     `json:"user_id"`
	Method    string    `json:"method"`
	LoginType int       `json:"login_type"`
	At        time.Time `json:"at"`
}
