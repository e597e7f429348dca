package entity

import "time"

// User cliente o miembro del personal. Balance en céntimos.
type User struct {
	ID           int64
	Username     *string
	PasswordHash string // bcrypt; vacío si el usuario solo entra con tarjeta
	FirstName    string
	Name         string
	RoleID       int64
	CardIDHash   string // argon2id de la tarjeta con la sal anual SaltYear
	SaltYear     int
	Balance      int64
	GroupYear    *int
	Phone        *string
	Mail         *string
	StatsAgree   bool
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// HasPassword informa si el usuario puede hacer login con contraseña.
func (u *User) HasPassword() bool { return u.PasswordHash != "" }

// Anonymize borra los datos personales conservando saldo, rol y tarjeta.
func (u *User) Anonymize() {
	u.FirstName = ""
	u.Name = ""
	u.Mail = nil
	u.Phone = nil
	u.Username = nil
	u.GroupYear = nil
	u.StatsAgree = false
}
