package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// LoginType cómo se autenticó el usuario; cada tipo tiene su propio juego de permisos.
type LoginType int

const (
	LoginPartial  LoginType = iota // solo tarjeta NFC
	LoginNormal                    // contraseña o tarjeta + contraseña
	LoginPassword                  // HTTP basic en cada petición
)

// Range alcance de un permiso respecto al propietario del recurso.
type Range int

const (
	RangeSelf            Range = iota // solo recursos propios
	RangeUnderprivileged              // recursos de usuarios con rol descendiente
	RangeEveryone                     // cualquier recurso
)

// Nombres de permisos usados por la API.
const (
	PermRoleRead      = "role.read"
	PermRoleWrite     = "role.write"
	PermUserRead      = "user.read"
	PermUserWrite     = "user.write"
	PermRechargeRead  = "recharge.read"
	PermRechargeWrite = "recharge.write"
	PermOrderRead     = "order.read"
	PermOrderManage   = "order.manage"
	PermOrderBasket   = "order.basket"
)

// Permission permiso base; se asigna a un rol (RoleID) o a un usuario (UserID).
type Permission struct {
	ID        int64
	Name      string
	LoginType LoginType
	Range     Range
	RoleID    *int64
	UserID    *int64
}

// Grant forma serializada en el token: "<nombre>.<alcance>".
func (p *Permission) Grant() string {
	return fmt.Sprintf("%s.%d", p.Name, p.Range)
}

// ParseGrant separa "<nombre>.<alcance>". ok=false si el formato no es válido.
func ParseGrant(s string) (name string, r Range, ok bool) {
	i := strings.LastIndexByte(s, '.')
	if i <= 0 || i == len(s)-1 {
		return "", 0, false
	}
	n, err := strconv.Atoi(s[i+1:])
	if err != nil || n < int(RangeSelf) || n > int(RangeEveryone) {
		return "", 0, false
	}
	return s[:i], Range(n), true
}
