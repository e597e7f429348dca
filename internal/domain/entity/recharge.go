package entity

import "time"

// Recharge recarga del saldo de un cliente hecha por un barman.
type Recharge struct {
	ID        int64
	BarmanID  int64
	ClientID  int64
	Value     int64 // céntimos, estrictamente positivo
	CreatedAt time.Time
}
