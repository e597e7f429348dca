package dto

import "time"

// CreateRechargeRequest recarga de saldo; Value en céntimos.
type CreateRechargeRequest struct {
	ClientID int64 `json:"client_id" validate:"required,gt=0"`
	Value    int64 `json:"value" validate:"required"`
}

// RechargeResponse salida de una recarga.
type RechargeResponse struct {
	ID        int64     `json:"id"`
	BarmanID  int64     `json:"barman_id"`
	ClientID  int64     `json:"client_id"`
	Value     int64     `json:"value"`
	CreatedAt time.Time `json:"created_at"`
}
