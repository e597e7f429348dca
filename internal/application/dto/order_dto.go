package dto

import "time"

// SetItemRequest cantidad y precio de una línea de la cesta (query string).
// Quantity 0 quita la línea.
type SetItemRequest struct {
	Quantity  int64 `query:"quantity"`
	UnitPrice int64 `query:"unit_price" validate:"min=0"`
}

// OrderItemResponse línea de pedido.
type OrderItemResponse struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
	UnitPrice int64 `json:"unit_price"`
	Subtotal  int64 `json:"subtotal"`
}

// OrderResponse salida de un pedido con sus líneas y total.
type OrderResponse struct {
	ID          int64               `json:"id"`
	ClientID    int64               `json:"client_id"`
	BarmanID    *int64              `json:"barman_id,omitempty"`
	Status      string              `json:"status"`
	Total       int64               `json:"total"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
	ValidatedAt *time.Time          `json:"validated_at,omitempty"`
	EndedAt     *time.Time          `json:"ended_at,omitempty"`
}

// OrderListResponse página de pedidos.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
