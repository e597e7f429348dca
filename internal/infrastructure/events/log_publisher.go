package events

import (
	"context"

	"github.com/jhoicas/OpenBar-api/internal/application/order"
	"github.com/jhoicas/OpenBar-api/pkg/logger"
)

var _ order.EventPublisher = (*LogPublisher)(nil)

// LogPublisher registra los eventos en el log; se usa cuando no hay brokers configurados.
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher construye el publicador.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log.Component("events")}
}

func (p *LogPublisher) Publish(_ context.Context, evt order.Event) error {
	p.log.Info().
		Str("event", evt.Type).
		Int64("order_id", evt.OrderID).
		Int64("client_id", evt.ClientID).
		Str("status", evt.Status).
		Int64("total", evt.Total).
		Msg("evento de pedido")
	return nil
}
