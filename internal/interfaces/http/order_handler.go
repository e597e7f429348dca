package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/application/order"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

// OrderHandler cesta del usuario autenticado y gestión de pedidos por el barman.
type OrderHandler struct {
	uc     *order.UseCase
	access accessChecker
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase, access accessChecker) *OrderHandler {
	return &OrderHandler{uc: uc, access: access}
}

// List godoc
// @Summary      Listar pedidos
// @Description  Con order.read EVERYONE lista todos; si no, solo los del usuario.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/order [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	return h.list(c, false)
}

// ListComplete godoc
// @Summary      Listar pedidos completos (sin cestas)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrderListResponse
// @Router       /api/order/complete [get]
func (h *OrderHandler) ListComplete(c *fiber.Ctx) error {
	return h.list(c, true)
}

func (h *OrderHandler) list(c *fiber.Ctx, completeOnly bool) error {
	var page dto.PageRequest
	if ok, err := parseQuery(c, &page); !ok {
		return err
	}
	var clientID *int64
	if !hasEveryone(c, entity.PermOrderRead) {
		self := GetUserID(c)
		clientID = &self
	}
	out, err := h.uc.List(c.UserContext(), completeOnly, clientID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Basket godoc
// @Summary      Cesta del usuario (se crea si no existe)
// @Tags         basket
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrderResponse
// @Router       /api/order/basket [get]
func (h *OrderHandler) Basket(c *fiber.Ctx) error {
	out, err := h.uc.GetOrCreateBasket(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// EmptyBasket godoc
// @Summary      Vaciar la cesta
// @Tags         basket
// @Security     Bearer
// @Success      204
// @Router       /api/order/basket [delete]
func (h *OrderHandler) EmptyBasket(c *fiber.Ctx) error {
	if err := h.uc.EmptyBasket(c.UserContext(), GetUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetBasketItem godoc
// @Summary      Fijar cantidad de un producto en la cesta
// @Description  quantity=0 quita la línea; negativa da 400.
// @Tags         basket
// @Security     Bearer
// @Produce      json
// @Param        product_id  path   int  true  "ID del producto"
// @Param        quantity    query  int  true  "Cantidad"
// @Param        unit_price  query  int  true  "Precio unitario en céntimos"
// @Success      200  {object}  dto.OrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      417  {object}  dto.ErrorResponse
// @Router       /api/order/basket/items/{product_id} [put]
func (h *OrderHandler) SetBasketItem(c *fiber.Ctx) error {
	productID, ok := paramID(c, "product_id")
	if !ok {
		return badRequest(c, "INVALID_ID", "product_id inválido")
	}
	var in dto.SetItemRequest
	if ok, err := parseQuery(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetBasketItem(c.UserContext(), GetUserID(c), productID, in.Quantity, in.UnitPrice)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ValidateBasket godoc
// @Summary      Validar la cesta (debita el saldo)
// @Tags         basket
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      417  {object}  dto.ErrorResponse
// @Router       /api/order/basket/validate [put]
func (h *OrderHandler) ValidateBasket(c *fiber.Ctx) error {
	out, err := h.uc.ValidateBasket(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/order/{id} [get]
func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if err := checkOwner(c, h.access, entity.PermOrderRead, out.ClientID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Ticket PDF del pedido
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      417  {object}  dto.ErrorResponse
// @Router       /api/order/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	o, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if err := checkOwner(c, h.access, entity.PermOrderRead, o.ClientID); err != nil {
		return respondError(c, err)
	}
	pdf, err := h.uc.Receipt(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="pedido-%d.pdf"`, id))
	return c.Send(pdf)
}

// Cancel godoc
// @Summary      Cancelar pedido
// @Description  Si estaba validado se reembolsa el total.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      417  {object}  dto.ErrorResponse
// @Router       /api/order/cancel/{id} [put]
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	if err := h.checkManage(c, id); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Cancel(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Finish godoc
// @Summary      Terminar pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      417  {object}  dto.ErrorResponse
// @Router       /api/order/finish/{id} [put]
func (h *OrderHandler) Finish(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	if err := h.checkManage(c, id); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Finish(c.UserContext(), id, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// checkManage aplica el alcance de order.manage al cliente dueño del pedido.
func (h *OrderHandler) checkManage(c *fiber.Ctx, orderID int64) error {
	o, err := h.uc.Get(c.UserContext(), orderID)
	if err != nil {
		return err
	}
	return checkOwner(c, h.access, entity.PermOrderManage, o.ClientID)
}
