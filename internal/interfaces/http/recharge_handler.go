package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/application/usecase"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

// RechargeHandler recargas de saldo.
type RechargeHandler struct {
	uc     *usecase.RechargeUseCase
	access accessChecker
}

func NewRechargeHandler(uc *usecase.RechargeUseCase, access accessChecker) *RechargeHandler {
	return &RechargeHandler{uc: uc, access: access}
}

// List godoc
// @Summary      Listar recargas
// @Description  Requiere recharge.read con alcance EVERYONE.
// @Tags         recharges
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.RechargeResponse
// @Router       /api/recharge [get]
func (h *RechargeHandler) List(c *fiber.Ctx) error {
	if !hasEveryone(c, entity.PermRechargeRead) {
		return respondError(c, domain.ErrForbidden)
	}
	var page dto.PageRequest
	if ok, err := parseQuery(c, &page); !ok {
		return err
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener recarga
// @Tags         recharges
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la recarga"
// @Success      200  {object}  dto.RechargeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/recharge/{id} [get]
func (h *RechargeHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "INVALID_ID", "id inválido")
	}
	out, err := h.uc.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	if err := checkOwner(c, h.access, entity.PermRechargeRead, out.ClientID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Recargar saldo
// @Description  El barman es el usuario autenticado.
// @Tags         recharges
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRechargeRequest  true  "cliente y valor en céntimos"
// @Success      201   {object}  dto.RechargeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/recharge [post]
func (h *RechargeHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRechargeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if err := checkOwner(c, h.access, entity.PermRechargeWrite, in.ClientID); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
