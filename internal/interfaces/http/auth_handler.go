package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/OpenBar-api/internal/application/auth"
	"github.com/jhoicas/OpenBar-api/internal/application/dto"
)

// AuthHandler maneja la emisión de tokens y el historial de logins.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Token godoc
// @Summary      Obtener token
// @Description  username con prefijo: "username:<nombre>", "card_id:<tarjeta>" o "token:<jwt>" (renovación).
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username con prefijo, password"
// @Success      200   {object}  dto.TokenResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/token [post]
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Últimos logins
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LoginHistoryEntry
// @Router       /api/auth/history [get]
func (h *AuthHandler) History(c *fiber.Ctx) error {
	return c.JSON(h.uc.History())
}
