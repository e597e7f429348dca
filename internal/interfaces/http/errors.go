package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/domain"
)

// Rechazos de reglas del dominio: 417 Expectation Failed, como en la API original de OpenBar.
var expectationFailed = []struct {
	err  error
	code string
}{
	{domain.ErrInvalidParent, "INVALID_PARENT"},
	{domain.ErrOrderNotEditable, "ORDER_NOT_EDITABLE"},
	{domain.ErrWrongState, "WRONG_STATE"},
	{domain.ErrInsufficientFunds, "INSUFFICIENT_FUNDS"},
	{domain.ErrAlreadyFinished, "ALREADY_FINISHED"},
	{domain.ErrAlreadyCancelled, "ALREADY_CANCELLED"},
	{domain.ErrNotReady, "NOT_READY"},
}

// respondError traduce un error de caso de uso a status + dto.ErrorResponse.
func respondError(c *fiber.Ctx, err error) error {
	for _, e := range expectationFailed {
		if errors.Is(err, e.err) {
			return c.Status(fiber.StatusExpectationFailed).JSON(dto.ErrorResponse{Code: e.code, Message: err.Error()})
		}
	}
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "permiso insuficiente"})
	case errors.Is(err, domain.ErrStructuralIntegrity):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "STRUCTURAL_INTEGRITY", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
