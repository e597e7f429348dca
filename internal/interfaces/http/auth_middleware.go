package http

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/OpenBar-api/internal/application/auth"
	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
	"github.com/jhoicas/OpenBar-api/pkg/jwt"
)

// Locals keys para la identidad de la petición en Fiber.
const (
	LocalUserID    = "user_id"
	LocalGrants    = "grants"
	LocalLoginType = "login_type"
)

// basicAuthenticator lo que el middleware necesita para HTTP basic. Lo implementa *auth.AuthUseCase.
type basicAuthenticator interface {
	AuthenticateBasic(ctx context.Context, username, password string) (*auth.Principal, error)
}

// AuthConfig parámetros del middleware de autenticación.
type AuthConfig struct {
	Secret string
	Issuer string
	Basic  basicAuthenticator // nil = solo Bearer
}

// AuthMiddleware acepta "Bearer <jwt>" o "Basic <base64>" y carga la identidad en c.Locals.
func AuthMiddleware(cfg AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token> o Basic <credenciales>"})
		}
		value := strings.TrimSpace(parts[1])
		if value == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}

		switch {
		case strings.EqualFold(parts[0], "Bearer"):
			claims, err := jwt.Parse(cfg.Secret, value, cfg.Issuer)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
			}
			userID, err := claims.UserID()
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "sujeto del token inválido"})
			}
			setPrincipal(c, &auth.Principal{UserID: userID, LoginType: entity.LoginType(claims.LoginType), Grants: claims.Grants()})
		case strings.EqualFold(parts[0], "Basic") && cfg.Basic != nil:
			username, password, ok := decodeBasic(value)
			if !ok {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "credenciales basic mal formadas"})
			}
			p, err := cfg.Basic.AuthenticateBasic(c.UserContext(), username, password)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
			}
			setPrincipal(c, p)
		default:
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "esquema de autorización no soportado"})
		}
		return c.Next()
	}
}

// RequirePermission exige el permiso perm con cualquier alcance. Usar DESPUÉS de AuthMiddleware.
// El alcance concreto lo comprueba el handler contra el propietario del recurso.
func RequirePermission(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := auth.BestRange(GetGrants(c), perm); !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FORBIDDEN",
				Message: "permiso '" + perm + "' requerido",
			})
		}
		return c.Next()
	}
}

func setPrincipal(c *fiber.Ctx, p *auth.Principal) {
	c.Locals(LocalUserID, p.UserID)
	c.Locals(LocalGrants, p.Grants)
	c.Locals(LocalLoginType, p.LoginType)
}

func decodeBasic(value string) (string, string, bool) {
	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", "", false
	}
	username, password, ok := strings.Cut(string(raw), ":")
	return username, password, ok
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth); 0 si no hay.
func GetUserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalUserID).(int64)
	return id
}

// GetGrants devuelve los permisos "nombre.alcance" de la petición.
func GetGrants(c *fiber.Ctx) []string {
	g, _ := c.Locals(LocalGrants).([]string)
	return g
}

// GetLoginType devuelve el tipo de login de la petición.
func GetLoginType(c *fiber.Ctx) entity.LoginType {
	lt, _ := c.Locals(LocalLoginType).(entity.LoginType)
	return lt
}
