package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/OpenBar-api/internal/application/auth"
	"github.com/jhoicas/OpenBar-api/internal/domain"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

// accessChecker lo implementa *auth.AccessChecker.
type accessChecker interface {
	CanAccess(ctx context.Context, actorID int64, grants []string, perm string, ownerID int64) (bool, error)
}

// checkOwner comprueba el alcance de perm frente al propietario del recurso.
func checkOwner(c *fiber.Ctx, checker accessChecker, perm string, ownerID int64) error {
	ok, err := checker.CanAccess(c.UserContext(), GetUserID(c), GetGrants(c), perm, ownerID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrForbidden
	}
	return nil
}

// hasEveryone informa si la petición tiene perm con alcance EVERYONE (listados globales).
func hasEveryone(c *fiber.Ctx, perm string) bool {
	r, ok := auth.BestRange(GetGrants(c), perm)
	return ok && r == entity.RangeEveryone
}
