package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/OpenBar-api/internal/application/auth"
	"github.com/jhoicas/OpenBar-api/internal/application/order"
	"github.com/jhoicas/OpenBar-api/internal/application/role"
	"github.com/jhoicas/OpenBar-api/internal/application/usecase"
	"github.com/jhoicas/OpenBar-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	Access     *auth.AccessChecker
	RoleUC     *role.UseCase
	UserUC     *usecase.UserUseCase
	RechargeUC *usecase.RechargeUseCase
	OrderUC    *order.UseCase
	JWTSecret  string
	JWTIssuer  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/token", authHandler.Token)

	// Rutas protegidas (Bearer o Basic)
	protected := api.Group("/", AuthMiddleware(AuthConfig{
		Secret: deps.JWTSecret,
		Issuer: deps.JWTIssuer,
		Basic:  deps.AuthUC,
	}))
	protected.Get("/auth/history", RequirePermission(entity.PermUserRead), authHandler.History)

	// Roles
	roles := protected.Group("/role")
	roleHandler := NewRoleHandler(deps.RoleUC)
	read, write := RequirePermission(entity.PermRoleRead), RequirePermission(entity.PermRoleWrite)
	roles.Get("/", read, roleHandler.List)
	roles.Post("/", write, roleHandler.Create)
	roles.Delete("/", write, roleHandler.DeleteAll)
	roles.Get("/:id", read, roleHandler.Get)
	roles.Put("/:id", write, roleHandler.Update)
	roles.Delete("/:id", write, roleHandler.Delete)
	roles.Get("/:id/descendants", read, roleHandler.Descendants)
	roles.Get("/:id/permissions", read, roleHandler.ListPermissions)
	roles.Post("/:id/permissions", write, roleHandler.AddPermission)
	roles.Delete("/:id/permissions/:pid", write, roleHandler.RemovePermission)

	// Users
	users := protected.Group("/user")
	userHandler := NewUserHandler(deps.UserUC, deps.Access)
	users.Get("/me", userHandler.Me)
	users.Post("/card", RequirePermission(entity.PermUserRead), userHandler.FindByCard)
	users.Put("/anonymize/:id", RequirePermission(entity.PermUserWrite), userHandler.Anonymize)
	users.Get("/", RequirePermission(entity.PermUserRead), userHandler.List)
	users.Post("/", RequirePermission(entity.PermUserWrite), userHandler.Create)
	users.Get("/:id", RequirePermission(entity.PermUserRead), userHandler.Get)
	users.Put("/:id", RequirePermission(entity.PermUserWrite), userHandler.Update)
	users.Delete("/:id", RequirePermission(entity.PermUserWrite), userHandler.Delete)

	// Recharges
	recharges := protected.Group("/recharge")
	rechargeHandler := NewRechargeHandler(deps.RechargeUC, deps.Access)
	recharges.Get("/", RequirePermission(entity.PermRechargeRead), rechargeHandler.List)
	recharges.Get("/:id", RequirePermission(entity.PermRechargeRead), rechargeHandler.Get)
	recharges.Post("/", RequirePermission(entity.PermRechargeWrite), rechargeHandler.Create)

	// Orders: las rutas estáticas van antes que /:id
	orders := protected.Group("/order")
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Access)
	basket := RequirePermission(entity.PermOrderBasket)
	manage := RequirePermission(entity.PermOrderManage)
	orders.Get("/", RequirePermission(entity.PermOrderRead), orderHandler.List)
	orders.Get("/complete", RequirePermission(entity.PermOrderRead), orderHandler.ListComplete)
	orders.Get("/basket", basket, orderHandler.Basket)
	orders.Delete("/basket", basket, orderHandler.EmptyBasket)
	orders.Put("/basket/items/:product_id", basket, orderHandler.SetBasketItem)
	orders.Put("/basket/validate", basket, orderHandler.ValidateBasket)
	orders.Put("/cancel/:id", manage, orderHandler.Cancel)
	orders.Put("/finish/:id", manage, orderHandler.Finish)
	orders.Get("/:id", RequirePermission(entity.PermOrderRead), orderHandler.Get)
	orders.Get("/:id/receipt", RequirePermission(entity.PermOrderRead), orderHandler.Receipt)
}
