// seed crea los roles y permisos iniciales desde un XML y, opcionalmente, un administrador.
//
// Uso: go run ./cmd/seed -roles roles.xml [-admin-role admin -admin-user admin -admin-password ... -admin-card ...]
// Usa la misma configuración que la API (DB_*, DATABASE_URL).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/OpenBar-api/internal/application/dto"
	"github.com/jhoicas/OpenBar-api/internal/application/role"
	"github.com/jhoicas/OpenBar-api/internal/application/usecase"
	"github.com/jhoicas/OpenBar-api/internal/infrastructure/postgres"
	"github.com/jhoicas/OpenBar-api/pkg/config"
	"github.com/jhoicas/OpenBar-api/pkg/logger"
)

func main() {
	rolesPath := flag.String("roles", "roles.xml", "archivo XML de roles")
	adminRole := flag.String("admin-role", "", "rol del administrador (vacío = no crear)")
	adminUser := flag.String("admin-user", "admin", "username del administrador")
	adminPassword := flag.String("admin-password", "", "contraseña del administrador")
	adminCard := flag.String("admin-card", "", "tarjeta del administrador")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})

	f, err := os.Open(*rolesPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", *rolesPath).Msg("abrir XML de roles")
	}
	defer f.Close()
	roles, err := parseRoles(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer roles")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	roleRepo := postgres.NewRoleRepository(pool)
	roleUC := role.NewUseCase(roleRepo, postgres.NewPermissionRepository(pool), postgres.NewTxRunner(pool), log)
	ids, err := seedRoles(ctx, roleUC, roles)
	if err != nil {
		log.Fatal().Err(err).Msg("crear roles")
	}
	log.Info().Int("roles", len(ids)).Msg("roles creados")

	if *adminRole == "" {
		return
	}
	if *adminPassword == "" || *adminCard == "" {
		log.Fatal().Msg("-admin-password y -admin-card son obligatorios con -admin-role")
	}
	roleID, ok := ids[*adminRole]
	if !ok {
		log.Fatal().Str("role", *adminRole).Msg("rol de administrador no está en el XML")
	}
	users := postgres.NewUserRepository(pool)
	userUC := usecase.NewUserUseCase(users, roleRepo, usecase.NewCardIndex(postgres.NewCardSaltRepository(pool), users))
	admin, err := userUC.Create(ctx, dto.CreateUserRequest{
		Username:  adminUser,
		Password:  *adminPassword,
		FirstName: "Admin",
		Name:      "OpenBar",
		RoleID:    roleID,
		CardID:    *adminCard,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}
	log.Info().Int64("user_id", admin.ID).Str("username", *adminUser).Msg("administrador creado")
}
