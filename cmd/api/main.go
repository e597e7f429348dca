package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/jhoicas/OpenBar-api/internal/application/auth"
	"github.com/jhoicas/OpenBar-api/internal/application/order"
	"github.com/jhoicas/OpenBar-api/internal/application/role"
	"github.com/jhoicas/OpenBar-api/internal/application/usecase"
	"github.com/jhoicas/OpenBar-api/internal/infrastructure/events"
	infrapdf "github.com/jhoicas/OpenBar-api/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/OpenBar-api/internal/interfaces/http"
	"github.com/jhoicas/OpenBar-api/pkg/config"
	"github.com/jhoicas/OpenBar-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, closeStore, err := openStorage(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer closeStore()

	// Eventos de pedidos: Kafka si hay brokers, si no solo log.
	var publisher order.EventPublisher
	if cfg.Kafka.Enabled() {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.OrderTopic)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Warn().Err(err).Msg("cerrar productor Kafka")
			}
		}()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.OrderTopic).Msg("eventos de pedidos en Kafka")
	} else {
		publisher = events.NewLogPublisher(log)
	}

	cards := usecase.NewCardIndex(store.cardSalts, store.users)
	roleUC := role.NewUseCase(store.roles, store.perms, store.roleTx, log)
	userUC := usecase.NewUserUseCase(store.users, store.roles, cards)
	rechargeUC := usecase.NewRechargeUseCase(store.recharges, store.rechargeTx)
	orderUC := order.NewUseCase(store.orders, store.users, store.orderTx, publisher, infrapdf.NewReceiptGenerator(cfg.App.Name), log)
	authUC := auth.NewAuthUseCase(store.users, store.perms, cards, auth.NewLoginHistory(cfg.Auth.LoginHistorySize), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	app := httpRouter.NewApp(cfg.App.Name, log)

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.HTTP.SwaggerFile != "" {
		if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.HTTP.SwaggerFile,
				Path:     "docs",
				Title:    "OpenBar API",
			}))
		} else {
			log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		Access:     auth.NewAccessChecker(store.users, store.roles),
		RoleUC:     roleUC,
		UserUC:     userUC,
		RechargeUC: rechargeUC,
		OrderUC:    orderUC,
		JWTSecret:  cfg.JWT.Secret,
		JWTIssuer:  cfg.JWT.Issuer,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
