// @title           Branch Fulfillment API
// @version         1.0
// @description     API de despacho a sucursales: BOM, cálculo de consumo y faltantes, ciclo de vida de pedidos y despacho atómico.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey Bearer
// @in              header
// @name            Authorization
// @description     Bearer <token>
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/branch-fulfillment-api/docs"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/bom"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/consumption"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/inventory"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/order"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/ports"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/usecase"
	"github.com/jhoicas/branch-fulfillment-api/internal/infrastructure/locking"
	"github.com/jhoicas/branch-fulfillment-api/internal/infrastructure/memory"
	"github.com/jhoicas/branch-fulfillment-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/branch-fulfillment-api/internal/interfaces/http"
	"github.com/jhoicas/branch-fulfillment-api/pkg/config"
	"github.com/jhoicas/branch-fulfillment-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		repos    ports.Repos
		txRunner ports.TxRunner
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		repos = store.Repos()
		txRunner = store
		log.Warn().Msg("store en memoria: los datos se pierden al reiniciar")
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		repos = postgres.NewRepos(pool)
		txRunner = postgres.NewTxRunner(pool)
	}

	var locker ports.KeyLocker = locking.NewLocalLocker()
	if cfg.Lock.RedisAddress != "" {
		rdb, err := locking.NewRedisClient(ctx, cfg.Lock)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = locking.NewRedisLocker(rdb, cfg.Lock, log)
		log.Info().Str("redis", cfg.Lock.RedisAddress).Msg("candado distribuido activo")
	}

	itemUC := usecase.NewItemUseCase(repos.Items)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, locker, log)
	historyUC := inventory.NewHistoryUseCase(repos.Items, repos.Orders, repos.Transactions, repos.Consumptions)
	replenishmentUC := inventory.NewReplenishmentUseCase(repos.Items, repos.BOM, repos.Orders)
	bomUC := bom.NewUseCase(txRunner, locker, repos.BOM, repos.Items, log)
	consumptionUC := consumption.NewUseCase(repos.Items, repos.BOM, repos.Orders)
	shipUC := inventory.NewShipUseCase(txRunner, locker, repos.Orders, repos.BOM, log)
	orderUC := order.NewUseCase(txRunner, locker, repos.Orders, repos.Items, consumptionUC, shipUC, log)

	app := httpRouter.NewApp(cfg.App.Name)
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Branch Fulfillment API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:           itemUC,
		RegisterMovement: registerMovementUC,
		History:          historyUC,
		Replenishment:    replenishmentUC,
		BOMUC:            bomUC,
		ConsumptionUC:    consumptionUC,
		OrderUC:          orderUC,
		JWTSecret:        cfg.JWT.Secret,
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
