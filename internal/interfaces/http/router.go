package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/bom"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/consumption"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/inventory"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/order"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/usecase"
	"github.com/jhoicas/branch-fulfillment-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC           *usecase.ItemUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	History          *inventory.HistoryUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	BOMUC            *bom.UseCase
	ConsumptionUC    *consumption.UseCase
	OrderUC          *order.UseCase
	JWTSecret        string
}

// NewApp crea la app Fiber del API.
// Immutable: los strings de c.Params, c.Query y el cuerpo siguen válidos después de la petición;
// los stores guardan IDs tomados de ahí.
func NewApp(appName string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      appName,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todas las rutas requieren Bearer Token; los tokens los emite el servicio de autenticación.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	warehouse := RequireRole(jwt.RoleAdmin, jwt.RoleStaff)

	// Items
	itemHandler := NewItemHandler(deps.ItemUC, deps.RegisterMovement, deps.History, deps.Replenishment)
	items := protected.Group("/items")
	items.Get("/", itemHandler.List)
	items.Post("/", warehouse, itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Post("/:id/movements", warehouse, itemHandler.RegisterMovement)
	items.Get("/:id/transactions", itemHandler.ListTransactions)
	items.Get("/:id/consumptions", itemHandler.ListConsumptions)

	invGroup := protected.Group("/inventory")
	invGroup.Get("/replenishment-list", warehouse, itemHandler.GetReplenishmentList)

	// BOM
	bomHandler := NewBOMHandler(deps.BOMUC)
	boms := protected.Group("/bom")
	boms.Get("/:finishedItemId", bomHandler.Get)
	boms.Put("/:finishedItemId", warehouse, bomHandler.Replace)

	// Consumo y faltantes (solo lectura)
	consumptionHandler := NewConsumptionHandler(deps.ConsumptionUC)
	cons := protected.Group("/consumption")
	cons.Get("/calculate", consumptionHandler.Calculate)
	cons.Get("/pending", consumptionHandler.Pending)
	cons.Get("/branch-shortages", consumptionHandler.BranchShortages)

	// Pedidos
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := protected.Group("/orders")
	orders.Post("/", RequireRole(jwt.RoleAdmin, jwt.RoleStaff, jwt.RoleBranch), orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Post("/process", warehouse, orderHandler.Process)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/reject", warehouse, orderHandler.Reject)
	orders.Post("/:id/ship", warehouse, orderHandler.Ship)
	orders.Post("/:id/receive", RequireRole(jwt.RoleAdmin, jwt.RoleBranch), orderHandler.Receive)
	orders.Post("/:id/complete", warehouse, orderHandler.Complete)
}
