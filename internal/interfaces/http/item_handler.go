package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/dto"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/inventory"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/usecase"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
)

// ItemHandler maneja ítems de inventario, movimientos directos e historial.
type ItemHandler struct {
	items         *usecase.ItemUseCase
	movements     *inventory.RegisterMovementUseCase
	history       *inventory.HistoryUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewItemHandler construye el handler.
func NewItemHandler(
	items *usecase.ItemUseCase,
	movements *inventory.RegisterMovementUseCase,
	history *inventory.HistoryUseCase,
	replenishment *inventory.ReplenishmentUseCase,
) *ItemHandler {
	return &ItemHandler{items: items, movements: movements, history: history, replenishment: replenishment}
}

// List godoc
// @Summary      Listar ítems de inventario
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  false  "finished | material"
// @Param        branch  query  string  false  "Sucursal"
// @Success      200  {object}  dto.ItemListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *ItemHandler) List(c *fiber.Ctx) error {
	out, err := h.items.List(c.Context(), c.Query("type"), c.Query("branch"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear ítem de inventario
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateItemRequest  true  "name, type, quantity, umbrales"
// @Success      201  {object}  dto.ItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.items.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id} [get]
func (h *ItemHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.items.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegisterMovement godoc
// @Summary      Registrar entrada o salida directa de stock
// @Tags         items
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del ítem"
// @Param        body  body  dto.RegisterMovementRequest  true  "direction, quantity, unit_price (entradas), reason"
// @Success      201  {object}  dto.StockTransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/movements [post]
func (h *ItemHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	mov, err := h.movements.RegisterMovement(c.Context(), inventory.MovementInput{
		ItemID:    c.Params("id"),
		Direction: entity.Direction(in.Direction),
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Reason:    in.Reason,
		Actor:     GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockTransaction(mov))
}

// ListTransactions godoc
// @Summary      Movimientos de stock de un ítem
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del ítem"
// @Param        from    query  string  false  "Desde (RFC3339 o AAAA-MM-DD)"
// @Param        to      query  string  false  "Hasta (RFC3339 o AAAA-MM-DD)"
// @Param        limit   query  int     false  "Máximo de filas (default 20)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.StockTransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/transactions [get]
func (h *ItemHandler) ListTransactions(c *fiber.Ctx) error {
	from, to, err := queryRange(c)
	if err != nil {
		return writeError(c, err)
	}
	page := dto.PageRequest{Limit: queryInt(c, "limit", 20), Offset: queryInt(c, "offset", 0)}
	page.DefaultPage()
	list, err := h.history.ListTransactions(c.Context(), c.Params("id"), from, to, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.StockTransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.ToStockTransaction(t))
	}
	return c.JSON(fiber.Map{"items": out, "page": dto.PageResponse{Limit: page.Limit, Offset: page.Offset}})
}

// ListConsumptions godoc
// @Summary      Consumos de un ítem con el producto terminado que los originó
// @Tags         items
// @Security     Bearer
// @Produce      json
// @Param        id    path   string  true   "ID del ítem"
// @Param        from  query  string  false  "Desde"
// @Param        to    query  string  false  "Hasta"
// @Success      200  {array}   dto.ConsumptionRecordResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/consumptions [get]
func (h *ItemHandler) ListConsumptions(c *fiber.Ctx) error {
	from, to, err := queryRange(c)
	if err != nil {
		return writeError(c, err)
	}
	entries, err := h.history.ListConsumptions(c.Context(), c.Params("id"), from, to)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ConsumptionRecordResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToConsumptionRecord(e.Record, e.FinishedItemID))
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Ítems en stock bajo o que no alcanzan para los pedidos pendientes, con la cantidad sugerida.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        type  query  string  false  "finished | material"
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *ItemHandler) GetReplenishmentList(c *fiber.Ctx) error {
	itemType := entity.ItemType(c.Query("type"))
	if itemType != "" && !itemType.IsValid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "type debe ser finished o material"})
	}
	list, err := h.replenishment.GenerateReplenishmentList(c.Context(), itemType)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ReplenishmentSuggestionDTO, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ReplenishmentSuggestionDTO{
			Item:          dto.ToItemResponse(s.Item),
			PendingDemand: s.PendingDemand,
			TargetStock:   s.TargetStock,
			SuggestedQty:  s.SuggestedQty,
			EstimatedCost: s.EstimatedCost,
			Priority:      s.Priority,
		})
	}
	return c.JSON(fiber.Map{
		"total":          len(out),
		"replenishments": out,
	})
}
