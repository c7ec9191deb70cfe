package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/dto"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/order"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
)

// OrderHandler ciclo de vida de pedidos de sucursal.
type OrderHandler struct {
	uc *order.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *order.UseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar pedido de sucursal
// @Description  Crea el pedido en pending. Si faltan materiales se avisa en consumption.warning pero el pedido se crea igual.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "finished_item_id, quantity, branch_name (bodega central), notes"
// @Success      201  {object}  dto.CreateOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	branch := strings.TrimSpace(in.BranchName)
	if isBranchUser(c) {
		if branch != "" && branch != GetBranchName(c) {
			return writeError(c, domain.ErrForbidden)
		}
		branch = GetBranchName(c)
	}
	o, report, err := h.uc.Create(c.Context(), order.CreateInput{
		BranchName:     branch,
		FinishedItemID: in.FinishedItemID,
		Quantity:       in.Quantity,
		Notes:          in.Notes,
		Actor:          GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateOrderResponse{
		Order:       dto.ToOrderResponse(o),
		Consumption: toReportDTO(report),
	})
}

// List godoc
// @Summary      Listar pedidos
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | processing | shipping | received | completed | rejected"
// @Param        branch  query  string  false  "Sucursal (ignorado para usuarios de sucursal)"
// @Success      200  {object}  dto.OrderListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	filter := repository.OrderFilter{
		Status:     entity.OrderStatus(c.Query("status")),
		BranchName: c.Query("branch"),
	}
	if isBranchUser(c) {
		filter.BranchName = GetBranchName(c)
	}
	list, err := h.uc.List(c.Context(), filter)
	if err != nil {
		return writeError(c, err)
	}
	items := dto.ToOrderList(list)
	return c.JSON(dto.OrderListResponse{Items: items, Total: len(items)})
}

// GetByID godoc
// @Summary      Obtener pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	o, err := h.ownedOrder(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToOrderResponse(o))
}

// Process godoc
// @Summary      Pasar pedidos a processing
// @Description  Todos los pedidos seleccionados deben estar en pending; si uno falla no cambia ninguno.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProcessOrdersRequest  true  "order_ids"
// @Success      200  {object}  dto.OrderListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/process [post]
func (h *OrderHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessOrdersRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	list, err := h.uc.StartProcessing(c.Context(), in.OrderIDs, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	items := dto.ToOrderList(list)
	return c.JSON(dto.OrderListResponse{Items: items, Total: len(items)})
}

// Reject godoc
// @Summary      Rechazar pedido
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del pedido"
// @Param        body  body  dto.RejectOrderRequest  true  "reason"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/reject [post]
func (h *OrderHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	o, err := h.uc.Reject(c.Context(), c.Params("id"), in.Reason, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToOrderResponse(o))
}

// Ship godoc
// @Summary      Despachar pedido
// @Description  Descuenta producto terminado y materiales de la BOM en una sola transacción. Si falta stock no se modifica nada y se devuelven todos los faltantes.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID del pedido"
// @Param        body  body  dto.ShipOrderRequest  true  "shipped_quantity"
// @Success      200  {object}  dto.ShipOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/ship [post]
func (h *OrderHandler) Ship(c *fiber.Ctx) error {
	var in dto.ShipOrderRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	res, err := h.uc.Ship(c.Context(), c.Params("id"), in.ShippedQuantity, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	out := dto.ShipOrderResponse{
		OperationID:  res.OperationID,
		Order:        dto.ToOrderResponse(res.Order),
		HasBOM:       res.HasBOM,
		Transactions: make([]dto.StockTransactionResponse, 0, len(res.Transactions)),
		Consumptions: make([]dto.ConsumptionRecordResponse, 0, len(res.Consumptions)),
	}
	for _, t := range res.Transactions {
		out.Transactions = append(out.Transactions, dto.ToStockTransaction(t))
	}
	for _, r := range res.Consumptions {
		finishedID := r.FinishedItemID
		if finishedID == "" {
			finishedID = res.Order.FinishedItemID
		}
		out.Consumptions = append(out.Consumptions, dto.ToConsumptionRecord(r, finishedID))
	}
	if !res.HasBOM {
		out.Warning = noBOMWarning
	}
	return c.JSON(out)
}

// Receive godoc
// @Summary      Confirmar recepción en sucursal
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receive [post]
func (h *OrderHandler) Receive(c *fiber.Ctx) error {
	if _, err := h.ownedOrder(c); err != nil {
		return writeError(c, err)
	}
	o, err := h.uc.ConfirmReceipt(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToOrderResponse(o))
}

// Complete godoc
// @Summary      Cerrar pedido recibido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/complete [post]
func (h *OrderHandler) Complete(c *fiber.Ctx) error {
	o, err := h.uc.Complete(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToOrderResponse(o))
}

// ownedOrder carga el pedido de la ruta; usuarios de sucursal solo acceden a los suyos.
func (h *OrderHandler) ownedOrder(c *fiber.Ctx) (*entity.Order, error) {
	o, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return nil, err
	}
	if isBranchUser(c) && o.BranchName != GetBranchName(c) {
		return nil, domain.ErrForbidden
	}
	return o, nil
}
