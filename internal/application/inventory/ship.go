package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/ports"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
	"github.com/jhoicas/branch-fulfillment-api/pkg/logger"
)

// ShipUseCase es el motor de despacho: valida stock de producto terminado y materiales
// y, dentro de una sola transacción, descuenta todo y registra movimientos y consumos.
type ShipUseCase struct {
	txRunner  ports.TxRunner
	locker    ports.KeyLocker
	orderRepo repository.OrderRepository
	bomRepo   repository.BOMRepository
	log       *logger.Logger
}

// NewShipUseCase construye el caso de uso.
func NewShipUseCase(
	txRunner ports.TxRunner,
	locker ports.KeyLocker,
	orderRepo repository.OrderRepository,
	bomRepo repository.BOMRepository,
	log *logger.Logger,
) *ShipUseCase {
	return &ShipUseCase{
		txRunner:  txRunner,
		locker:    locker,
		orderRepo: orderRepo,
		bomRepo:   bomRepo,
		log:       log.Component("ship"),
	}
}

// ShipInput entrada del despacho.
type ShipInput struct {
	OrderID  string
	Quantity decimal.Decimal
	Actor    string
}

// ShipResult lo que quedó registrado por un despacho exitoso.
// HasBOM=false indica que no se descontó ningún material porque el producto no tiene BOM.
type ShipResult struct {
	OperationID  string
	Order        *entity.Order
	HasBOM       bool
	Transactions []*entity.StockTransaction
	Consumptions []*entity.ConsumptionRecord
}

// Ship despacha shippedQuantity del pedido. Precondiciones, en orden (gana el primer fallo):
//  1. el pedido existe y está en processing;
//  2. el producto terminado existe y tiene stock >= cantidad;
//  3. cada material de la BOM tiene stock >= fila.quantity * cantidad (se reportan todos los faltantes).
//
// Si algo falla no queda ninguna modificación.
func (uc *ShipUseCase) Ship(ctx context.Context, in ShipInput) (*ShipResult, error) {
	if in.OrderID == "" {
		return nil, domain.NewValidationError("order_id", "es requerido")
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.NewValidationError("shipped_quantity", "debe ser mayor que cero")
	}

	// Lectura previa solo para saber qué claves bloquear; la validación real ocurre dentro de la tx.
	order, err := uc.orderRepo.GetByID(ctx, in.OrderID)
	if err != nil {
		return nil, domain.AsPersistence("obtener pedido", err)
	}
	if order == nil {
		return nil, domain.NewNotFoundError("pedido", in.OrderID)
	}
	rows, err := uc.bomRepo.ListByFinishedItem(ctx, order.FinishedItemID)
	if err != nil {
		return nil, domain.AsPersistence("obtener BOM", err)
	}
	keys := []string{
		ports.LockPrefixOrder + order.ID,
		ports.LockPrefixBOM + order.FinishedItemID,
		ports.LockPrefixItem + order.FinishedItemID,
	}
	for _, r := range rows {
		keys = append(keys, ports.LockPrefixItem+r.MaterialItemID)
	}
	release, err := uc.locker.Lock(ctx, keys...)
	if err != nil {
		return nil, domain.AsPersistence("bloquear ítems", err)
	}
	defer release()

	var result *ShipResult
	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		res, err := uc.shipInTx(ctx, r, in)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		err = domain.AsPersistence("despachar pedido", err)
		uc.log.Warn().Err(err).Str("order_id", in.OrderID).Str("quantity", in.Quantity.String()).Msg("despacho rechazado")
		return nil, err
	}

	uc.log.Info().
		Str("order_id", result.Order.ID).
		Str("operation_id", result.OperationID).
		Str("quantity", in.Quantity.String()).
		Bool("has_bom", result.HasBOM).
		Int("records", len(result.Consumptions)).
		Msg("pedido despachado")
	return result, nil
}

// materialCheck estado de un material durante la validación.
type materialCheck struct {
	item     *entity.InventoryItem
	required decimal.Decimal
}

func (uc *ShipUseCase) shipInTx(ctx context.Context, r ports.Repos, in ShipInput) (*ShipResult, error) {
	// 1. Pedido existente y en processing
	order, err := r.Orders.GetForUpdate(ctx, in.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewNotFoundError("pedido", in.OrderID)
	}
	if !order.Status.CanTransitionTo(entity.OrderStatusShipping) {
		return nil, &domain.InvalidTransitionError{OrderID: order.ID, From: string(order.Status), To: string(entity.OrderStatusShipping)}
	}
	if err := order.ValidateShipQuantity(in.Quantity); err != nil {
		return nil, err
	}

	// 2. Producto terminado con stock suficiente
	finished, err := r.Items.GetForUpdate(ctx, order.FinishedItemID)
	if err != nil {
		return nil, err
	}
	if finished == nil {
		return nil, domain.NewNotFoundError("producto terminado", order.FinishedItemID)
	}
	if finished.Type != entity.ItemTypeFinished {
		return nil, domain.NewValidationError("finished_item_id", "el ítem del pedido no es un producto terminado")
	}
	if !finished.CanFulfill(in.Quantity) {
		return nil, &domain.InsufficientStockError{Deficiencies: []domain.StockDeficiency{finished.Deficiency(in.Quantity)}}
	}

	// 3. Todos los materiales; se juntan todos los faltantes antes de fallar
	rows, err := r.BOM.ListByFinishedItem(ctx, order.FinishedItemID)
	if err != nil {
		return nil, err
	}
	checks := map[string]*materialCheck{}
	var deficiencies []domain.StockDeficiency
	for _, req := range entity.ExpandBOM(rows, in.Quantity) {
		mat, err := r.Items.GetForUpdate(ctx, req.MaterialItemID)
		if err != nil {
			return nil, err
		}
		if mat == nil {
			return nil, domain.NewNotFoundError("material", req.MaterialItemID)
		}
		checks[req.MaterialItemID] = &materialCheck{item: mat, required: req.Quantity}
		if !mat.CanFulfill(req.Quantity) {
			deficiencies = append(deficiencies, mat.Deficiency(req.Quantity))
		}
	}
	if len(deficiencies) > 0 {
		return nil, &domain.InsufficientStockError{Deficiencies: deficiencies}
	}

	// Efectos: misma marca de tiempo y OperationID para todos los registros
	now := time.Now().UTC()
	res := &ShipResult{OperationID: uuid.New().String(), HasBOM: len(rows) > 0}

	if err := order.MarkShipped(in.Quantity, in.Actor, now); err != nil {
		return nil, err
	}
	if err := r.Orders.Update(ctx, order); err != nil {
		return nil, err
	}
	res.Order = order

	if err := uc.consume(ctx, r, res, order, finished, in.Quantity, entity.ReasonBranchShipment+": "+order.BranchName, "", in.Actor, now); err != nil {
		return nil, err
	}
	for _, row := range rows {
		chk := checks[row.MaterialItemID]
		qty := row.Quantity.Mul(in.Quantity)
		reason := fmt.Sprintf("%s: %s x %s", entity.ReasonBOMDeduction, finished.Name, in.Quantity.String())
		if err := uc.consume(ctx, r, res, order, chk.item, qty, reason, finished.ID, in.Actor, now); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// consume descuenta qty del ítem y agrega un movimiento out y un ConsumptionRecord.
func (uc *ShipUseCase) consume(
	ctx context.Context,
	r ports.Repos,
	res *ShipResult,
	order *entity.Order,
	item *entity.InventoryItem,
	qty decimal.Decimal,
	reason, finishedItemID, actor string,
	now time.Time,
) error {
	if err := item.Withdraw(qty, now); err != nil {
		return err
	}
	if err := r.Items.UpdateStock(ctx, item.ID, item.Quantity, item.UnitPrice, now); err != nil {
		return err
	}
	mov := &entity.StockTransaction{
		ID:          uuid.New().String(),
		OperationID: res.OperationID,
		ItemID:      item.ID,
		Direction:   entity.DirectionOut,
		Quantity:    qty,
		Reason:      reason,
		OrderID:     order.ID,
		CreatedAt:   now,
		CreatedBy:   actor,
	}
	if err := r.Transactions.Create(ctx, mov); err != nil {
		return err
	}
	rec := &entity.ConsumptionRecord{
		ID:             uuid.New().String(),
		OrderID:        order.ID,
		ItemID:         item.ID,
		ItemType:       item.Type,
		Quantity:       qty,
		BranchName:     order.BranchName,
		OrderDate:      order.OrderDate,
		ProcessedAt:    now,
		ProcessedBy:    actor,
		FinishedItemID: finishedItemID,
	}
	if err := r.Consumptions.Create(ctx, rec); err != nil {
		return err
	}
	res.Transactions = append(res.Transactions, mov)
	res.Consumptions = append(res.Consumptions, rec)
	return nil
}
