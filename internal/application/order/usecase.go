package order

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/inventory"
	"github.com/jhoicas/branch-fulfillment-api/internal/application/ports"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	domaininv "github.com/jhoicas/branch-fulfillment-api/internal/domain/inventory"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
	"github.com/jhoicas/branch-fulfillment-api/pkg/logger"
)

// Shipper ejecuta la transacción de despacho (inventory.ShipUseCase).
type Shipper interface {
	Ship(ctx context.Context, in inventory.ShipInput) (*inventory.ShipResult, error)
}

// ConsumptionCalculator calcula el consumo previsto de un pedido.
type ConsumptionCalculator interface {
	CalculateConsumption(ctx context.Context, finishedItemID string, quantity decimal.Decimal) (*domaininv.ConsumptionReport, error)
}

// CreateInput datos para crear un pedido.
type CreateInput struct {
	BranchName     string
	FinishedItemID string
	Quantity       decimal.Decimal
	Notes          string
	Actor          string
}

// UseCase ciclo de vida del pedido de sucursal.
type UseCase struct {
	txRunner   ports.TxRunner
	locker     ports.KeyLocker
	orderRepo  repository.OrderRepository
	itemRepo   repository.ItemRepository
	calculator ConsumptionCalculator
	shipper    Shipper
	log        *logger.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner ports.TxRunner,
	locker ports.KeyLocker,
	orderRepo repository.OrderRepository,
	itemRepo repository.ItemRepository,
	calculator ConsumptionCalculator,
	shipper Shipper,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		txRunner:   txRunner,
		locker:     locker,
		orderRepo:  orderRepo,
		itemRepo:   itemRepo,
		calculator: calculator,
		shipper:    shipper,
		log:        log.Component("orders"),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create registra un pedido pending. Los faltantes de material no bloquean la creación:
// se devuelven en el reporte para que quien pide lo vea.
func (uc *UseCase) Create(ctx context.Context, in CreateInput) (*entity.Order, *domaininv.ConsumptionReport, error) {
	order, err := entity.NewOrder(in.BranchName, in.FinishedItemID, in.Quantity, strings.TrimSpace(in.Notes), uc.now())
	if err != nil {
		return nil, nil, err
	}
	finished, err := uc.itemRepo.GetByID(ctx, in.FinishedItemID)
	if err != nil {
		return nil, nil, domain.AsPersistence("obtener producto terminado", err)
	}
	if finished == nil {
		return nil, nil, domain.NewNotFoundError("producto terminado", in.FinishedItemID)
	}
	if finished.Type != entity.ItemTypeFinished {
		return nil, nil, domain.NewValidationError("finished_item_id", "el ítem "+finished.Name+" no es un producto terminado")
	}
	report, err := uc.calculator.CalculateConsumption(ctx, in.FinishedItemID, in.Quantity)
	if err != nil {
		return nil, nil, err
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, nil, domain.AsPersistence("crear pedido", err)
	}
	ev := uc.log.Info()
	if report.HasShortage() {
		ev = uc.log.Warn()
	}
	ev.Str("order_id", order.ID).
		Str("branch", order.BranchName).
		Str("finished_item_id", order.FinishedItemID).
		Str("quantity", order.Quantity.String()).
		Bool("has_shortage", report.HasShortage()).
		Msg("pedido creado")
	return order, report, nil
}

// StartProcessing pasa a processing todos los pedidos seleccionados o ninguno.
func (uc *UseCase) StartProcessing(ctx context.Context, ids []string, actor string) ([]*entity.Order, error) {
	if len(ids) == 0 {
		return nil, domain.NewValidationError("order_ids", "debe seleccionar al menos un pedido")
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, domain.NewValidationError("order_ids", "id vacío")
		}
		keys = append(keys, ports.LockPrefixOrder+id)
	}
	release, err := uc.locker.Lock(ctx, keys...)
	if err != nil {
		return nil, domain.AsPersistence("bloquear pedidos", err)
	}
	defer release()

	var out []*entity.Order
	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		now := uc.now()
		out = out[:0]
		for _, id := range ports.NormalizeKeys(ids) {
			o, err := r.Orders.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if o == nil {
				return domain.NewNotFoundError("pedido", id)
			}
			if err := o.StartProcessing(actor, now); err != nil {
				return err
			}
			out = append(out, o)
		}
		for _, o := range out {
			if err := r.Orders.Update(ctx, o); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, domain.AsPersistence("procesar pedidos", err)
	}
	uc.log.Info().Int("orders", len(out)).Str("actor", actor).Msg("pedidos en proceso")
	return out, nil
}

// Reject rechaza un pedido pending o processing; el motivo queda en Notes.
func (uc *UseCase) Reject(ctx context.Context, id, reason, actor string) (*entity.Order, error) {
	return uc.transition(ctx, id, "rechazar pedido", func(o *entity.Order, now time.Time) error {
		return o.Reject(reason, actor, now)
	})
}

// Ship despacha el pedido descontando producto terminado y materiales.
func (uc *UseCase) Ship(ctx context.Context, id string, quantity decimal.Decimal, actor string) (*inventory.ShipResult, error) {
	return uc.shipper.Ship(ctx, inventory.ShipInput{OrderID: id, Quantity: quantity, Actor: actor})
}

// ConfirmReceipt la sucursal confirma la recepción. Sin efecto de stock.
func (uc *UseCase) ConfirmReceipt(ctx context.Context, id, actor string) (*entity.Order, error) {
	return uc.transition(ctx, id, "confirmar recepción", func(o *entity.Order, now time.Time) error {
		return o.ConfirmReceipt(actor, now)
	})
}

// Complete cierre administrativo de un pedido recibido.
func (uc *UseCase) Complete(ctx context.Context, id, actor string) (*entity.Order, error) {
	return uc.transition(ctx, id, "completar pedido", func(o *entity.Order, now time.Time) error {
		return o.Complete(actor, now)
	})
}

// Get obtiene un pedido por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*entity.Order, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.AsPersistence("obtener pedido", err)
	}
	if o == nil {
		return nil, domain.NewNotFoundError("pedido", id)
	}
	return o, nil
}

// List lista pedidos por estado y sucursal, más recientes primero.
func (uc *UseCase) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.NewValidationError("status", "estado desconocido: "+string(filter.Status))
	}
	list, err := uc.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, domain.AsPersistence("listar pedidos", err)
	}
	return list, nil
}

func (uc *UseCase) transition(ctx context.Context, id, op string, apply func(o *entity.Order, now time.Time) error) (*entity.Order, error) {
	if id == "" {
		return nil, domain.NewValidationError("order_id", "es requerido")
	}
	release, err := uc.locker.Lock(ctx, ports.LockPrefixOrder+id)
	if err != nil {
		return nil, domain.AsPersistence("bloquear pedido", err)
	}
	defer release()

	var (
		out  *entity.Order
		from entity.OrderStatus
	)
	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		o, err := r.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.NewNotFoundError("pedido", id)
		}
		from = o.Status
		if err := apply(o, uc.now()); err != nil {
			return err
		}
		if err := r.Orders.Update(ctx, o); err != nil {
			return err
		}
		out = o
		return nil
	})
	if err != nil {
		return nil, domain.AsPersistence(op, err)
	}
	uc.log.Info().Str("order_id", out.ID).Str("from", string(from)).Str("to", string(out.Status)).Msg(op)
	return out, nil
}
