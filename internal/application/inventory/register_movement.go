package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/ports"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/inventory"
	"github.com/jhoicas/branch-fulfillment-api/pkg/logger"
)

// RegisterMovementUseCase registra entradas y salidas manuales de stock de forma transaccional
// (bloqueo de fila + Commit/Rollback).
type RegisterMovementUseCase struct {
	txRunner ports.TxRunner
	locker   ports.KeyLocker
	log      *logger.Logger
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner ports.TxRunner, locker ports.KeyLocker, log *logger.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, locker: locker, log: log.Component("movements")}
}

// MovementInput entrada para registrar un movimiento.
// UnitPrice es opcional en entradas; si viene, recalcula el precio promedio ponderado.
type MovementInput struct {
	ItemID    string
	Direction entity.Direction
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
	Reason    string
	Actor     string
}

// RegisterMovement aplica el movimiento y devuelve el registro creado.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, in MovementInput) (*entity.StockTransaction, error) {
	if in.ItemID == "" {
		return nil, domain.NewValidationError("item_id", "es requerido")
	}
	if !in.Direction.IsValid() {
		return nil, domain.NewValidationError("direction", "debe ser in u out")
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.NewValidationError("unit_price", "no puede ser negativo")
	}
	if in.Reason == "" {
		in.Reason = entity.ReasonManual
	}

	release, err := uc.locker.Lock(ctx, ports.LockPrefixItem+in.ItemID)
	if err != nil {
		return nil, domain.AsPersistence("bloquear ítem", err)
	}
	defer release()

	var mov *entity.StockTransaction
	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		item, err := r.Items.GetForUpdate(ctx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NewNotFoundError("ítem", in.ItemID)
		}
		now := time.Now().UTC()
		switch in.Direction {
		case entity.DirectionIn:
			if in.UnitPrice != nil {
				item.UnitPrice = inventory.WeightedUnitPrice(item.Quantity, item.UnitPrice, in.Quantity, *in.UnitPrice)
			}
			item.Deposit(in.Quantity, now)
		case entity.DirectionOut:
			if err := item.Withdraw(in.Quantity, now); err != nil {
				return err
			}
		}
		if err := r.Items.UpdateStock(ctx, item.ID, item.Quantity, item.UnitPrice, now); err != nil {
			return err
		}
		mov = &entity.StockTransaction{
			ID:          uuid.New().String(),
			OperationID: uuid.New().String(),
			ItemID:      item.ID,
			Direction:   in.Direction,
			Quantity:    in.Quantity,
			Reason:      in.Reason,
			CreatedAt:   now,
			CreatedBy:   in.Actor,
		}
		return r.Transactions.Create(ctx, mov)
	})
	if err != nil {
		return nil, domain.AsPersistence("registrar movimiento", err)
	}
	uc.log.Info().
		Str("item_id", in.ItemID).
		Str("direction", string(in.Direction)).
		Str("quantity", in.Quantity.String()).
		Msg("movimiento registrado")
	return mov, nil
}
