package bom

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/ports"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
	"github.com/jhoicas/branch-fulfillment-api/pkg/logger"
)

// RowInput fila de BOM a guardar.
type RowInput struct {
	MaterialItemID string
	Quantity       decimal.Decimal
}

// Row fila de BOM con los datos del material para mostrar.
type Row struct {
	BOMItem  *entity.BOMItem
	Material *entity.InventoryItem // nil si el material fue eliminado
}

// UseCase registro de BOMs: qué materiales y cuánto consume una unidad de producto terminado.
type UseCase struct {
	txRunner ports.TxRunner
	locker   ports.KeyLocker
	bomRepo  repository.BOMRepository
	itemRepo repository.ItemRepository
	log      *logger.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.TxRunner, locker ports.KeyLocker, bomRepo repository.BOMRepository, itemRepo repository.ItemRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, locker: locker, bomRepo: bomRepo, itemRepo: itemRepo, log: log.Component("bom")}
}

// GetByFinishedItem filas de la BOM ordenadas por nombre de material.
func (uc *UseCase) GetByFinishedItem(ctx context.Context, finishedItemID string) ([]Row, error) {
	if err := uc.ensureFinished(ctx, uc.itemRepo, finishedItemID); err != nil {
		return nil, err
	}
	rows, err := uc.bomRepo.ListByFinishedItem(ctx, finishedItemID)
	if err != nil {
		return nil, domain.AsPersistence("obtener BOM", err)
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		mat, err := uc.itemRepo.GetByID(ctx, r.MaterialItemID)
		if err != nil {
			return nil, domain.AsPersistence("obtener material", err)
		}
		out = append(out, Row{BOMItem: r, Material: mat})
	}
	col := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(rowName(out[i]), rowName(out[j])) < 0
	})
	return out, nil
}

func rowName(r Row) string {
	if r.Material != nil {
		return r.Material.Name
	}
	return r.BOMItem.MaterialItemID
}

// HasBOM indica si el producto tiene al menos una fila; sin BOM el despacho no descuenta materiales.
func (uc *UseCase) HasBOM(ctx context.Context, finishedItemID string) (bool, error) {
	rows, err := uc.bomRepo.ListByFinishedItem(ctx, finishedItemID)
	if err != nil {
		return false, domain.AsPersistence("obtener BOM", err)
	}
	return len(rows) > 0, nil
}

// Replace reemplaza la BOM completa (borrar todo + insertar) en una transacción.
// Una lista vacía deja al producto sin BOM.
func (uc *UseCase) Replace(ctx context.Context, finishedItemID string, in []RowInput) ([]*entity.BOMItem, error) {
	if finishedItemID == "" {
		return nil, domain.NewValidationError("finished_item_id", "es requerido")
	}
	rows := make([]*entity.BOMItem, 0, len(in))
	for _, r := range in {
		row, err := entity.NewBOMItem(finishedItemID, r.MaterialItemID, r.Quantity)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	release, err := uc.locker.Lock(ctx, ports.LockPrefixBOM+finishedItemID)
	if err != nil {
		return nil, domain.AsPersistence("bloquear BOM", err)
	}
	defer release()

	err = uc.txRunner.Run(ctx, func(r ports.Repos) error {
		if err := uc.ensureFinished(ctx, r.Items, finishedItemID); err != nil {
			return err
		}
		for _, row := range rows {
			mat, err := r.Items.GetByID(ctx, row.MaterialItemID)
			if err != nil {
				return err
			}
			if mat == nil {
				return domain.NewNotFoundError("material", row.MaterialItemID)
			}
			if mat.Type != entity.ItemTypeMaterial {
				return domain.NewValidationError("material_item_id", "el ítem "+mat.Name+" no es un material")
			}
		}
		if err := r.BOM.DeleteByFinishedItem(ctx, finishedItemID); err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return r.BOM.CreateBatch(ctx, rows)
	})
	if err != nil {
		return nil, domain.AsPersistence("reemplazar BOM", err)
	}
	uc.log.Info().Str("finished_item_id", finishedItemID).Int("rows", len(rows)).Msg("BOM reemplazada")
	return rows, nil
}

func (uc *UseCase) ensureFinished(ctx context.Context, items repository.ItemRepository, id string) error {
	item, err := items.GetByID(ctx, id)
	if err != nil {
		return domain.AsPersistence("obtener producto terminado", err)
	}
	if item == nil {
		return domain.NewNotFoundError("producto terminado", id)
	}
	if item.Type != entity.ItemTypeFinished {
		return domain.NewValidationError("finished_item_id", "el ítem "+item.Name+" no es un producto terminado")
	}
	return nil
}
