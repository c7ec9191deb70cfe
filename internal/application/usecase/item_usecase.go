package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/dto"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para ítems de inventario. El stock se mueve vía movimientos y despachos.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un ítem con su stock inicial.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	item, err := entity.NewInventoryItem(strings.TrimSpace(in.Name), entity.ItemType(in.Type), in.Quantity)
	if err != nil {
		return nil, err
	}
	if in.MinQuantity.IsNegative() || in.MaxQuantity.IsNegative() {
		return nil, domain.NewValidationError("min_quantity", "los umbrales no pueden ser negativos")
	}
	if in.MaxQuantity.IsPositive() && in.MinQuantity.GreaterThan(in.MaxQuantity) {
		return nil, domain.NewValidationError("max_quantity", "debe ser mayor o igual al mínimo")
	}
	if in.UnitPrice.IsNegative() {
		return nil, domain.NewValidationError("unit_price", "no puede ser negativo")
	}
	item.Category = in.Category
	item.BranchName = strings.TrimSpace(in.BranchName)
	item.MinQuantity = in.MinQuantity
	item.MaxQuantity = in.MaxQuantity
	item.Unit = in.Unit
	item.UnitPrice = in.UnitPrice
	item.Location = in.Location
	item.Description = in.Description
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, domain.AsPersistence("crear ítem", err)
	}
	out := dto.ToItemResponse(item)
	return &out, nil
}

// GetByID obtiene un ítem por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.AsPersistence("obtener ítem", err)
	}
	if item == nil {
		return nil, domain.NewNotFoundError("ítem", id)
	}
	out := dto.ToItemResponse(item)
	return &out, nil
}

// List lista ítems filtrando por tipo y sucursal.
func (uc *ItemUseCase) List(ctx context.Context, itemType, branchName string) (*dto.ItemListResponse, error) {
	filter := repository.ItemFilter{BranchName: branchName}
	if itemType != "" {
		filter.Type = entity.ItemType(itemType)
		if !filter.Type.IsValid() {
			return nil, domain.NewValidationError("type", "debe ser finished o material")
		}
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, domain.AsPersistence("listar ítems", err)
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, i := range list {
		items = append(items, dto.ToItemResponse(i))
	}
	return &dto.ItemListResponse{Items: items, Total: len(items)}, nil
}
