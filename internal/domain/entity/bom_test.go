package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
)

func TestNewBOMItem_Validaciones(t *testing.T) {
	_, err := entity.NewBOMItem("f", "", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = entity.NewBOMItem("f", "f", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = entity.NewBOMItem("f", "m", decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	row, err := entity.NewBOMItem("f", "m", decimal.RequireFromString("0.25"))
	require.NoError(t, err)
	assert.NotEmpty(t, row.ID)
}

func TestExpandBOM_FilasRepetidasSeSuman(t *testing.T) {
	rows := []*entity.BOMItem{
		{MaterialItemID: "m2", Quantity: decimal.NewFromInt(1)},
		{MaterialItemID: "m1", Quantity: decimal.NewFromInt(2)},
		{MaterialItemID: "m2", Quantity: decimal.RequireFromString("0.5")},
	}
	got := entity.ExpandBOM(rows, decimal.NewFromInt(4))
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].MaterialItemID, "orden de primera aparición")
	assert.True(t, got[0].Quantity.Equal(decimal.NewFromInt(6)))
	assert.Equal(t, "m1", got[1].MaterialItemID)
	assert.True(t, got[1].Quantity.Equal(decimal.NewFromInt(8)))
}

func TestInventoryItem_Withdraw(t *testing.T) {
	item, err := entity.NewInventoryItem("Harina", entity.ItemTypeMaterial, decimal.NewFromInt(3))
	require.NoError(t, err)

	err = item.Withdraw(decimal.NewFromInt(5), time.Now())
	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	require.Len(t, ise.Deficiencies, 1)
	assert.True(t, ise.Deficiencies[0].Shortfall.Equal(decimal.NewFromInt(2)))
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(3)), "sin cambios tras fallo")

	require.NoError(t, item.Withdraw(decimal.NewFromInt(3), time.Now()))
	assert.True(t, item.Quantity.IsZero())
}

func TestInventoryItem_Umbrales(t *testing.T) {
	item := &entity.InventoryItem{Quantity: decimal.NewFromInt(2), MinQuantity: decimal.NewFromInt(5), MaxQuantity: decimal.NewFromInt(10)}
	assert.True(t, item.IsLowStock())
	assert.False(t, item.IsFull())

	item.Quantity = decimal.NewFromInt(10)
	assert.False(t, item.IsLowStock())
	assert.True(t, item.IsFull())
}
