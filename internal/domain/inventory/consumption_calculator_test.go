package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func lookupOf(items ...*entity.InventoryItem) inventory.StockLookup {
	m := map[string]*entity.InventoryItem{}
	for _, it := range items {
		m[it.ID] = it
	}
	return func(id string) *entity.InventoryItem { return m[id] }
}

func material(id, name, qty string) *entity.InventoryItem {
	return &entity.InventoryItem{ID: id, Name: name, Type: entity.ItemTypeMaterial, Quantity: d(qty), Unit: "kg"}
}

func bomRows(finished string, pairs ...string) []*entity.BOMItem {
	var rows []*entity.BOMItem
	for i := 0; i+1 < len(pairs); i += 2 {
		rows = append(rows, &entity.BOMItem{FinishedItemID: finished, MaterialItemID: pairs[i], Quantity: d(pairs[i+1])})
	}
	return rows
}

// F tiene BOM M1 x2, M2 x1; M1=25, M2=3; pedido de 5 unidades.
func TestCalculateConsumption_EscenarioBase(t *testing.T) {
	lookup := lookupOf(material("M1", "Tela", "25"), material("M2", "Botón", "3"))
	got := inventory.CalculateConsumption(bomRows("F", "M1", "2", "M2", "1"), d("5"), lookup)
	require.Len(t, got, 2)

	assert.Equal(t, "M1", got[0].MaterialItemID)
	assert.Equal(t, "Tela", got[0].MaterialName)
	assert.True(t, got[0].RequiredQuantity.Equal(d("10")))
	assert.True(t, got[0].AvailableQuantity.Equal(d("25")))
	assert.True(t, got[0].Shortage.IsZero())
	assert.False(t, got[0].IsShortage)

	assert.True(t, got[1].RequiredQuantity.Equal(d("5")))
	assert.True(t, got[1].AvailableQuantity.Equal(d("3")))
	assert.True(t, got[1].Shortage.Equal(d("2")))
	assert.True(t, got[1].IsShortage)
}

func TestCalculateConsumption_Linealidad(t *testing.T) {
	rows := bomRows("F", "M1", "0.125", "M2", "3", "M3", "1.5")
	lookup := lookupOf(material("M1", "a", "1"), material("M2", "b", "100"))
	for _, q := range []string{"0", "1", "2.5", "7", "1000", "0.333"} {
		got := inventory.CalculateConsumption(rows, d(q), lookup)
		require.Len(t, got, len(rows))
		for i, row := range rows {
			assert.True(t, got[i].RequiredQuantity.Equal(row.Quantity.Mul(d(q))), "q=%s fila=%d", q, i)
			want := decimal.Max(decimal.Zero, got[i].RequiredQuantity.Sub(got[i].AvailableQuantity))
			assert.True(t, got[i].Shortage.Equal(want))
			assert.Equal(t, got[i].Shortage.IsPositive(), got[i].IsShortage)
		}
	}
}

func TestCalculateConsumption_BOMVacia(t *testing.T) {
	got := inventory.CalculateConsumption(nil, d("9"), lookupOf())
	assert.Empty(t, got)
}

func TestCalculateConsumption_MaterialInexistente(t *testing.T) {
	got := inventory.CalculateConsumption(bomRows("F", "ghost", "1"), d("2"), lookupOf())
	require.Len(t, got, 1)
	assert.True(t, got[0].AvailableQuantity.IsZero())
	assert.True(t, got[0].Shortage.Equal(d("2")))
	assert.Equal(t, "ghost", got[0].MaterialName)
}

func TestWeightedUnitPrice(t *testing.T) {
	// 10 u a 100 + 10 u a 200 = 150
	got := inventory.WeightedUnitPrice(d("10"), d("100"), d("10"), d("200"))
	assert.True(t, got.Equal(d("150")))
	assert.True(t, inventory.WeightedUnitPrice(d("0"), d("0"), d("0"), d("5")).IsZero())
}
