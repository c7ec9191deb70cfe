package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/inventory"
)

func pendingOrder(id, branch, finished, qty string) *entity.Order {
	return &entity.Order{ID: id, BranchName: branch, FinishedItemID: finished, Quantity: d(qty), Status: entity.OrderStatusPending}
}

func TestAggregateByBranch_IndependenciaEntreSucursales(t *testing.T) {
	// A necesita 10 de M1, B necesita 5 de M1; stock compartido 8.
	bom := map[string][]*entity.BOMItem{"F": bomRows("F", "M1", "1")}
	lookup := lookupOf(material("M1", "Harina", "8"))
	orders := []*entity.Order{
		pendingOrder("o-a", "Sucursal A", "F", "10"),
		pendingOrder("o-b", "Sucursal B", "F", "5"),
	}

	got := inventory.AggregateByBranch(orders, bom, lookup)
	require.Len(t, got, 1, "B no tiene faltante (5 <= 8) y se omite")
	assert.Equal(t, "Sucursal A", got[0].BranchName)
	require.Len(t, got[0].Shortages, 1)
	assert.True(t, got[0].Shortages[0].RequiredQuantity.Equal(d("10")), "solo demanda propia")
	assert.True(t, got[0].Shortages[0].Shortage.Equal(d("2")))
	assert.Equal(t, 1, got[0].TotalShortageCount)
	require.Len(t, got[0].Orders, 1)
	assert.Equal(t, "o-a", got[0].Orders[0].ID)
}

func TestAggregateByBranch_AmbasEnFaltanteSobreElMismoMaterial(t *testing.T) {
	bom := map[string][]*entity.BOMItem{"F": bomRows("F", "M1", "2")}
	lookup := lookupOf(material("M1", "Harina", "8"))
	orders := []*entity.Order{
		pendingOrder("o-b1", "Sucursal B", "F", "3"),
		pendingOrder("o-a", "Sucursal A", "F", "5"),
		pendingOrder("o-b2", "Sucursal B", "F", "2"),
	}

	got := inventory.AggregateByBranch(orders, bom, lookup)
	require.Len(t, got, 2)
	assert.Equal(t, "Sucursal A", got[0].BranchName, "ordenado por nombre")
	assert.True(t, got[0].Shortages[0].RequiredQuantity.Equal(d("10")))
	assert.True(t, got[0].Shortages[0].Shortage.Equal(d("2")))

	assert.Equal(t, "Sucursal B", got[1].BranchName)
	assert.True(t, got[1].Shortages[0].RequiredQuantity.Equal(d("10")), "3*2 + 2*2, sin contar la demanda de A")
	assert.True(t, got[1].Shortages[0].AvailableQuantity.Equal(d("8")), "misma foto de stock, sin reparto")
	assert.Len(t, got[1].Orders, 2)
}

func TestAggregateMaterials_SoloPendientes(t *testing.T) {
	bom := map[string][]*entity.BOMItem{
		"F": bomRows("F", "M1", "2", "M2", "1"),
		"G": bomRows("G", "M2", "4"),
	}
	lookup := lookupOf(material("M1", "Tela", "25"), material("M2", "Botón", "10"))
	processing := pendingOrder("o-x", "Sucursal A", "G", "100")
	processing.Status = entity.OrderStatusProcessing
	orders := []*entity.Order{
		pendingOrder("o-1", "Sucursal A", "F", "5"),
		pendingOrder("o-2", "Sucursal B", "G", "2"),
		processing,
	}

	got := inventory.AggregateMaterials(orders, bom, lookup)
	require.Len(t, got, 2)
	// M2: 5 + 8 = 13 vs 10 -> faltante 3, va primero
	assert.Equal(t, "M2", got[0].MaterialItemID)
	assert.True(t, got[0].RequiredQuantity.Equal(d("13")))
	assert.True(t, got[0].Shortage.Equal(d("3")))
	assert.Equal(t, 2, got[0].OrderCount)
	assert.Equal(t, "M1", got[1].MaterialItemID)
	assert.False(t, got[1].IsShortage)
}

func TestAggregate_SinPedidos(t *testing.T) {
	assert.Empty(t, inventory.AggregateMaterials(nil, nil, lookupOf()))
	assert.Empty(t, inventory.AggregateByBranch(nil, nil, lookupOf()))
}
