package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/inventory"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
)

func newHistory(fx *fixture) *inventory.HistoryUseCase {
	return inventory.NewHistoryUseCase(fx.repos.Items, fx.repos.Orders, fx.repos.Transactions, fx.repos.Consumptions)
}

func TestResolveFinishedItem_DosPasos(t *testing.T) {
	fx := newFixture(t)
	order := fx.processingOrder(t, "Centro", fx.f, "1")
	h := newHistory(fx)

	linked := &entity.ConsumptionRecord{ItemID: fx.m1.ID, ItemType: entity.ItemTypeMaterial, OrderID: "otro", FinishedItemID: fx.f.ID}
	got, err := h.ResolveFinishedItem(fx.ctx, linked)
	require.NoError(t, err)
	assert.Equal(t, fx.f.ID, got, "el campo propio manda")

	legacy := &entity.ConsumptionRecord{ItemID: fx.m1.ID, ItemType: entity.ItemTypeMaterial, OrderID: order.ID}
	got, err = h.ResolveFinishedItem(fx.ctx, legacy)
	require.NoError(t, err)
	assert.Equal(t, fx.f.ID, got, "registros antiguos se resuelven por el pedido")

	orphan := &entity.ConsumptionRecord{ItemID: fx.m1.ID, ItemType: entity.ItemTypeMaterial, OrderID: "borrado"}
	got, err = h.ResolveFinishedItem(fx.ctx, orphan)
	require.NoError(t, err)
	assert.Empty(t, got)

	finished := &entity.ConsumptionRecord{ItemID: fx.f.ID, ItemType: entity.ItemTypeFinished, OrderID: order.ID}
	got, _ = h.ResolveFinishedItem(fx.ctx, finished)
	assert.Equal(t, fx.f.ID, got)
}

func TestHistory_ListadosTrasDespacho(t *testing.T) {
	fx := newFixture(t)
	fx.setStock(t, fx.m2, "10")
	order := fx.processingOrder(t, "Centro", fx.f, "2")
	_, err := newShip(fx, nil).Ship(fx.ctx, inventory.ShipInput{OrderID: order.ID, Quantity: d("2"), Actor: "s"})
	require.NoError(t, err)

	// registro antiguo sin FinishedItemID
	require.NoError(t, fx.repos.Consumptions.Create(fx.ctx, &entity.ConsumptionRecord{
		ID: "legacy", OrderID: order.ID, ItemID: fx.m1.ID, ItemType: entity.ItemTypeMaterial,
		Quantity: d("1"), BranchName: "Centro", ProcessedAt: time.Now().UTC().Add(-time.Hour),
	}))

	h := newHistory(fx)
	entries, err := h.ListConsumptions(fx.ctx, fx.m1.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, fx.f.ID, e.FinishedItemID)
	}

	txs, err := h.ListTransactions(fx.ctx, fx.m1.ID, nil, nil, 10, 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Quantity.Equal(d("4")))

	_, err = h.ListTransactions(fx.ctx, "nope", nil, nil, 10, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReplenishment_IncluyeDemandaPendiente(t *testing.T) {
	fx := newFixture(t)
	// pedido pending de 10 F: M1 requiere 20 (hay 25), M2 requiere 10 (hay 3)
	o, err := entity.NewOrder("Centro", fx.f.ID, d("10"), "", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, fx.repos.Orders.Create(fx.ctx, o))

	low, err := entity.NewInventoryItem("Levadura", entity.ItemTypeMaterial, d("1"))
	require.NoError(t, err)
	low.MinQuantity = d("4")
	low.MaxQuantity = d("10")
	low.UnitPrice = d("0.5")
	require.NoError(t, fx.repos.Items.Create(fx.ctx, low))

	uc := inventory.NewReplenishmentUseCase(fx.repos.Items, fx.repos.BOM, fx.repos.Orders)
	list, err := uc.GenerateReplenishmentList(fx.ctx, entity.ItemTypeMaterial)
	require.NoError(t, err)
	require.Len(t, list, 2, "Harina alcanza y no está bajo mínimo")

	assert.Equal(t, fx.m2.ID, list[0].Item.ID, "el faltante contra pedidos va primero")
	assert.True(t, list[0].PendingDemand.Equal(d("10")))
	assert.True(t, list[0].SuggestedQty.Equal(d("7")))
	assert.Equal(t, 1, list[0].Priority)

	assert.Equal(t, low.ID, list[1].Item.ID)
	assert.True(t, list[1].SuggestedQty.Equal(d("9")))
	assert.True(t, list[1].EstimatedCost.Equal(d("4.5")))
	assert.Equal(t, 2, list[1].Priority)
}

func TestReplenishment_EmpateOrdenaPorNombreEnEspanol(t *testing.T) {
	fx := newFixture(t)
	for _, name := range []string{"Zanahoria", "Ñame", "azúcar"} {
		it, err := entity.NewInventoryItem(name, entity.ItemTypeMaterial, d("1"))
		require.NoError(t, err)
		it.MinQuantity = d("4")
		require.NoError(t, fx.repos.Items.Create(fx.ctx, it))
	}

	uc := inventory.NewReplenishmentUseCase(fx.repos.Items, fx.repos.BOM, fx.repos.Orders)
	list, err := uc.GenerateReplenishmentList(fx.ctx, entity.ItemTypeMaterial)
	require.NoError(t, err)
	require.Len(t, list, 3)

	names := []string{list[0].Item.Name, list[1].Item.Name, list[2].Item.Name}
	assert.Equal(t, []string{"azúcar", "Ñame", "Zanahoria"}, names)
}
