package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/ports"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/repository"
	"github.com/jhoicas/branch-fulfillment-api/internal/infrastructure/locking"
	"github.com/jhoicas/branch-fulfillment-api/internal/infrastructure/memory"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// fixture producto F (stock 10) con BOM M1×2 y M2×1; M1=25, M2=3.
type fixture struct {
	ctx    context.Context
	store  *memory.Store
	repos  ports.Repos
	locker *locking.LocalLocker
	f      *entity.InventoryItem
	m1     *entity.InventoryItem
	m2     *entity.InventoryItem
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := memory.NewStore()
	fx := &fixture{ctx: context.Background(), store: s, repos: s.Repos(), locker: locking.NewLocalLocker()}
	fx.f = fx.item(t, "Torta de chocolate", entity.ItemTypeFinished, "10")
	fx.m1 = fx.item(t, "Harina", entity.ItemTypeMaterial, "25")
	fx.m2 = fx.item(t, "Cacao", entity.ItemTypeMaterial, "3")
	fx.bom(t, fx.f, fx.m1, "2")
	fx.bom(t, fx.f, fx.m2, "1")
	return fx
}

func (fx *fixture) item(t *testing.T, name string, typ entity.ItemType, qty string) *entity.InventoryItem {
	t.Helper()
	it, err := entity.NewInventoryItem(name, typ, d(qty))
	require.NoError(t, err)
	it.Unit = "kg"
	require.NoError(t, fx.repos.Items.Create(fx.ctx, it))
	return it
}

func (fx *fixture) bom(t *testing.T, finished, material *entity.InventoryItem, qty string) {
	t.Helper()
	row, err := entity.NewBOMItem(finished.ID, material.ID, d(qty))
	require.NoError(t, err)
	require.NoError(t, fx.repos.BOM.CreateBatch(fx.ctx, []*entity.BOMItem{row}))
}

// processingOrder crea un pedido y lo deja en processing.
func (fx *fixture) processingOrder(t *testing.T, branch string, finished *entity.InventoryItem, qty string) *entity.Order {
	t.Helper()
	o, err := entity.NewOrder(branch, finished.ID, d(qty), "", time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, o.StartProcessing("staff", time.Now().UTC()))
	require.NoError(t, fx.repos.Orders.Create(fx.ctx, o))
	return o
}

func (fx *fixture) stock(t *testing.T, it *entity.InventoryItem) decimal.Decimal {
	t.Helper()
	got, err := fx.repos.Items.GetByID(fx.ctx, it.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	return got.Quantity
}

func (fx *fixture) setStock(t *testing.T, it *entity.InventoryItem, qty string) {
	t.Helper()
	require.NoError(t, fx.repos.Items.UpdateStock(fx.ctx, it.ID, d(qty), decimal.Zero, time.Now()))
}

// failingRunner reemplaza el Consumption Log por uno que falla, para simular un error de persistencia a mitad del despacho.
type failingRunner struct {
	inner ports.TxRunner
}

func (r failingRunner) Run(ctx context.Context, fn func(ports.Repos) error) error {
	return r.inner.Run(ctx, func(repos ports.Repos) error {
		repos.Consumptions = failingConsumptions{repos.Consumptions}
		return fn(repos)
	})
}

type failingConsumptions struct {
	repository.ConsumptionRepository
}

func (failingConsumptions) Create(context.Context, *entity.ConsumptionRecord) error {
	return errors.New("disco lleno")
}
