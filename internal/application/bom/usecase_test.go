package bom_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/bom"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain"
	"github.com/jhoicas/branch-fulfillment-api/internal/domain/entity"
	"github.com/jhoicas/branch-fulfillment-api/internal/infrastructure/locking"
	"github.com/jhoicas/branch-fulfillment-api/internal/infrastructure/memory"
	"github.com/jhoicas/branch-fulfillment-api/pkg/logger"
)

type env struct {
	ctx   context.Context
	store *memory.Store
	uc    *bom.UseCase
}

func newEnv() *env {
	s := memory.NewStore()
	r := s.Repos()
	return &env{
		ctx:   context.Background(),
		store: s,
		uc:    bom.NewUseCase(s, locking.NewLocalLocker(), r.BOM, r.Items, logger.Nop()),
	}
}

func (e *env) item(t *testing.T, name string, typ entity.ItemType) *entity.InventoryItem {
	t.Helper()
	it, err := entity.NewInventoryItem(name, typ, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, e.store.Repos().Items.Create(e.ctx, it))
	return it
}

func TestReplace_GuardaYOrdenaPorNombre(t *testing.T) {
	e := newEnv()
	f := e.item(t, "Torta", entity.ItemTypeFinished)
	sugar := e.item(t, "Azúcar", entity.ItemTypeMaterial)
	flour := e.item(t, "harina", entity.ItemTypeMaterial)
	cocoa := e.item(t, "Cacao", entity.ItemTypeMaterial)

	rows, err := e.uc.Replace(e.ctx, f.ID, []bom.RowInput{
		{MaterialItemID: flour.ID, Quantity: decimal.NewFromInt(2)},
		{MaterialItemID: sugar.ID, Quantity: decimal.RequireFromString("0.5")},
		{MaterialItemID: cocoa.ID, Quantity: decimal.NewFromInt(1)},
	})
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	got, err := e.uc.GetByFinishedItem(e.ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Azúcar", got[0].Material.Name)
	assert.Equal(t, "Cacao", got[1].Material.Name)
	assert.Equal(t, "harina", got[2].Material.Name, "orden sin distinguir mayúsculas")

	has, err := e.uc.HasBOM(e.ctx, f.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestReplace_ListaVaciaDejaSinBOM(t *testing.T) {
	e := newEnv()
	f := e.item(t, "Torta", entity.ItemTypeFinished)
	m := e.item(t, "Harina", entity.ItemTypeMaterial)
	_, err := e.uc.Replace(e.ctx, f.ID, []bom.RowInput{{MaterialItemID: m.ID, Quantity: decimal.NewFromInt(1)}})
	require.NoError(t, err)

	_, err = e.uc.Replace(e.ctx, f.ID, nil)
	require.NoError(t, err)
	has, _ := e.uc.HasBOM(e.ctx, f.ID)
	assert.False(t, has)
}

func TestReplace_ValidacionesNoModificanNada(t *testing.T) {
	e := newEnv()
	f := e.item(t, "Torta", entity.ItemTypeFinished)
	m := e.item(t, "Harina", entity.ItemTypeMaterial)
	other := e.item(t, "Pan", entity.ItemTypeFinished)
	_, err := e.uc.Replace(e.ctx, f.ID, []bom.RowInput{{MaterialItemID: m.ID, Quantity: decimal.NewFromInt(1)}})
	require.NoError(t, err)

	_, err = e.uc.Replace(e.ctx, f.ID, []bom.RowInput{{MaterialItemID: m.ID, Quantity: decimal.Zero}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.uc.Replace(e.ctx, f.ID, []bom.RowInput{{MaterialItemID: "nope", Quantity: decimal.NewFromInt(1)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.uc.Replace(e.ctx, f.ID, []bom.RowInput{{MaterialItemID: other.ID, Quantity: decimal.NewFromInt(1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "un producto terminado no es material")

	_, err = e.uc.Replace(e.ctx, m.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "un material no tiene BOM")

	_, err = e.uc.Replace(e.ctx, "nope", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := e.uc.GetByFinishedItem(e.ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, got, 1, "la BOM anterior sigue intacta")
	assert.Equal(t, m.ID, got[0].BOMItem.MaterialItemID)
}
