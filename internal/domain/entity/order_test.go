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

func newPendingOrder(t *testing.T, qty int64) *entity.Order {
	t.Helper()
	o, err := entity.NewOrder("Sucursal Centro", "fin-1", decimal.NewFromInt(qty), "", time.Now())
	require.NoError(t, err)
	return o
}

func TestNewOrder_Validaciones(t *testing.T) {
	_, err := entity.NewOrder("", "fin-1", decimal.NewFromInt(1), "", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = entity.NewOrder("Centro", "", decimal.NewFromInt(1), "", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = entity.NewOrder("Centro", "fin-1", decimal.Zero, "", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	o := newPendingOrder(t, 3)
	assert.Equal(t, entity.OrderStatusPending, o.Status)
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	all := []entity.OrderStatus{
		entity.OrderStatusPending, entity.OrderStatusProcessing, entity.OrderStatusShipping,
		entity.OrderStatusReceived, entity.OrderStatusCompleted, entity.OrderStatusRejected,
	}
	allowed := map[entity.OrderStatus][]entity.OrderStatus{
		entity.OrderStatusPending:    {entity.OrderStatusProcessing, entity.OrderStatusRejected},
		entity.OrderStatusProcessing: {entity.OrderStatusShipping, entity.OrderStatusRejected},
		entity.OrderStatusShipping:   {entity.OrderStatusReceived},
		entity.OrderStatusReceived:   {entity.OrderStatusCompleted},
	}
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrder_CicloCompleto(t *testing.T) {
	o := newPendingOrder(t, 5)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, o.StartProcessing("staff-1", at))
	assert.Equal(t, entity.OrderStatusProcessing, o.Status)
	require.NotNil(t, o.ProcessedAt)
	assert.Equal(t, "staff-1", o.ProcessedBy)

	shipAt := at.Add(time.Hour)
	require.NoError(t, o.MarkShipped(decimal.NewFromInt(3), "staff-2", shipAt))
	assert.Equal(t, entity.OrderStatusShipping, o.Status)
	assert.True(t, o.ShippedQuantity.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, shipAt, *o.ShippedAt)
	assert.Equal(t, "staff-2", o.ShippedBy)
	assert.Equal(t, shipAt, *o.ProcessedAt, "el despacho replica processedAt/By")
	assert.True(t, o.IsPartialShipment())

	require.NoError(t, o.ConfirmReceipt("branch-user", shipAt.Add(time.Hour)))
	assert.Equal(t, entity.OrderStatusReceived, o.Status)
	assert.Equal(t, "branch-user", o.ReceivedBy)

	require.NoError(t, o.Complete("admin", shipAt.Add(2*time.Hour)))
	assert.Equal(t, entity.OrderStatusCompleted, o.Status)
	assert.True(t, o.Status.IsTerminal())
}

func TestOrder_MarkShipped_SoloDesdeProcessing(t *testing.T) {
	o := newPendingOrder(t, 5)
	err := o.MarkShipped(decimal.NewFromInt(1), "x", time.Now())

	var te *domain.InvalidTransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "pending", te.From)
	assert.Equal(t, "shipping", te.To)
	assert.Equal(t, entity.OrderStatusPending, o.Status)
}

func TestOrder_MarkShipped_NoPermiteExceso(t *testing.T) {
	o := newPendingOrder(t, 5)
	require.NoError(t, o.StartProcessing("s", time.Now()))

	err := o.MarkShipped(decimal.NewFromInt(6), "s", time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, entity.OrderStatusProcessing, o.Status)
	assert.Nil(t, o.ShippedQuantity)
}

func TestOrder_Reject(t *testing.T) {
	o := newPendingOrder(t, 2)
	assert.ErrorIs(t, o.Reject("  ", "s", time.Now()), domain.ErrInvalidInput)
	assert.Equal(t, entity.OrderStatusPending, o.Status)

	require.NoError(t, o.Reject("sin capacidad de producción", "s", time.Now()))
	assert.Equal(t, entity.OrderStatusRejected, o.Status)
	assert.Equal(t, "sin capacidad de producción", o.Notes)

	assert.ErrorIs(t, o.StartProcessing("s", time.Now()), domain.ErrInvalidTransition, "rejected es terminal")
}

func TestOrder_Reject_MotivoVacioSeValidaAntesQueLaTransicion(t *testing.T) {
	o := newPendingOrder(t, 2)
	require.NoError(t, o.StartProcessing("s", time.Now()))
	require.NoError(t, o.MarkShipped(decimal.NewFromInt(2), "s", time.Now()))
	require.NoError(t, o.ConfirmReceipt("b", time.Now()))
	require.NoError(t, o.Complete("s", time.Now()))

	err := o.Reject("", "s", time.Now())
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "reason", ve.Field)
	assert.NotErrorIs(t, err, domain.ErrInvalidTransition)

	assert.ErrorIs(t, o.Reject("tarde", "s", time.Now()), domain.ErrInvalidTransition)
	assert.Equal(t, entity.OrderStatusCompleted, o.Status)
}
