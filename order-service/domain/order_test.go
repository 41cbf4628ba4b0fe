package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pieceworks/order-system/shared/faults"
	"github.com/pieceworks/order-system/shared/models"
)

func TestNewOrder(t *testing.T) {
	clientID := models.GenerateUUID()

	tests := []struct {
		name          string
		clientID      models.ID
		pieces        int
		description   string
		expectedError bool
	}{
		{name: "valid order", clientID: clientID, pieces: 5, description: "five pieces", expectedError: false},
		{name: "single piece", clientID: clientID, pieces: 1, description: "", expectedError: false},
		{name: "zero pieces", clientID: clientID, pieces: 0, description: "none", expectedError: true},
		{name: "negative pieces", clientID: clientID, pieces: -3, description: "refund?", expectedError: true},
		{name: "missing client", clientID: "", pieces: 5, description: "", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := NewOrder(tt.clientID, tt.pieces, tt.description)

			if tt.expectedError {
				require.Error(t, err)
				assert.True(t, faults.Is(err, faults.KindValidation))
				assert.Nil(t, order)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, OrderStatusDeliveryPending, order.Status)
			assert.Equal(t, tt.pieces, order.NumberOfPieces)
			assert.Equal(t, tt.clientID, order.ClientID)
			assert.False(t, order.ID.IsZero())
		})
	}
}

func TestNewOrderDefaultsDescription(t *testing.T) {
	order, err := NewOrder(models.GenerateUUID(), 2, "")
	require.NoError(t, err)
	assert.Equal(t, "No description", order.Description)
}

func TestOrderMovement(t *testing.T) {
	order, err := NewOrder(models.GenerateUUID(), 5, "")
	require.NoError(t, err)
	assert.Equal(t, -5, order.Movement())
}

func TestOrderStatusTransitionTable(t *testing.T) {
	all := []OrderStatus{
		OrderStatusDeliveryPending,
		OrderStatusPaymentPending,
		OrderStatusDeliveryCanceling,
		OrderStatusCanceled,
		OrderStatusQueued,
		OrderStatusProduced,
		OrderStatusDelivering,
		OrderStatusDelivered,
	}

	legal := map[OrderStatus][]OrderStatus{
		OrderStatusDeliveryPending:   {OrderStatusPaymentPending, OrderStatusCanceled},
		OrderStatusPaymentPending:    {OrderStatusQueued, OrderStatusDeliveryCanceling},
		OrderStatusDeliveryCanceling: {OrderStatusCanceled},
		OrderStatusQueued:            {OrderStatusProduced},
		OrderStatusProduced:          {OrderStatusDelivering},
		OrderStatusDelivering:        {OrderStatusDelivered},
		OrderStatusCanceled:          {},
		OrderStatusDelivered:         {},
	}

	// Check every (from, to) pair so an accidental new edge fails the test.
	for _, from := range all {
		for _, to := range all {
			want := false
			for _, allowed := range legal[from] {
				if allowed == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusCanceled.Terminal())
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.False(t, OrderStatusQueued.Terminal())
	assert.False(t, OrderStatus("bogus").Terminal())
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatusQueued.Valid())
	assert.False(t, OrderStatus("Shipped").Valid())
}

func TestNewPieceBatch(t *testing.T) {
	order, err := NewOrder(models.GenerateUUID(), 3, "")
	require.NoError(t, err)

	pieces := NewPieceBatch(order)
	require.Len(t, pieces, 3)

	seen := map[models.ID]bool{}
	for _, p := range pieces {
		assert.Equal(t, order.ID, p.OrderID)
		assert.Equal(t, PieceStatusQueued, p.Status)
		assert.Nil(t, p.ManufacturingDate)
		assert.False(t, seen[p.ID], "piece IDs must be unique")
		seen[p.ID] = true
	}
}

func TestAllProduced(t *testing.T) {
	order, err := NewOrder(models.GenerateUUID(), 2, "")
	require.NoError(t, err)

	pieces := NewPieceBatch(order)
	assert.False(t, AllProduced(pieces))

	pieces[0].Status = PieceStatusProduced
	assert.False(t, AllProduced(pieces))

	pieces[1].Status = PieceStatusProduced
	assert.True(t, AllProduced(pieces))

	assert.False(t, AllProduced(nil))
}
