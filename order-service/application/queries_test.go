package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/order-service/mocks"
	"github.com/pieceworks/order-system/shared/faults"
	"github.com/pieceworks/order-system/shared/models"
)

func TestGetOrder_Execute(t *testing.T) {
	order := orderInStatus(t, domain.OrderStatusQueued, 2)

	tests := []struct {
		name          string
		orderID       string
		setupMocks    func(orders *mocks.MockOrderRepository)
		expectedKind  faults.Kind
		expectedError string
	}{
		{
			name:    "found",
			orderID: order.ID.String(),
			setupMocks: func(orders *mocks.MockOrderRepository) {
				orders.EXPECT().FindByID(mock.Anything, order.ID).Return(order, nil).Once()
			},
		},
		{
			name:          "invalid ID",
			orderID:       "not-a-uuid",
			setupMocks:    func(orders *mocks.MockOrderRepository) {},
			expectedKind:  faults.KindValidation,
			expectedError: "invalid order ID",
		},
		{
			name:    "missing order",
			orderID: order.ID.String(),
			setupMocks: func(orders *mocks.MockOrderRepository) {
				orders.EXPECT().FindByID(mock.Anything, order.ID).Return(nil, nil).Once()
			},
			expectedKind:  faults.KindNotFound,
			expectedError: "not found",
		},
		{
			name:    "repository failure",
			orderID: order.ID.String(),
			setupMocks: func(orders *mocks.MockOrderRepository) {
				orders.EXPECT().FindByID(mock.Anything, order.ID).Return(nil, assert.AnError).Once()
			},
			expectedError: "failed to find order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := mocks.NewMockOrderRepository(t)
			tt.setupMocks(orders)

			uc := NewGetOrder(orders)
			got, err := uc.Execute(context.Background(), &GetOrderQuery{OrderID: tt.orderID})

			if tt.expectedError != "" {
				assert.ErrorContains(t, err, tt.expectedError)
				if tt.expectedKind != "" {
					assert.True(t, faults.Is(err, tt.expectedKind))
				}
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, order, got)
		})
	}
}

func TestListOrders_Execute(t *testing.T) {
	all := []*domain.Order{
		orderInStatus(t, domain.OrderStatusQueued, 2),
		orderInStatus(t, domain.OrderStatusDelivered, 1),
	}

	orders := mocks.NewMockOrderRepository(t)
	orders.EXPECT().FindAll(mock.Anything).Return(all, nil).Once()

	uc := NewListOrders(orders)
	got, err := uc.Execute(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, all, got)
}

func TestListOrdersByClient_Execute(t *testing.T) {
	clientID := models.GenerateUUID()
	owned := []*domain.Order{orderInStatus(t, domain.OrderStatusQueued, 2)}

	tests := []struct {
		name          string
		clientID      string
		setupMocks    func(orders *mocks.MockOrderRepository)
		expectedKind  faults.Kind
		expectedError string
	}{
		{
			name:     "found",
			clientID: clientID.String(),
			setupMocks: func(orders *mocks.MockOrderRepository) {
				orders.EXPECT().FindByClientID(mock.Anything, clientID).Return(owned, nil).Once()
			},
		},
		{
			name:          "invalid client ID",
			clientID:      "42",
			setupMocks:    func(orders *mocks.MockOrderRepository) {},
			expectedKind:  faults.KindValidation,
			expectedError: "invalid client ID",
		},
		{
			name:     "no orders",
			clientID: clientID.String(),
			setupMocks: func(orders *mocks.MockOrderRepository) {
				orders.EXPECT().FindByClientID(mock.Anything, clientID).Return(nil, nil).Once()
			},
			expectedKind:  faults.KindNotFound,
			expectedError: "has no orders",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := mocks.NewMockOrderRepository(t)
			tt.setupMocks(orders)

			uc := NewListOrdersByClient(orders)
			got, err := uc.Execute(context.Background(), &ListOrdersByClientQuery{ClientID: tt.clientID})

			if tt.expectedError != "" {
				assert.ErrorContains(t, err, tt.expectedError)
				assert.True(t, faults.Is(err, tt.expectedKind) || tt.expectedKind == "")
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, owned, got)
		})
	}
}

func TestGetSagaHistory_Execute(t *testing.T) {
	orderID := models.GenerateUUID()
	entries := []*domain.SagaHistoryEntry{
		domain.NewSagaHistoryEntry(orderID, domain.OrderStatusDeliveryPending),
		domain.NewSagaHistoryEntry(orderID, domain.OrderStatusPaymentPending),
		domain.NewSagaHistoryEntry(orderID, domain.OrderStatusQueued),
	}

	tests := []struct {
		name          string
		orderID       string
		setupMocks    func(history *mocks.MockSagaHistoryRepository)
		expectedKind  faults.Kind
		expectedError string
	}{
		{
			name:    "found",
			orderID: orderID.String(),
			setupMocks: func(history *mocks.MockSagaHistoryRepository) {
				history.EXPECT().FindByOrderID(mock.Anything, orderID).Return(entries, nil).Once()
			},
		},
		{
			name:          "invalid order ID",
			orderID:       "",
			setupMocks:    func(history *mocks.MockSagaHistoryRepository) {},
			expectedKind:  faults.KindValidation,
			expectedError: "invalid order ID",
		},
		{
			name:    "empty history",
			orderID: orderID.String(),
			setupMocks: func(history *mocks.MockSagaHistoryRepository) {
				history.EXPECT().FindByOrderID(mock.Anything, orderID).Return([]*domain.SagaHistoryEntry{}, nil).Once()
			},
			expectedKind:  faults.KindNotFound,
			expectedError: "no saga history",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			history := mocks.NewMockSagaHistoryRepository(t)
			tt.setupMocks(history)

			uc := NewGetSagaHistory(history)
			got, err := uc.Execute(context.Background(), &GetSagaHistoryQuery{OrderID: tt.orderID})

			if tt.expectedError != "" {
				assert.ErrorContains(t, err, tt.expectedError)
				assert.True(t, faults.Is(err, tt.expectedKind))
				assert.Nil(t, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, entries, got)
		})
	}
}
