package application

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/order-service/mocks"
	"github.com/pieceworks/order-system/shared/faults"
	"github.com/pieceworks/order-system/shared/messaging"
	"github.com/pieceworks/order-system/shared/models"
)

func orderInStatus(t *testing.T, status domain.OrderStatus, pieces int) *domain.Order {
	t.Helper()
	return &domain.Order{
		ID:             models.GenerateUUID(),
		ClientID:       models.GenerateUUID(),
		NumberOfPieces: pieces,
		Description:    "No description",
		Status:         status,
		Timestamps:     models.NewTimestamps(),
	}
}

func TestProcessDeliveryCheck_Execute(t *testing.T) {
	tests := []struct {
		name          string
		accepted      bool
		setupMocks    func(*testing.T, *domain.Order, *mocks.MockOrderRepository, *mocks.MockSagaHistoryRepository, *mocks.MockPublisher)
		order         func(*testing.T) *domain.Order
		expectedError string
		expectedKind  faults.Kind
	}{
		{
			name:     "accepted check requests payment",
			accepted: true,
			order: func(t *testing.T) *domain.Order {
				return orderInStatus(t, domain.OrderStatusDeliveryPending, 5)
			},
			setupMocks: func(t *testing.T, order *domain.Order, orders *mocks.MockOrderRepository, history *mocks.MockSagaHistoryRepository, publisher *mocks.MockPublisher) {
				orders.EXPECT().FindByID(mock.Anything, order.ID).Return(order, nil).Once()
				orders.EXPECT().UpdateStatus(mock.Anything, order.ID, domain.OrderStatusDeliveryPending, domain.OrderStatusPaymentPending).
					Return(true, nil).Once()
				history.EXPECT().Append(mock.Anything, mock.MatchedBy(func(entry *domain.SagaHistoryEntry) bool {
					return entry.Status == domain.OrderStatusPaymentPending
				})).Return(nil).Once()
				publisher.EXPECT().Publish(mock.Anything, messaging.ChannelCommands, mock.MatchedBy(func(msg *messaging.Message) bool {
					var data PaymentCheckData
					if err := msg.UnmarshalBody(&data); err != nil {
						return false
					}
					return msg.Topic == TopicPaymentCheck && data.Movement == -5
				})).Return(nil).Once()
			},
		},
		{
			name:     "rejected check cancels the order",
			accepted: false,
			order: func(t *testing.T) *domain.Order {
				return orderInStatus(t, domain.OrderStatusDeliveryPending, 3)
			},
			setupMocks: func(t *testing.T, order *domain.Order, orders *mocks.MockOrderRepository, history *mocks.MockSagaHistoryRepository, publisher *mocks.MockPublisher) {
				orders.EXPECT().FindByID(mock.Anything, order.ID).Return(order, nil).Once()
				orders.EXPECT().UpdateStatus(mock.Anything, order.ID, domain.OrderStatusDeliveryPending, domain.OrderStatusCanceled).
					Return(true, nil).Once()
				history.EXPECT().Append(mock.Anything, mock.MatchedBy(func(entry *domain.SagaHistoryEntry) bool {
					return entry.Status == domain.OrderStatusCanceled
				})).Return(nil).Once()
				// No payment.check is published
			},
		},
		{
			name:     "late response on an already advanced order is dropped",
			accepted: true,
			order: func(t *testing.T) *domain.Order {
				return orderInStatus(t, domain.OrderStatusQueued, 5)
			},
			setupMocks: func(t *testing.T, order *domain.Order, orders *mocks.MockOrderRepository, history *mocks.MockSagaHistoryRepository, publisher *mocks.MockPublisher) {
				orders.EXPECT().FindByID(mock.Anything, order.ID).Return(order, nil).Once()
				// Illegal transition: no update, no history, no publish
			},
		},
		{
			name:     "lost compare-and-set race publishes nothing",
			accepted: true,
			order: func(t *testing.T) *domain.Order {
				return orderInStatus(t, domain.OrderStatusDeliveryPending, 5)
			},
			setupMocks: func(t *testing.T, order *domain.Order, orders *mocks.MockOrderRepository, history *mocks.MockSagaHistoryRepository, publisher *mocks.MockPublisher) {
				orders.EXPECT().FindByID(mock.Anything, order.ID).Return(order, nil).Once()
				orders.EXPECT().UpdateStatus(mock.Anything, order.ID, domain.OrderStatusDeliveryPending, domain.OrderStatusPaymentPending).
					Return(false, nil).Once()
			},
		},
		{
			name:     "unknown order",
			accepted: true,
			order: func(t *testing.T) *domain.Order {
				return orderInStatus(t, domain.OrderStatusDeliveryPending, 5)
			},
			setupMocks: func(t *testing.T, order *domain.Order, orders *mocks.MockOrderRepository, history *mocks.MockSagaHistoryRepository, publisher *mocks.MockPublisher) {
				orders.EXPECT().FindByID(mock.Anything, order.ID).Return(nil, nil).Once()
			},
			expectedKind: faults.KindNotFound,
		},
		{
			name:     "repository error propagates for redelivery",
			accepted: true,
			order: func(t *testing.T) *domain.Order {
				return orderInStatus(t, domain.OrderStatusDeliveryPending, 5)
			},
			setupMocks: func(t *testing.T, order *domain.Order, orders *mocks.MockOrderRepository, history *mocks.MockSagaHistoryRepository, publisher *mocks.MockPublisher) {
				orders.EXPECT().FindByID(mock.Anything, order.ID).Return(nil, errors.New("database error")).Once()
			},
			expectedError: "failed to find order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := mocks.NewMockOrderRepository(t)
			history := mocks.NewMockSagaHistoryRepository(t)
			publisher := mocks.NewMockPublisher(t)
			order := tt.order(t)
			tt.setupMocks(t, order, orders, history, publisher)

			uc := NewProcessDeliveryCheck(orders, history, publisher, zap.NewNop())
			err := uc.Execute(context.Background(), &ProcessDeliveryCheckCommand{
				OrderID:  order.ID,
				Accepted: tt.accepted,
			})

			if tt.expectedKind != "" {
				assert.Error(t, err)
				assert.True(t, faults.Is(err, tt.expectedKind))
				return
			}
			if tt.expectedError != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			assert.NoError(t, err)
		})
	}
}
