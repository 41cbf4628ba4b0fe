package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/order-service/mocks"
	"github.com/pieceworks/order-system/shared/messaging"
)

func TestProcessPaymentCheck_Accepted(t *testing.T) {
	order := orderInStatus(t, domain.OrderStatusPaymentPending, 3)

	orders := mocks.NewMockOrderRepository(t)
	pieces := mocks.NewMockPieceRepository(t)
	history := mocks.NewMockSagaHistoryRepository(t)
	publisher := mocks.NewMockPublisher(t)

	orders.EXPECT().FindByID(mock.Anything, order.ID).Return(order, nil).Once()
	orders.EXPECT().UpdateStatus(mock.Anything, order.ID, domain.OrderStatusPaymentPending, domain.OrderStatusQueued).
		Return(true, nil).Once()
	history.EXPECT().Append(mock.Anything, mock.MatchedBy(func(entry *domain.SagaHistoryEntry) bool {
		return entry.Status == domain.OrderStatusQueued
	})).Return(nil).Once()

	var insertedBatch []*domain.Piece
	pieces.EXPECT().InsertBatch(mock.Anything, mock.Anything).
		Run(func(ctx context.Context, batch []*domain.Piece) {
			insertedBatch = batch
		}).Return(nil).Once()

	var published []*messaging.Message
	publisher.EXPECT().Publish(mock.Anything, messaging.ChannelEvents, mock.Anything, mock.Anything, mock.Anything).
		Run(func(ctx context.Context, channel messaging.Channel, msgs ...*messaging.Message) {
			published = msgs
		}).Return(nil).Once()

	uc := NewProcessPaymentCheck(orders, pieces, history, publisher, zap.NewNop())
	err := uc.Execute(context.Background(), &ProcessPaymentCheckCommand{OrderID: order.ID, Accepted: true})
	assert.NoError(t, err)

	// One piece row and one piece.needed event per ordered piece.
	assert.Len(t, insertedBatch, 3)
	assert.Len(t, published, 3)
	for i, msg := range published {
		assert.Equal(t, TopicPieceNeeded, msg.Topic)

		var data PieceNeededData
		assert.NoError(t, msg.UnmarshalBody(&data))
		assert.Equal(t, order.ID, data.IDOrder)
		assert.Equal(t, insertedBatch[i].ID, data.IDPiece)
	}
}

func TestProcessPaymentCheck_RejectedStartsCompensation(t *testing.T) {
	order := orderInStatus(t, domain.OrderStatusPaymentPending, 3)

	orders := mocks.NewMockOrderRepository(t)
	pieces := mocks.NewMockPieceRepository(t)
	history := mocks.NewMockSagaHistoryRepository(t)
	publisher := mocks.NewMockPublisher(t)

	orders.EXPECT().FindByID(mock.Anything, order.ID).Return(order, nil).Once()
	orders.EXPECT().UpdateStatus(mock.Anything, order.ID, domain.OrderStatusPaymentPending, domain.OrderStatusDeliveryCanceling).
		Return(true, nil).Once()
	history.EXPECT().Append(mock.Anything, mock.MatchedBy(func(entry *domain.SagaHistoryEntry) bool {
		return entry.Status == domain.OrderStatusDeliveryCanceling
	})).Return(nil).Once()
	publisher.EXPECT().Publish(mock.Anything, messaging.ChannelCommands, mock.MatchedBy(func(msg *messaging.Message) bool {
		return msg.Topic == TopicDeliveryCancel
	})).Return(nil).Once()

	uc := NewProcessPaymentCheck(orders, pieces, history, publisher, zap.NewNop())
	err := uc.Execute(context.Background(), &ProcessPaymentCheckCommand{OrderID: order.ID, Accepted: false})
	assert.NoError(t, err)
}

func TestProcessPaymentCheck_DuplicateResponseDropped(t *testing.T) {
	// The order already moved to Queued: a redelivered payment.checked must
	// not create a second piece batch.
	order := orderInStatus(t, domain.OrderStatusQueued, 3)

	orders := mocks.NewMockOrderRepository(t)
	pieces := mocks.NewMockPieceRepository(t)
	history := mocks.NewMockSagaHistoryRepository(t)
	publisher := mocks.NewMockPublisher(t)

	orders.EXPECT().FindByID(mock.Anything, order.ID).Return(order, nil).Once()

	uc := NewProcessPaymentCheck(orders, pieces, history, publisher, zap.NewNop())
	err := uc.Execute(context.Background(), &ProcessPaymentCheckCommand{OrderID: order.ID, Accepted: true})
	assert.NoError(t, err)
}

func TestProcessDeliveryCanceled_Execute(t *testing.T) {
	order := orderInStatus(t, domain.OrderStatusDeliveryCanceling, 3)

	orders := mocks.NewMockOrderRepository(t)
	history := mocks.NewMockSagaHistoryRepository(t)

	orders.EXPECT().FindByID(mock.Anything, order.ID).Return(order, nil).Once()
	orders.EXPECT().UpdateStatus(mock.Anything, order.ID, domain.OrderStatusDeliveryCanceling, domain.OrderStatusCanceled).
		Return(true, nil).Once()
	history.EXPECT().Append(mock.Anything, mock.MatchedBy(func(entry *domain.SagaHistoryEntry) bool {
		return entry.Status == domain.OrderStatusCanceled
	})).Return(nil).Once()

	uc := NewProcessDeliveryCanceled(orders, history, zap.NewNop())
	err := uc.Execute(context.Background(), &ProcessDeliveryCanceledCommand{OrderID: order.ID})
	assert.NoError(t, err)
}
