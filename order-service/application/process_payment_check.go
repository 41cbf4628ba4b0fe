package application

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/shared/messaging"
	"github.com/pieceworks/order-system/shared/models"
)

// ProcessPaymentCheckCommand carries the payment service's verdict
type ProcessPaymentCheckCommand struct {
	OrderID  models.ID
	Accepted bool
}

// ProcessPaymentCheck advances an order past the payment check: an accepted
// debit queues the order and creates its production batch, a rejected one
// starts the delivery compensation.
type ProcessPaymentCheck struct {
	orders    domain.OrderRepository
	pieces    domain.PieceRepository
	history   domain.SagaHistoryRepository
	publisher messaging.Publisher
	logger    *zap.Logger
}

// NewProcessPaymentCheck creates a new ProcessPaymentCheck use case
func NewProcessPaymentCheck(
	orders domain.OrderRepository,
	pieces domain.PieceRepository,
	history domain.SagaHistoryRepository,
	publisher messaging.Publisher,
	logger *zap.Logger,
) *ProcessPaymentCheck {
	return &ProcessPaymentCheck{
		orders:    orders,
		pieces:    pieces,
		history:   history,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute processes the payment check response
func (uc *ProcessPaymentCheck) Execute(ctx context.Context, cmd *ProcessPaymentCheckCommand) error {
	if !cmd.Accepted {
		return uc.startCompensation(ctx, cmd.OrderID)
	}

	order, applied, err := transitionOrder(ctx, uc.orders, uc.history, uc.logger, cmd.OrderID, domain.OrderStatusQueued)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	batch := domain.NewPieceBatch(order)
	if err := uc.pieces.InsertBatch(ctx, batch); err != nil {
		return errors.Wrap(err, "failed to insert piece batch")
	}

	msgs := make([]*messaging.Message, 0, len(batch))
	for _, piece := range batch {
		msg, err := messaging.NewMessage(TopicPieceNeeded, PieceNeededData{
			IDOrder: piece.OrderID,
			IDPiece: piece.ID,
		})
		if err != nil {
			return errors.Wrap(err, "failed to build piece needed event")
		}
		msgs = append(msgs, msg)
	}

	if err := uc.publisher.Publish(ctx, messaging.ChannelEvents, msgs...); err != nil {
		return errors.Wrap(err, "failed to publish piece needed events")
	}

	return nil
}

func (uc *ProcessPaymentCheck) startCompensation(ctx context.Context, orderID models.ID) error {
	order, applied, err := transitionOrder(ctx, uc.orders, uc.history, uc.logger, orderID, domain.OrderStatusDeliveryCanceling)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	msg, err := messaging.NewMessage(TopicDeliveryCancel, DeliveryCancelData{IDOrder: order.ID})
	if err != nil {
		return errors.Wrap(err, "failed to build delivery cancel command")
	}

	if err := uc.publisher.Publish(ctx, messaging.ChannelCommands, msg); err != nil {
		return errors.Wrap(err, "failed to publish delivery cancel command")
	}

	return nil
}
