package application

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/shared/messaging"
	"github.com/pieceworks/order-system/shared/models"
)

// ProcessDeliveryCheckCommand carries the delivery service's verdict
type ProcessDeliveryCheckCommand struct {
	OrderID  models.ID
	Accepted bool
}

// ProcessDeliveryCheck advances an order past the delivery check: an accepted
// check moves it to PaymentPending and requests the payment debit, a rejected
// one cancels the order outright.
type ProcessDeliveryCheck struct {
	orders    domain.OrderRepository
	history   domain.SagaHistoryRepository
	publisher messaging.Publisher
	logger    *zap.Logger
}

// NewProcessDeliveryCheck creates a new ProcessDeliveryCheck use case
func NewProcessDeliveryCheck(
	orders domain.OrderRepository,
	history domain.SagaHistoryRepository,
	publisher messaging.Publisher,
	logger *zap.Logger,
) *ProcessDeliveryCheck {
	return &ProcessDeliveryCheck{
		orders:    orders,
		history:   history,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute processes the delivery check response
func (uc *ProcessDeliveryCheck) Execute(ctx context.Context, cmd *ProcessDeliveryCheckCommand) error {
	if !cmd.Accepted {
		_, _, err := transitionOrder(ctx, uc.orders, uc.history, uc.logger, cmd.OrderID, domain.OrderStatusCanceled)
		return err
	}

	order, applied, err := transitionOrder(ctx, uc.orders, uc.history, uc.logger, cmd.OrderID, domain.OrderStatusPaymentPending)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	msg, err := messaging.NewMessage(TopicPaymentCheck, PaymentCheckData{
		IDOrder:  order.ID,
		IDClient: order.ClientID,
		Movement: order.Movement(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to build payment check command")
	}

	if err := uc.publisher.Publish(ctx, messaging.ChannelCommands, msg); err != nil {
		return errors.Wrap(err, "failed to publish payment check command")
	}

	return nil
}
