package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/shared/models"
)

// ProcessDeliveryCanceledCommand confirms the delivery compensation finished
type ProcessDeliveryCanceledCommand struct {
	OrderID models.ID
}

// ProcessDeliveryCanceled closes the compensation: the order reaches its
// terminal Canceled status. Nothing further is emitted.
type ProcessDeliveryCanceled struct {
	orders  domain.OrderRepository
	history domain.SagaHistoryRepository
	logger  *zap.Logger
}

// NewProcessDeliveryCanceled creates a new ProcessDeliveryCanceled use case
func NewProcessDeliveryCanceled(
	orders domain.OrderRepository,
	history domain.SagaHistoryRepository,
	logger *zap.Logger,
) *ProcessDeliveryCanceled {
	return &ProcessDeliveryCanceled{
		orders:  orders,
		history: history,
		logger:  logger,
	}
}

// Execute processes the delivery cancel response
func (uc *ProcessDeliveryCanceled) Execute(ctx context.Context, cmd *ProcessDeliveryCanceledCommand) error {
	_, _, err := transitionOrder(ctx, uc.orders, uc.history, uc.logger, cmd.OrderID, domain.OrderStatusCanceled)
	return err
}
