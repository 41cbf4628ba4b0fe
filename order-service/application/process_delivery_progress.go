package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/shared/models"
)

// ProcessOrderDeliveringCommand reports the delivery service took the order
type ProcessOrderDeliveringCommand struct {
	OrderID models.ID
}

// ProcessOrderDelivering moves a produced order to Delivering.
type ProcessOrderDelivering struct {
	orders  domain.OrderRepository
	history domain.SagaHistoryRepository
	logger  *zap.Logger
}

func NewProcessOrderDelivering(
	orders domain.OrderRepository,
	history domain.SagaHistoryRepository,
	logger *zap.Logger,
) *ProcessOrderDelivering {
	return &ProcessOrderDelivering{orders: orders, history: history, logger: logger}
}

func (uc *ProcessOrderDelivering) Execute(ctx context.Context, cmd *ProcessOrderDeliveringCommand) error {
	_, _, err := transitionOrder(ctx, uc.orders, uc.history, uc.logger, cmd.OrderID, domain.OrderStatusDelivering)
	return err
}

// ProcessOrderDeliveredCommand reports the delivery reached the client
type ProcessOrderDeliveredCommand struct {
	OrderID models.ID
}

// ProcessOrderDelivered closes the saga on its happy path: the order reaches
// its terminal Delivered status.
type ProcessOrderDelivered struct {
	orders  domain.OrderRepository
	history domain.SagaHistoryRepository
	logger  *zap.Logger
}

func NewProcessOrderDelivered(
	orders domain.OrderRepository,
	history domain.SagaHistoryRepository,
	logger *zap.Logger,
) *ProcessOrderDelivered {
	return &ProcessOrderDelivered{orders: orders, history: history, logger: logger}
}

func (uc *ProcessOrderDelivered) Execute(ctx context.Context, cmd *ProcessOrderDeliveredCommand) error {
	_, _, err := transitionOrder(ctx, uc.orders, uc.history, uc.logger, cmd.OrderID, domain.OrderStatusDelivered)
	return err
}
