package application

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/shared/faults"
	"github.com/pieceworks/order-system/shared/models"
)

// transitionOrder is the single write path every status change goes through:
// load the order, validate the target against the transition table, apply the
// change with a compare-and-set at the store, and append one history entry
// when the change applied.
//
// An illegal target for the current status is not an error: duplicate and
// late messages are expected, so the transition is logged and dropped with
// applied=false. Losing the compare-and-set race resolves the same way.
func transitionOrder(
	ctx context.Context,
	orders domain.OrderRepository,
	history domain.SagaHistoryRepository,
	logger *zap.Logger,
	orderID models.ID,
	to domain.OrderStatus,
) (*domain.Order, bool, error) {
	order, err := orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to find order")
	}
	if order == nil {
		return nil, false, faults.NotFound("order %s not found", orderID)
	}

	if !order.Status.CanTransitionTo(to) {
		logger.Info("illegal transition dropped",
			zap.String("order_id", orderID.String()),
			zap.String("status", order.Status.String()),
			zap.String("target", to.String()),
		)
		return order, false, nil
	}

	applied, err := orders.UpdateStatus(ctx, orderID, order.Status, to)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to update order status")
	}
	if !applied {
		// A concurrent transition won the compare-and-set.
		logger.Info("stale transition dropped",
			zap.String("order_id", orderID.String()),
			zap.String("target", to.String()),
		)
		return order, false, nil
	}

	order.Status = to
	order.Timestamps = order.Timestamps.Update()

	if err := history.Append(ctx, domain.NewSagaHistoryEntry(orderID, to)); err != nil {
		return nil, false, errors.Wrap(err, "failed to append saga history")
	}

	return order, true, nil
}
