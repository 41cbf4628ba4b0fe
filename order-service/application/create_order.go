package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/shared/faults"
	"github.com/pieceworks/order-system/shared/messaging"
	"github.com/pieceworks/order-system/shared/models"
	"github.com/pieceworks/order-system/shared/telemetry"
)

// CreateOrderCommand represents the command to create an order. ClientID is
// supplied by the authenticated transport layer and taken as-is.
type CreateOrderCommand struct {
	NumberOfPieces int    `json:"number_of_pieces"`
	Description    string `json:"description"`
	ClientID       string `json:"id_client"`
}

// CreateOrderResponse represents the created order
type CreateOrderResponse struct {
	Order *domain.Order `json:"order"`
}

// CreateOrder use case: persist a new order in DeliveryPending, record the
// first history entry and start the saga with a delivery.check command.
type CreateOrder struct {
	orders    domain.OrderRepository
	history   domain.SagaHistoryRepository
	publisher messaging.Publisher
}

// NewCreateOrder creates a new CreateOrder use case
func NewCreateOrder(
	orders domain.OrderRepository,
	history domain.SagaHistoryRepository,
	publisher messaging.Publisher,
) *CreateOrder {
	return &CreateOrder{
		orders:    orders,
		history:   history,
		publisher: publisher,
	}
}

// Execute executes the create order use case
func (uc *CreateOrder) Execute(ctx context.Context, cmd *CreateOrderCommand) (*CreateOrderResponse, error) {
	start := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "create_order",
		trace.WithAttributes(
			attribute.String("client_id", cmd.ClientID),
			attribute.Int("number_of_pieces", cmd.NumberOfPieces),
		),
	)
	defer span.End()

	status := "error"
	defer func() {
		telemetry.RecordCounter(ctx, "order_operations_total", "Total order operations", 1,
			attribute.String("operation", "create_order"),
			attribute.String("status", status),
		)
		telemetry.RecordHistogram(ctx, "order_operation_duration_seconds", "Order operation duration", time.Since(start).Seconds(),
			attribute.String("operation", "create_order"),
			attribute.String("status", status),
		)
	}()

	clientID, err := models.NewID(cmd.ClientID)
	if err != nil {
		span.RecordError(err)
		return nil, faults.Validation("invalid client ID").WithCause(err)
	}

	order, err := domain.NewOrder(clientID, cmd.NumberOfPieces, cmd.Description)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := uc.orders.Insert(ctx, order); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to insert order")
	}

	if err := uc.history.Append(ctx, domain.NewSagaHistoryEntry(order.ID, order.Status)); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to append saga history")
	}

	msg, err := messaging.NewMessage(TopicDeliveryCheck, DeliveryCheckData{
		IDOrder:  order.ID,
		IDClient: order.ClientID,
	})
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to build delivery check command")
	}

	if err := uc.publisher.Publish(ctx, messaging.ChannelCommands, msg); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "failed to publish delivery check command")
	}

	status = "success"
	span.SetAttributes(attribute.String("order_id", order.ID.String()))

	return &CreateOrderResponse{Order: order}, nil
}
