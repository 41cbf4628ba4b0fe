package handlers

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pieceworks/order-system/order-service/application"
	"github.com/pieceworks/order-system/order-service/auth"
	"github.com/pieceworks/order-system/shared/messaging"
)

// MessageRouter dispatches inbound saga messages to their use cases. Each
// binding's queue delivers one routing key, so dispatch is a straight switch
// on the message topic. A returned error requeues the message.
type MessageRouter struct {
	deliveryCheck    *application.ProcessDeliveryCheck
	paymentCheck     *application.ProcessPaymentCheck
	deliveryCanceled *application.ProcessDeliveryCanceled
	pieceProduced    *application.ProcessPieceProduced
	orderDelivering  *application.ProcessOrderDelivering
	orderDelivered   *application.ProcessOrderDelivered
	keys             *auth.PublicKeyStore
	logger           *zap.Logger
}

// NewMessageRouter creates a new MessageRouter
func NewMessageRouter(
	deliveryCheck *application.ProcessDeliveryCheck,
	paymentCheck *application.ProcessPaymentCheck,
	deliveryCanceled *application.ProcessDeliveryCanceled,
	pieceProduced *application.ProcessPieceProduced,
	orderDelivering *application.ProcessOrderDelivering,
	orderDelivered *application.ProcessOrderDelivered,
	keys *auth.PublicKeyStore,
	logger *zap.Logger,
) *MessageRouter {
	return &MessageRouter{
		deliveryCheck:    deliveryCheck,
		paymentCheck:     paymentCheck,
		deliveryCanceled: deliveryCanceled,
		pieceProduced:    pieceProduced,
		orderDelivering:  orderDelivering,
		orderDelivered:   orderDelivered,
		keys:             keys,
		logger:           logger,
	}
}

// Bindings returns the queues the order service consumes.
func (r *MessageRouter) Bindings() []messaging.Binding {
	return []messaging.Binding{
		{Queue: "piece.produced", RoutingKey: application.TopicPieceProduced, Channel: messaging.ChannelEvents},
		{Queue: "order.delivered", RoutingKey: application.TopicOrderDelivered, Channel: messaging.ChannelEvents},
		{Queue: "order.delivering", RoutingKey: application.TopicOrderDelivering, Channel: messaging.ChannelEvents},
		{Queue: "client.key_created_order", RoutingKey: application.TopicClientKeyCreated, Channel: messaging.ChannelEvents},
		{Queue: "delivery.checked", RoutingKey: application.TopicDeliveryChecked, Channel: messaging.ChannelResponses},
		{Queue: "payment.checked", RoutingKey: application.TopicPaymentChecked, Channel: messaging.ChannelResponses},
		{Queue: "delivery.canceled", RoutingKey: application.TopicDeliveryCanceled, Channel: messaging.ChannelResponses},
	}
}

// HandlerID identifies the router on the subscriber.
func (r *MessageRouter) HandlerID() string {
	return "order-service-router"
}

// Handle dispatches one inbound message by its topic.
func (r *MessageRouter) Handle(ctx context.Context, msg *messaging.Message) error {
	switch msg.Topic {
	case application.TopicDeliveryChecked:
		var data application.DeliveryCheckedData
		if err := msg.UnmarshalBody(&data); err != nil {
			return errors.Wrap(err, "failed to decode delivery.checked")
		}
		return r.deliveryCheck.Execute(ctx, &application.ProcessDeliveryCheckCommand{
			OrderID:  data.IDOrder,
			Accepted: data.Status,
		})

	case application.TopicPaymentChecked:
		var data application.PaymentCheckedData
		if err := msg.UnmarshalBody(&data); err != nil {
			return errors.Wrap(err, "failed to decode payment.checked")
		}
		return r.paymentCheck.Execute(ctx, &application.ProcessPaymentCheckCommand{
			OrderID:  data.IDOrder,
			Accepted: data.Status,
		})

	case application.TopicDeliveryCanceled:
		var data application.DeliveryCanceledData
		if err := msg.UnmarshalBody(&data); err != nil {
			return errors.Wrap(err, "failed to decode delivery.canceled")
		}
		return r.deliveryCanceled.Execute(ctx, &application.ProcessDeliveryCanceledCommand{
			OrderID: data.IDOrder,
		})

	case application.TopicPieceProduced:
		var data application.PieceProducedData
		if err := msg.UnmarshalBody(&data); err != nil {
			return errors.Wrap(err, "failed to decode piece.produced")
		}
		return r.pieceProduced.Execute(ctx, &application.ProcessPieceProducedCommand{
			PieceID: data.IDPiece,
			OrderID: data.IDOrder,
		})

	case application.TopicOrderDelivering:
		var data application.OrderDeliveryData
		if err := msg.UnmarshalBody(&data); err != nil {
			return errors.Wrap(err, "failed to decode order.delivering")
		}
		return r.orderDelivering.Execute(ctx, &application.ProcessOrderDeliveringCommand{
			OrderID: data.IDOrder,
		})

	case application.TopicOrderDelivered:
		var data application.OrderDeliveryData
		if err := msg.UnmarshalBody(&data); err != nil {
			return errors.Wrap(err, "failed to decode order.delivered")
		}
		return r.orderDelivered.Execute(ctx, &application.ProcessOrderDeliveredCommand{
			OrderID: data.IDOrder,
		})

	case application.TopicClientKeyCreated:
		return r.keys.Refresh(ctx)

	default:
		// Not a topic this service consumes; ack so it doesn't loop.
		r.logger.Warn("dropping message with unroutable topic",
			zap.String("topic", msg.Topic.String()),
			zap.String("message_id", msg.ID.String()),
		)
		return nil
	}
}
