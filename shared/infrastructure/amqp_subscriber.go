package infrastructure

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pieceworks/order-system/shared/messaging"
	"github.com/pieceworks/order-system/shared/models"
)

const defaultPrefetchCount = 10

// AMQPSubscriber implements messaging.Subscriber on RabbitMQ. Each binding
// gets its own queue, channel and consumer goroutine; a handler error nacks
// the delivery with requeue so the broker redelivers it.
type AMQPSubscriber struct {
	broker        *AMQPBroker
	logger        *zap.Logger
	prefetchCount int
}

// NewAMQPSubscriber creates a subscriber on the broker connection.
func NewAMQPSubscriber(broker *AMQPBroker, logger *zap.Logger) *AMQPSubscriber {
	return &AMQPSubscriber{
		broker:        broker,
		logger:        logger,
		prefetchCount: defaultPrefetchCount,
	}
}

// Run declares and consumes every binding, dispatching deliveries to the
// handler. It blocks until the context is canceled or a consumer fails.
func (s *AMQPSubscriber) Run(ctx context.Context, bindings []messaging.Binding, handler messaging.Handler) error {
	group, ctx := errgroup.WithContext(ctx)

	for _, binding := range bindings {
		binding := binding
		group.Go(func() error {
			return s.consume(ctx, binding, handler)
		})
	}

	return group.Wait()
}

func (s *AMQPSubscriber) consume(ctx context.Context, binding messaging.Binding, handler messaging.Handler) error {
	ch, err := s.broker.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.Qos(s.prefetchCount, 0, false); err != nil {
		return errors.Wrap(err, "failed to set QoS")
	}

	// Exclusive queues are per-instance: auto-deleted when the consumer
	// disconnects, so every running instance sees the message.
	durable := !binding.Exclusive
	autoDelete := binding.Exclusive

	queue, err := ch.QueueDeclare(
		binding.Queue,     // name
		durable,           // durable
		autoDelete,        // auto-delete
		binding.Exclusive, // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		return errors.Wrapf(err, "failed to declare queue %s", binding.Queue)
	}

	err = ch.QueueBind(
		queue.Name,                   // queue name
		binding.RoutingKey.String(),  // routing key
		ExchangeName(binding.Channel), // exchange
		false,                        // no-wait
		nil,                          // arguments
	)
	if err != nil {
		return errors.Wrapf(err, "failed to bind queue %s", queue.Name)
	}

	deliveries, err := ch.Consume(
		queue.Name,        // queue
		"",                // consumer tag
		false,             // auto-ack
		binding.Exclusive, // exclusive
		false,             // no-local
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		return errors.Wrapf(err, "failed to consume queue %s", queue.Name)
	}

	s.logger.Info("consuming queue",
		zap.String("queue", queue.Name),
		zap.String("channel", binding.Channel.String()),
		zap.String("routing_key", binding.RoutingKey.String()),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.Errorf("delivery channel closed for queue %s", queue.Name)
			}
			s.dispatch(ctx, delivery, handler)
		}
	}
}

func (s *AMQPSubscriber) dispatch(ctx context.Context, delivery amqp.Delivery, handler messaging.Handler) {
	msg := toMessage(delivery)

	if err := handler.Handle(ctx, msg); err != nil {
		s.logger.Error("message handling failed, requeueing",
			zap.String("handler", handler.HandlerID()),
			zap.String("topic", msg.Topic.String()),
			zap.String("message_id", msg.ID.String()),
			zap.Bool("redelivered", delivery.Redelivered),
			zap.Error(err),
		)
		if nackErr := delivery.Nack(false, true); nackErr != nil {
			s.logger.Error("failed to nack delivery", zap.Error(nackErr))
		}
		return
	}

	if err := delivery.Ack(false); err != nil {
		s.logger.Error("failed to ack delivery", zap.Error(err))
	}
}

func toMessage(delivery amqp.Delivery) *messaging.Message {
	metadata := make(messaging.Metadata, len(delivery.Headers))
	for k, v := range delivery.Headers {
		if str, ok := v.(string); ok {
			metadata[k] = str
		}
	}

	id := models.ID(delivery.MessageId)
	if id.IsZero() {
		id = models.GenerateUUID()
	}

	return &messaging.Message{
		ID:          id,
		Topic:       messaging.Topic(delivery.RoutingKey),
		Body:        delivery.Body,
		ContentType: delivery.ContentType,
		Metadata:    metadata,
		Timestamp:   delivery.Timestamp,
	}
}
