package infrastructure

import (
	"context"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pieceworks/order-system/shared/messaging"
)

// AMQPPublisher implements messaging.Publisher on top of RabbitMQ topic
// exchanges. Messages are published persistent with the topic as routing key.
type AMQPPublisher struct {
	broker *AMQPBroker
	logger *zap.Logger

	mu sync.Mutex
	ch *amqp.Channel
}

// NewAMQPPublisher creates a publisher on the broker connection.
func NewAMQPPublisher(broker *AMQPBroker, logger *zap.Logger) (*AMQPPublisher, error) {
	ch, err := broker.Channel()
	if err != nil {
		return nil, err
	}
	return &AMQPPublisher{broker: broker, logger: logger, ch: ch}, nil
}

// Publish publishes messages onto the channel exchange, one AMQP publish per
// message, routed by the message topic.
func (p *AMQPPublisher) Publish(ctx context.Context, channel messaging.Channel, msgs ...*messaging.Message) error {
	if !channel.Valid() {
		return errors.Wrapf(messaging.ErrInvalidChannel, "%s", channel)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, msg := range msgs {
		publishing := amqp.Publishing{
			MessageId:    msg.ID.String(),
			ContentType:  msg.ContentType,
			DeliveryMode: amqp.Persistent,
			Timestamp:    msg.Timestamp,
			Body:         msg.Body,
		}
		if len(msg.Metadata) > 0 {
			headers := make(amqp.Table, len(msg.Metadata))
			for k, v := range msg.Metadata {
				headers[k] = v
			}
			publishing.Headers = headers
		}

		err := p.ch.PublishWithContext(
			ctx,
			ExchangeName(channel), // exchange
			msg.Topic.String(),    // routing key
			false,                 // mandatory
			false,                 // immediate
			publishing,
		)
		if err != nil {
			return errors.Wrapf(err, "failed to publish %s on %s", msg.Topic, channel)
		}

		p.logger.Debug("message published",
			zap.String("channel", channel.String()),
			zap.String("topic", msg.Topic.String()),
			zap.String("message_id", msg.ID.String()),
		)
	}

	return nil
}

// Close closes the publisher channel.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		return errors.Wrap(err, "failed to close publisher channel")
	}
	return nil
}
