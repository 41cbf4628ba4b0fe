package infrastructure

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/pieceworks/order-system/shared/messaging"
)

// AMQPBroker owns a RabbitMQ connection and the topology the saga
// participants share: one durable topic exchange per logical channel.
// The service declares the topology itself on startup so it can run
// against an empty broker.
type AMQPBroker struct {
	conn   *amqp.Connection
	logger *zap.Logger
}

// NewAMQPBroker connects to RabbitMQ and declares the channel exchanges.
func NewAMQPBroker(url string, logger *zap.Logger) (*AMQPBroker, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	broker := &AMQPBroker{conn: conn, logger: logger}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to open setup channel")
	}
	defer ch.Close()

	for _, channel := range messaging.Channels() {
		err := ch.ExchangeDeclare(
			ExchangeName(channel), // name
			"topic",               // type
			true,                  // durable
			false,                 // auto-deleted
			false,                 // internal
			false,                 // no-wait
			nil,                   // arguments
		)
		if err != nil {
			conn.Close()
			return nil, errors.Wrapf(err, "failed to declare exchange %s", ExchangeName(channel))
		}
	}

	logger.Info("connected to RabbitMQ", zap.String("url", redactURL(url)))

	return broker, nil
}

// Channel opens a new AMQP channel on the shared connection.
func (b *AMQPBroker) Channel() (*amqp.Channel, error) {
	ch, err := b.conn.Channel()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open channel")
	}
	return ch, nil
}

// Close closes the underlying connection.
func (b *AMQPBroker) Close() error {
	if err := b.conn.Close(); err != nil {
		return errors.Wrap(err, "failed to close RabbitMQ connection")
	}
	return nil
}

// ExchangeName maps a logical channel to its exchange.
func ExchangeName(channel messaging.Channel) string {
	return channel.String()
}

// redactURL strips credentials before the URL reaches a log line.
func redactURL(url string) string {
	for i := len(url) - 1; i >= 0; i-- {
		if url[i] == '@' {
			return "amqp://***" + url[i:]
		}
	}
	return url
}
