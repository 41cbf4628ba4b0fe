package config

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pieceworks/order-system/order-service/application"
	"github.com/pieceworks/order-system/order-service/auth"
	"github.com/pieceworks/order-system/order-service/handlers"
	"github.com/pieceworks/order-system/order-service/infrastructure"
	sharedinfra "github.com/pieceworks/order-system/shared/infrastructure"
	"github.com/pieceworks/order-system/shared/messaging"
)

type Dependencies struct {
	// Database
	DB *sqlx.DB

	// Repositories
	OrderRepository       *infrastructure.PostgresOrderRepository
	PieceRepository       *infrastructure.PostgresPieceRepository
	SagaHistoryRepository *infrastructure.PostgresSagaHistoryRepository

	// Use Cases
	CreateOrder             *application.CreateOrder
	GetOrder                *application.GetOrder
	ListOrders              *application.ListOrders
	ListOrdersByClient      *application.ListOrdersByClient
	GetSagaHistory          *application.GetSagaHistory
	ProcessDeliveryCheck    *application.ProcessDeliveryCheck
	ProcessPaymentCheck     *application.ProcessPaymentCheck
	ProcessDeliveryCanceled *application.ProcessDeliveryCanceled
	ProcessPieceProduced    *application.ProcessPieceProduced
	ProcessOrderDelivering  *application.ProcessOrderDelivering
	ProcessOrderDelivered   *application.ProcessOrderDelivered

	// Auth
	PublicKeyStore *auth.PublicKeyStore
	Verifier       *auth.Verifier

	// Handlers
	OrderHandlers *handlers.OrderHandlers
	MessageRouter *handlers.MessageRouter

	// Messaging
	Broker     *sharedinfra.AMQPBroker
	Publisher  messaging.Publisher
	Subscriber messaging.Subscriber
}

// BuildDependencies wires the whole service together.
func BuildDependencies(ctx context.Context, config *Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{}

	// Database
	db, err := sqlx.Connect("postgres", config.GetDatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	deps.DB = db

	// Messaging transport
	if err := buildTransport(ctx, config, logger, deps); err != nil {
		db.Close()
		return nil, err
	}

	// Repositories
	deps.OrderRepository = infrastructure.NewPostgresOrderRepository(db)
	deps.PieceRepository = infrastructure.NewPostgresPieceRepository(db)
	deps.SagaHistoryRepository = infrastructure.NewPostgresSagaHistoryRepository(db)

	// Auth
	deps.PublicKeyStore = auth.NewPublicKeyStore(config.Auth.PublicKeyURL, logger)
	deps.Verifier = auth.NewVerifier(deps.PublicKeyStore)

	// Use cases
	deps.CreateOrder = application.NewCreateOrder(deps.OrderRepository, deps.SagaHistoryRepository, deps.Publisher)
	deps.GetOrder = application.NewGetOrder(deps.OrderRepository)
	deps.ListOrders = application.NewListOrders(deps.OrderRepository)
	deps.ListOrdersByClient = application.NewListOrdersByClient(deps.OrderRepository)
	deps.GetSagaHistory = application.NewGetSagaHistory(deps.SagaHistoryRepository)
	deps.ProcessDeliveryCheck = application.NewProcessDeliveryCheck(deps.OrderRepository, deps.SagaHistoryRepository, deps.Publisher, logger)
	deps.ProcessPaymentCheck = application.NewProcessPaymentCheck(deps.OrderRepository, deps.PieceRepository, deps.SagaHistoryRepository, deps.Publisher, logger)
	deps.ProcessDeliveryCanceled = application.NewProcessDeliveryCanceled(deps.OrderRepository, deps.SagaHistoryRepository, logger)
	deps.ProcessPieceProduced = application.NewProcessPieceProduced(deps.PieceRepository, deps.OrderRepository, deps.SagaHistoryRepository, deps.Publisher, logger)
	deps.ProcessOrderDelivering = application.NewProcessOrderDelivering(deps.OrderRepository, deps.SagaHistoryRepository, logger)
	deps.ProcessOrderDelivered = application.NewProcessOrderDelivered(deps.OrderRepository, deps.SagaHistoryRepository, logger)

	// Handlers
	deps.OrderHandlers = handlers.NewOrderHandlers(
		deps.CreateOrder,
		deps.GetOrder,
		deps.ListOrders,
		deps.ListOrdersByClient,
		deps.GetSagaHistory,
		deps.Verifier,
		deps.PublicKeyStore,
	)
	deps.MessageRouter = handlers.NewMessageRouter(
		deps.ProcessDeliveryCheck,
		deps.ProcessPaymentCheck,
		deps.ProcessDeliveryCanceled,
		deps.ProcessPieceProduced,
		deps.ProcessOrderDelivering,
		deps.ProcessOrderDelivered,
		deps.PublicKeyStore,
		logger,
	)

	return deps, nil
}

func buildTransport(ctx context.Context, config *Config, logger *zap.Logger, deps *Dependencies) error {
	switch config.Broker.Kind {
	case "amqp":
		broker, err := sharedinfra.NewAMQPBroker(config.Broker.URL, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to broker: %w", err)
		}
		deps.Broker = broker

		publisher, err := sharedinfra.NewAMQPPublisher(broker, logger)
		if err != nil {
			broker.Close()
			return fmt.Errorf("failed to create publisher: %w", err)
		}
		deps.Publisher = publisher
		deps.Subscriber = sharedinfra.NewAMQPSubscriber(broker, logger)

	case "sns":
		topicArns := make(map[messaging.Channel]string, len(config.AWS.TopicArns))
		for name, arn := range config.AWS.TopicArns {
			topicArns[messaging.Channel(name)] = arn
		}

		publisher, err := sharedinfra.NewSNSPublisher(ctx, topicArns)
		if err != nil {
			return fmt.Errorf("failed to create SNS publisher: %w", err)
		}
		deps.Publisher = publisher

		subscriber, err := sharedinfra.NewSQSSubscriber(ctx, config.AWS.QueueURLs, logger)
		if err != nil {
			return fmt.Errorf("failed to create SQS subscriber: %w", err)
		}
		deps.Subscriber = subscriber

	default:
		return fmt.Errorf("unknown broker kind %q", config.Broker.Kind)
	}

	return nil
}

// Close closes all dependencies
func (d *Dependencies) Close() error {
	var errs []error

	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if closer, ok := d.Publisher.(interface{ Close() error }); ok && closer != nil {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close publisher: %w", err))
		}
	}

	if d.Broker != nil {
		if err := d.Broker.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close broker: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing dependencies: %v", errs)
	}

	return nil
}
