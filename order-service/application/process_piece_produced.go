package application

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/shared/faults"
	"github.com/pieceworks/order-system/shared/messaging"
	"github.com/pieceworks/order-system/shared/models"
	"github.com/pieceworks/order-system/shared/telemetry"
)

// ProcessPieceProducedCommand reports one produced piece
type ProcessPieceProducedCommand struct {
	PieceID models.ID
	OrderID models.ID
}

// ProcessPieceProduced is the piece completion aggregator: it marks the piece
// produced, then re-evaluates whether the whole batch is done. The check runs
// on every produce message regardless of arrival order; the order-level
// compare-and-set guarantees order.produced is emitted exactly once even when
// the last two pieces race.
type ProcessPieceProduced struct {
	pieces    domain.PieceRepository
	orders    domain.OrderRepository
	history   domain.SagaHistoryRepository
	publisher messaging.Publisher
	logger    *zap.Logger
}

// NewProcessPieceProduced creates a new ProcessPieceProduced use case
func NewProcessPieceProduced(
	pieces domain.PieceRepository,
	orders domain.OrderRepository,
	history domain.SagaHistoryRepository,
	publisher messaging.Publisher,
	logger *zap.Logger,
) *ProcessPieceProduced {
	return &ProcessPieceProduced{
		pieces:    pieces,
		orders:    orders,
		history:   history,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute processes one piece.produced event
func (uc *ProcessPieceProduced) Execute(ctx context.Context, cmd *ProcessPieceProducedCommand) error {
	ctx, span := telemetry.StartSpan(ctx, "process_piece_produced",
		trace.WithAttributes(
			attribute.String("piece_id", cmd.PieceID.String()),
			attribute.String("order_id", cmd.OrderID.String()),
		),
	)
	defer span.End()

	piece, err := uc.pieces.FindByID(ctx, cmd.PieceID)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to find piece")
	}
	if piece == nil {
		err := faults.NotFound("piece %s not found", cmd.PieceID)
		span.RecordError(err)
		return err
	}

	applied, err := uc.pieces.MarkProduced(ctx, cmd.PieceID, time.Now())
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to mark piece produced")
	}
	if !applied {
		// Redelivered message for a piece already produced. The
		// manufacturing date stays untouched; the completion check
		// still runs because this message may be the one that observes
		// the finished batch.
		uc.logger.Info("duplicate piece production dropped",
			zap.String("piece_id", cmd.PieceID.String()),
			zap.String("order_id", piece.OrderID.String()),
		)
	}

	batch, err := uc.pieces.FindByOrderID(ctx, piece.OrderID)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to load order pieces")
	}

	if !domain.AllProduced(batch) {
		return nil
	}

	order, completed, err := transitionOrder(ctx, uc.orders, uc.history, uc.logger, piece.OrderID, domain.OrderStatusProduced)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if !completed {
		return nil
	}

	telemetry.RecordCounter(ctx, "orders_produced_total", "Orders fully produced", 1)

	msg, err := messaging.NewMessage(TopicOrderProduced, OrderProducedData{IDOrder: order.ID})
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to build order produced event")
	}

	if err := uc.publisher.Publish(ctx, messaging.ChannelEvents, msg); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "failed to publish order produced event")
	}

	return nil
}
