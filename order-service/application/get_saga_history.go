package application

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/shared/faults"
	"github.com/pieceworks/order-system/shared/models"
)

// GetSagaHistoryQuery represents the query for an order's audit trail
type GetSagaHistoryQuery struct {
	OrderID string `json:"id_order"`
}

// GetSagaHistory use case retrieves the saga audit trail of an order, in
// arrival order.
type GetSagaHistory struct {
	history domain.SagaHistoryRepository
}

// NewGetSagaHistory creates a new GetSagaHistory use case
func NewGetSagaHistory(history domain.SagaHistoryRepository) *GetSagaHistory {
	return &GetSagaHistory{history: history}
}

// Execute retrieves the history entries; an order without any is not-found.
func (uc *GetSagaHistory) Execute(ctx context.Context, query *GetSagaHistoryQuery) ([]*domain.SagaHistoryEntry, error) {
	orderID, err := models.NewID(query.OrderID)
	if err != nil {
		return nil, faults.Validation("invalid order ID").WithCause(err)
	}

	entries, err := uc.history.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load saga history")
	}
	if len(entries) == 0 {
		return nil, faults.NotFound("no saga history for order %s", orderID)
	}

	return entries, nil
}
