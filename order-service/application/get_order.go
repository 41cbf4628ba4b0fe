package application

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/shared/faults"
	"github.com/pieceworks/order-system/shared/models"
)

// GetOrderQuery represents the query to retrieve an order
type GetOrderQuery struct {
	OrderID string `json:"id_order"`
}

// GetOrder use case retrieves a single order by id
type GetOrder struct {
	orders domain.OrderRepository
}

// NewGetOrder creates a new GetOrder use case
func NewGetOrder(orders domain.OrderRepository) *GetOrder {
	return &GetOrder{orders: orders}
}

// Execute retrieves the order or a not-found fault
func (uc *GetOrder) Execute(ctx context.Context, query *GetOrderQuery) (*domain.Order, error) {
	orderID, err := models.NewID(query.OrderID)
	if err != nil {
		return nil, faults.Validation("invalid order ID").WithCause(err)
	}

	order, err := uc.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find order")
	}
	if order == nil {
		return nil, faults.NotFound("order %s not found", orderID)
	}

	return order, nil
}
