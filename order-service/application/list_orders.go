package application

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/shared/faults"
	"github.com/pieceworks/order-system/shared/models"
)

// ListOrders use case retrieves every order. The transport layer restricts it
// to privileged callers.
type ListOrders struct {
	orders domain.OrderRepository
}

// NewListOrders creates a new ListOrders use case
func NewListOrders(orders domain.OrderRepository) *ListOrders {
	return &ListOrders{orders: orders}
}

// Execute retrieves all orders
func (uc *ListOrders) Execute(ctx context.Context) ([]*domain.Order, error) {
	orders, err := uc.orders.FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}
	return orders, nil
}

// ListOrdersByClientQuery represents the query for one client's orders
type ListOrdersByClientQuery struct {
	ClientID string `json:"id_client"`
}

// ListOrdersByClient use case retrieves the orders of one client
type ListOrdersByClient struct {
	orders domain.OrderRepository
}

// NewListOrdersByClient creates a new ListOrdersByClient use case
func NewListOrdersByClient(orders domain.OrderRepository) *ListOrdersByClient {
	return &ListOrdersByClient{orders: orders}
}

// Execute retrieves the client's orders; a client without orders is reported
// as not-found.
func (uc *ListOrdersByClient) Execute(ctx context.Context, query *ListOrdersByClientQuery) ([]*domain.Order, error) {
	clientID, err := models.NewID(query.ClientID)
	if err != nil {
		return nil, faults.Validation("invalid client ID").WithCause(err)
	}

	orders, err := uc.orders.FindByClientID(ctx, clientID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list client orders")
	}
	if len(orders) == 0 {
		return nil, faults.NotFound("client %s has no orders", clientID)
	}

	return orders, nil
}
