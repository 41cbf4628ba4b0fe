package domain

import (
	"github.com/pieceworks/order-system/shared/faults"
	"github.com/pieceworks/order-system/shared/models"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusDeliveryPending   OrderStatus = "DeliveryPending"
	OrderStatusPaymentPending    OrderStatus = "PaymentPending"
	OrderStatusDeliveryCanceling OrderStatus = "DeliveryCanceling"
	OrderStatusCanceled          OrderStatus = "Canceled"
	OrderStatusQueued            OrderStatus = "Queued"
	OrderStatusProduced          OrderStatus = "Produced"
	OrderStatusDelivering        OrderStatus = "Delivering"
	OrderStatusDelivered         OrderStatus = "Delivered"
)

// orderTransitions is the exhaustive transition table of the saga. A status
// missing a target here can never be reached from it; terminal statuses map
// to an empty set.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusDeliveryPending:   {OrderStatusPaymentPending, OrderStatusCanceled},
	OrderStatusPaymentPending:    {OrderStatusQueued, OrderStatusDeliveryCanceling},
	OrderStatusDeliveryCanceling: {OrderStatusCanceled},
	OrderStatusQueued:            {OrderStatusProduced},
	OrderStatusProduced:          {OrderStatusDelivering},
	OrderStatusDelivering:        {OrderStatusDelivered},
	OrderStatusCanceled:          {},
	OrderStatusDelivered:         {},
}

func (s OrderStatus) String() string {
	return string(s)
}

// Valid reports whether the status belongs to the closed enumeration.
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// Terminal reports whether no further transition can leave the status.
func (s OrderStatus) Terminal() bool {
	next, ok := orderTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether moving from s to next is a legal edge of
// the lifecycle. Duplicate and late triggers resolve to false and are dropped
// by the caller as no-ops, never as errors.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order aggregate root. Status only ever moves along the transition table;
// NumberOfPieces and ClientID are fixed at creation.
type Order struct {
	ID             models.ID   `json:"id_order"`
	ClientID       models.ID   `json:"id_client"`
	NumberOfPieces int         `json:"number_of_pieces"`
	Description    string      `json:"description"`
	Status         OrderStatus `json:"status_order"`
	Timestamps     models.Timestamps
}

const defaultDescription = "No description"

// NewOrder creates an order in DeliveryPending. A non-positive piece count is
// rejected before any record exists.
func NewOrder(clientID models.ID, numberOfPieces int, description string) (*Order, error) {
	if clientID.IsZero() {
		return nil, faults.Validation("client ID is required")
	}
	if numberOfPieces <= 0 {
		return nil, faults.Validation("you can't order that amount of pieces")
	}
	if description == "" {
		description = defaultDescription
	}

	return &Order{
		ID:             models.GenerateUUID(),
		ClientID:       clientID,
		NumberOfPieces: numberOfPieces,
		Description:    description,
		Status:         OrderStatusDeliveryPending,
		Timestamps:     models.NewTimestamps(),
	}, nil
}

// Movement is the value sent to the payment step: the negative of the piece
// count, a debit against the client's balance of producible units.
func (o *Order) Movement() int {
	return -o.NumberOfPieces
}
