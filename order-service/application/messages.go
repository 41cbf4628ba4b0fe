package application

import (
	"github.com/pieceworks/order-system/shared/messaging"
	"github.com/pieceworks/order-system/shared/models"
)

// Routing keys of every message the order service publishes or consumes.
const (
	// Commands published towards other participants.
	TopicDeliveryCheck  messaging.Topic = "delivery.check"
	TopicPaymentCheck   messaging.Topic = "payment.check"
	TopicDeliveryCancel messaging.Topic = "delivery.cancel"

	// Events published by this service.
	TopicPieceNeeded   messaging.Topic = "piece.needed"
	TopicOrderProduced messaging.Topic = "order.produced"

	// Events consumed from other participants.
	TopicPieceProduced    messaging.Topic = "piece.produced"
	TopicOrderDelivering  messaging.Topic = "order.delivering"
	TopicOrderDelivered   messaging.Topic = "order.delivered"
	TopicClientKeyCreated messaging.Topic = "client.key_created"

	// Responses to commands this service issued.
	TopicDeliveryChecked  messaging.Topic = "delivery.checked"
	TopicPaymentChecked   messaging.Topic = "payment.checked"
	TopicDeliveryCanceled messaging.Topic = "delivery.canceled"
)

// DeliveryCheckData asks the delivery service whether it can serve the order.
type DeliveryCheckData struct {
	IDOrder  models.ID `json:"id_order"`
	IDClient models.ID `json:"id_client"`
}

// PaymentCheckData asks the payment service to debit the client. Movement is
// the negative of the order's piece count.
type PaymentCheckData struct {
	IDOrder  models.ID `json:"id_order"`
	IDClient models.ID `json:"id_client"`
	Movement int       `json:"movement"`
}

// DeliveryCancelData compensates a previously accepted delivery check.
type DeliveryCancelData struct {
	IDOrder models.ID `json:"id_order"`
}

// PieceNeededData requests production of one piece.
type PieceNeededData struct {
	IDOrder models.ID `json:"id_order"`
	IDPiece models.ID `json:"id_piece"`
}

// OrderProducedData announces that every piece of the order was produced.
type OrderProducedData struct {
	IDOrder models.ID `json:"id_order"`
}

// DeliveryCheckedData is the delivery service's verdict on delivery.check.
type DeliveryCheckedData struct {
	IDOrder models.ID `json:"id_order"`
	Status  bool      `json:"status"`
}

// PaymentCheckedData is the payment service's verdict on payment.check.
type PaymentCheckedData struct {
	IDOrder models.ID `json:"id_order"`
	Status  bool      `json:"status"`
}

// DeliveryCanceledData confirms a delivery.cancel compensation.
type DeliveryCanceledData struct {
	IDOrder models.ID `json:"id_order"`
}

// PieceProducedData reports one piece coming off the machine.
type PieceProducedData struct {
	IDPiece models.ID `json:"id_piece"`
	IDOrder models.ID `json:"id_order"`
}

// OrderDeliveryData reports delivery progress for an order.
type OrderDeliveryData struct {
	IDOrder models.ID `json:"id_order"`
}
