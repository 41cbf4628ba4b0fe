package domain

import (
	"time"

	"github.com/pieceworks/order-system/shared/models"
)

// SagaHistoryEntry is one line of the append-only audit trail: the status an
// order held at a point in time. Entries are never mutated or deleted and may
// outlive the order they reference.
type SagaHistoryEntry struct {
	ID        models.ID   `json:"id"`
	OrderID   models.ID   `json:"id_order"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewSagaHistoryEntry records the status an order just transitioned to.
func NewSagaHistoryEntry(orderID models.ID, status OrderStatus) *SagaHistoryEntry {
	return &SagaHistoryEntry{
		ID:        models.GenerateUUID(),
		OrderID:   orderID,
		Status:    status,
		CreatedAt: time.Now(),
	}
}
