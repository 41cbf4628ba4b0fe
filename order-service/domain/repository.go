package domain

import (
	"context"
	"time"

	"github.com/pieceworks/order-system/shared/models"
)

// OrderRepository persists orders. UpdateStatus is the single write path for
// status changes: a compare-and-set that only applies when the stored status
// still equals from, so two racing transitions can never both win.
type OrderRepository interface {
	Insert(ctx context.Context, order *Order) error
	FindByID(ctx context.Context, id models.ID) (*Order, error)
	FindAll(ctx context.Context) ([]*Order, error)
	FindByClientID(ctx context.Context, clientID models.ID) ([]*Order, error)
	UpdateStatus(ctx context.Context, id models.ID, from, to OrderStatus) (bool, error)
}

// PieceRepository persists pieces. MarkProduced is a compare-and-set from
// Queued that stamps the manufacturing date exactly once; a redelivered
// produce message reports applied=false and changes nothing.
type PieceRepository interface {
	InsertBatch(ctx context.Context, pieces []*Piece) error
	FindByID(ctx context.Context, id models.ID) (*Piece, error)
	FindByOrderID(ctx context.Context, orderID models.ID) ([]*Piece, error)
	MarkProduced(ctx context.Context, id models.ID, at time.Time) (bool, error)
}

// SagaHistoryRepository is the append-only audit trail. There is no update or
// delete operation.
type SagaHistoryRepository interface {
	Append(ctx context.Context, entry *SagaHistoryEntry) error
	FindByOrderID(ctx context.Context, orderID models.ID) ([]*SagaHistoryEntry, error)
}
