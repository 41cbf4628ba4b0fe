package domain

import (
	"time"

	"github.com/pieceworks/order-system/shared/models"
)

// PieceStatus represents the production status of a piece
type PieceStatus string

const (
	PieceStatusQueued   PieceStatus = "Queued"
	PieceStatusProduced PieceStatus = "Produced"
)

// Piece belongs to exactly one order and moves Queued to Produced exactly
// once. ManufacturingDate is unset until the piece is produced and is never
// restamped afterwards.
type Piece struct {
	ID                models.ID   `json:"id_piece"`
	OrderID           models.ID   `json:"id_order"`
	Status            PieceStatus `json:"status_piece"`
	ManufacturingDate *time.Time  `json:"manufacturing_date,omitempty"`
	Timestamps        models.Timestamps
}

// NewPieceBatch creates the order's full batch of queued pieces, one per unit
// of NumberOfPieces.
func NewPieceBatch(order *Order) []*Piece {
	pieces := make([]*Piece, 0, order.NumberOfPieces)
	for i := 0; i < order.NumberOfPieces; i++ {
		pieces = append(pieces, &Piece{
			ID:         models.GenerateUUID(),
			OrderID:    order.ID,
			Status:     PieceStatusQueued,
			Timestamps: models.NewTimestamps(),
		})
	}
	return pieces
}

// AllProduced reports whether every piece of the batch has been produced.
// An empty batch is not considered complete.
func AllProduced(pieces []*Piece) bool {
	if len(pieces) == 0 {
		return false
	}
	for _, p := range pieces {
		if p.Status != PieceStatusProduced {
			return false
		}
	}
	return true
}
