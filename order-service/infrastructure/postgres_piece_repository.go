package infrastructure

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/shared/models"
)

// PostgresPieceRepository implements PieceRepository using PostgreSQL
type PostgresPieceRepository struct {
	db *sqlx.DB
}

// NewPostgresPieceRepository creates a new PostgresPieceRepository
func NewPostgresPieceRepository(db *sqlx.DB) *PostgresPieceRepository {
	return &PostgresPieceRepository{db: db}
}

// postgresPiece represents a piece in the database
type postgresPiece struct {
	ID                string     `db:"id_piece"`
	OrderID           string     `db:"id_order"`
	Status            string     `db:"status_piece"`
	ManufacturingDate *time.Time `db:"manufacturing_date"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

// InsertBatch inserts all pieces of an order
func (r *PostgresPieceRepository) InsertBatch(ctx context.Context, pieces []*domain.Piece) error {
	if len(pieces) == 0 {
		return nil
	}

	query := `
		INSERT INTO pieces (
			id_piece, id_order, status_piece, manufacturing_date,
			created_at, updated_at
		) VALUES (
			:id_piece, :id_order, :status_piece, :manufacturing_date,
			:created_at, :updated_at
		)`

	pgPieces := make([]*postgresPiece, len(pieces))
	for i, piece := range pieces {
		pgPieces[i] = r.toPostgres(piece)
	}

	_, err := r.db.NamedExecContext(ctx, query, pgPieces)
	if err != nil {
		return errors.Wrap(err, "failed to insert pieces")
	}

	return nil
}

// FindByID finds a piece by ID
func (r *PostgresPieceRepository) FindByID(ctx context.Context, id models.ID) (*domain.Piece, error) {
	query := `
		SELECT id_piece, id_order, status_piece, manufacturing_date,
			   created_at, updated_at
		FROM pieces
		WHERE id_piece = $1`

	var pgPiece postgresPiece
	err := r.db.GetContext(ctx, &pgPiece, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Piece not found
		}
		return nil, errors.Wrap(err, "failed to find piece")
	}

	return r.toDomain(&pgPiece)
}

// FindByOrderID finds all pieces of an order
func (r *PostgresPieceRepository) FindByOrderID(ctx context.Context, orderID models.ID) ([]*domain.Piece, error) {
	query := `
		SELECT id_piece, id_order, status_piece, manufacturing_date,
			   created_at, updated_at
		FROM pieces
		WHERE id_order = $1
		ORDER BY created_at`

	var pgPieces []postgresPiece
	err := r.db.SelectContext(ctx, &pgPieces, query, orderID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to find pieces by order ID")
	}

	pieces := make([]*domain.Piece, len(pgPieces))
	for i, pgPiece := range pgPieces {
		piece, err := r.toDomain(&pgPiece)
		if err != nil {
			return nil, err
		}
		pieces[i] = piece
	}

	return pieces, nil
}

// MarkProduced flips a piece from queued to produced and stamps its
// manufacturing date. Conditional on the current status, so a redelivered
// production report matches zero rows and reports applied=false.
func (r *PostgresPieceRepository) MarkProduced(ctx context.Context, id models.ID, at time.Time) (bool, error) {
	query := `
		UPDATE pieces
		SET status_piece = $2, manufacturing_date = $3, updated_at = $4
		WHERE id_piece = $1 AND status_piece = $5`

	result, err := r.db.ExecContext(ctx, query,
		id.String(), string(domain.PieceStatusProduced), at, time.Now(), string(domain.PieceStatusQueued))
	if err != nil {
		return false, errors.Wrap(err, "failed to mark piece produced")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read affected rows")
	}

	return affected == 1, nil
}

// toPostgres converts domain piece to postgres model
func (r *PostgresPieceRepository) toPostgres(piece *domain.Piece) *postgresPiece {
	return &postgresPiece{
		ID:                piece.ID.String(),
		OrderID:           piece.OrderID.String(),
		Status:            string(piece.Status),
		ManufacturingDate: piece.ManufacturingDate,
		CreatedAt:         piece.Timestamps.CreatedAt,
		UpdatedAt:         piece.Timestamps.UpdatedAt,
	}
}

// toDomain converts postgres model to domain piece
func (r *PostgresPieceRepository) toDomain(pgPiece *postgresPiece) (*domain.Piece, error) {
	id, err := models.NewID(pgPiece.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid piece ID")
	}

	orderID, err := models.NewID(pgPiece.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid order ID")
	}

	piece := &domain.Piece{
		ID:                id,
		OrderID:           orderID,
		Status:            domain.PieceStatus(pgPiece.Status),
		ManufacturingDate: pgPiece.ManufacturingDate,
		Timestamps: models.Timestamps{
			CreatedAt: pgPiece.CreatedAt,
			UpdatedAt: pgPiece.UpdatedAt,
		},
	}

	return piece, nil
}
