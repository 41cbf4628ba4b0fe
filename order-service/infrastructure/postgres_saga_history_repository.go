package infrastructure

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/pieceworks/order-system/order-service/domain"
	"github.com/pieceworks/order-system/shared/models"
)

// PostgresSagaHistoryRepository implements SagaHistoryRepository using
// PostgreSQL. The table is append-only.
type PostgresSagaHistoryRepository struct {
	db *sqlx.DB
}

// NewPostgresSagaHistoryRepository creates a new PostgresSagaHistoryRepository
func NewPostgresSagaHistoryRepository(db *sqlx.DB) *PostgresSagaHistoryRepository {
	return &PostgresSagaHistoryRepository{db: db}
}

// postgresSagaHistory represents a saga history row in the database
type postgresSagaHistory struct {
	ID        string    `db:"id"`
	OrderID   string    `db:"id_order"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

// Append records one saga step
func (r *PostgresSagaHistoryRepository) Append(ctx context.Context, entry *domain.SagaHistoryEntry) error {
	query := `
		INSERT INTO sagas_history (id, id_order, status, created_at)
		VALUES (:id, :id_order, :status, :created_at)`

	pgEntry := &postgresSagaHistory{
		ID:        entry.ID.String(),
		OrderID:   entry.OrderID.String(),
		Status:    string(entry.Status),
		CreatedAt: entry.CreatedAt,
	}

	_, err := r.db.NamedExecContext(ctx, query, pgEntry)
	if err != nil {
		return errors.Wrap(err, "failed to append saga history")
	}

	return nil
}

// FindByOrderID returns the saga steps of an order in chronological order
func (r *PostgresSagaHistoryRepository) FindByOrderID(ctx context.Context, orderID models.ID) ([]*domain.SagaHistoryEntry, error) {
	query := `
		SELECT id, id_order, status, created_at
		FROM sagas_history
		WHERE id_order = $1
		ORDER BY created_at`

	var pgEntries []postgresSagaHistory
	err := r.db.SelectContext(ctx, &pgEntries, query, orderID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to find saga history")
	}

	entries := make([]*domain.SagaHistoryEntry, len(pgEntries))
	for i, pgEntry := range pgEntries {
		entry, err := r.toDomain(&pgEntry)
		if err != nil {
			return nil, err
		}
		entries[i] = entry
	}

	return entries, nil
}

func (r *PostgresSagaHistoryRepository) toDomain(pgEntry *postgresSagaHistory) (*domain.SagaHistoryEntry, error) {
	id, err := models.NewID(pgEntry.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid saga history ID")
	}

	orderID, err := models.NewID(pgEntry.OrderID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid order ID")
	}

	return &domain.SagaHistoryEntry{
		ID:        id,
		OrderID:   orderID,
		Status:    domain.OrderStatus(pgEntry.Status),
		CreatedAt: pgEntry.CreatedAt,
	}, nil
}
