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

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *sqlx.DB
}

// NewPostgresOrderRepository creates a new PostgresOrderRepository
func NewPostgresOrderRepository(db *sqlx.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// postgresOrder represents an order in the database
type postgresOrder struct {
	ID             string    `db:"id_order"`
	ClientID       string    `db:"id_client"`
	NumberOfPieces int       `db:"number_of_pieces"`
	Description    string    `db:"description"`
	Status         string    `db:"status_order"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Insert inserts a new order
func (r *PostgresOrderRepository) Insert(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (
			id_order, id_client, number_of_pieces, description,
			status_order, created_at, updated_at
		) VALUES (
			:id_order, :id_client, :number_of_pieces, :description,
			:status_order, :created_at, :updated_at
		)`

	pgOrder := r.toPostgres(order)
	_, err := r.db.NamedExecContext(ctx, query, pgOrder)
	if err != nil {
		return errors.Wrap(err, "failed to insert order")
	}

	return nil
}

// FindByID finds an order by ID
func (r *PostgresOrderRepository) FindByID(ctx context.Context, id models.ID) (*domain.Order, error) {
	query := `
		SELECT id_order, id_client, number_of_pieces, description,
			   status_order, created_at, updated_at
		FROM orders
		WHERE id_order = $1`

	var pgOrder postgresOrder
	err := r.db.GetContext(ctx, &pgOrder, query, id.String())
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Order not found
		}
		return nil, errors.Wrap(err, "failed to find order")
	}

	return r.toDomain(&pgOrder)
}

// FindAll finds all orders
func (r *PostgresOrderRepository) FindAll(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT id_order, id_client, number_of_pieces, description,
			   status_order, created_at, updated_at
		FROM orders
		ORDER BY created_at DESC`

	var pgOrders []postgresOrder
	err := r.db.SelectContext(ctx, &pgOrders, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to find orders")
	}

	return r.toDomainSlice(pgOrders)
}

// FindByClientID finds orders belonging to a client
func (r *PostgresOrderRepository) FindByClientID(ctx context.Context, clientID models.ID) ([]*domain.Order, error) {
	query := `
		SELECT id_order, id_client, number_of_pieces, description,
			   status_order, created_at, updated_at
		FROM orders
		WHERE id_client = $1
		ORDER BY created_at DESC`

	var pgOrders []postgresOrder
	err := r.db.SelectContext(ctx, &pgOrders, query, clientID.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to find orders by client ID")
	}

	return r.toDomainSlice(pgOrders)
}

// UpdateStatus moves an order from one status to another. The update is
// conditional on the current status, so a stale or duplicate trigger
// matches zero rows and reports applied=false instead of overwriting a
// newer state.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id models.ID, from, to domain.OrderStatus) (bool, error) {
	query := `
		UPDATE orders
		SET status_order = $3, updated_at = $4
		WHERE id_order = $1 AND status_order = $2`

	result, err := r.db.ExecContext(ctx, query, id.String(), string(from), string(to), time.Now())
	if err != nil {
		return false, errors.Wrap(err, "failed to update order status")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read affected rows")
	}

	return affected == 1, nil
}

// toPostgres converts domain order to postgres model
func (r *PostgresOrderRepository) toPostgres(order *domain.Order) *postgresOrder {
	return &postgresOrder{
		ID:             order.ID.String(),
		ClientID:       order.ClientID.String(),
		NumberOfPieces: order.NumberOfPieces,
		Description:    order.Description,
		Status:         string(order.Status),
		CreatedAt:      order.Timestamps.CreatedAt,
		UpdatedAt:      order.Timestamps.UpdatedAt,
	}
}

// toDomain converts postgres model to domain order
func (r *PostgresOrderRepository) toDomain(pgOrder *postgresOrder) (*domain.Order, error) {
	id, err := models.NewID(pgOrder.ID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid order ID")
	}

	clientID, err := models.NewID(pgOrder.ClientID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid client ID")
	}

	order := &domain.Order{
		ID:             id,
		ClientID:       clientID,
		NumberOfPieces: pgOrder.NumberOfPieces,
		Description:    pgOrder.Description,
		Status:         domain.OrderStatus(pgOrder.Status),
		Timestamps: models.Timestamps{
			CreatedAt: pgOrder.CreatedAt,
			UpdatedAt: pgOrder.UpdatedAt,
		},
	}

	return order, nil
}

func (r *PostgresOrderRepository) toDomainSlice(pgOrders []postgresOrder) ([]*domain.Order, error) {
	orders := make([]*domain.Order, len(pgOrders))
	for i, pgOrder := range pgOrders {
		order, err := r.toDomain(&pgOrder)
		if err != nil {
			return nil, err
		}
		orders[i] = order
	}
	return orders, nil
}
