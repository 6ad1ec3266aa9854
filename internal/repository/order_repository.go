package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("order not found")

// OrderRepository defines the interface for order data access. Orders
// are append-then-mutate records: created once by checkout, updated
// only by status transitions, never deleted.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	// UpdateStatus returns (nil, nil) when the id is unknown. The
	// handler turns that into 200/null, the contract inherited from
	// the source system.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts a new order. The payment payload is stored verbatim
// as it came back from the gateway.
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	products, err := json.Marshal(order.Products)
	if err != nil {
		return fmt.Errorf("failed to encode product ids: %w", err)
	}

	query := `
		INSERT INTO orders (id, products, buyer_id, payment, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		order.ID,
		products,
		order.Buyer,
		[]byte(order.Payment),
		order.Status,
		order.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	return nil
}

// FindByID retrieves an order by ID
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT id, products, buyer_id, payment, status, created_at
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	return order, nil
}

// ListByBuyer retrieves the orders belonging to one buyer, most recent first
func (r *orderRepository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*domain.Order, error) {
	query := `
		SELECT id, products, buyer_id, payment, status, created_at
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
	`

	return r.list(ctx, query, buyerID)
}

// ListAll retrieves every order, most recent first
func (r *orderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	query := `
		SELECT id, products, buyer_id, payment, status, created_at
		FROM orders
		ORDER BY created_at DESC
	`

	return r.list(ctx, query)
}

// UpdateStatus sets the order status and returns the updated record.
// An unknown id yields (nil, nil), not an error.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	query := `
		UPDATE orders
		SET status = $2
		WHERE id = $1
		RETURNING id, products, buyer_id, payment, status, created_at
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return order, nil
}

func (r *orderRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders := []*domain.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	var products, payment []byte

	err := row.Scan(
		&order.ID,
		&products,
		&order.Buyer,
		&payment,
		&order.Status,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(products, &order.Products); err != nil {
		return nil, fmt.Errorf("failed to decode product ids: %w", err)
	}
	order.Payment = json.RawMessage(payment)

	return order, nil
}
