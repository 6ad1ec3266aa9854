package service

import (
	"context"
	"errors"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidStatus = errors.New("invalid order status")

// OrderService owns the order status state machine. Enum membership is
// the only transition guard: any status in the closed set may move to
// any other.
type OrderService interface {
	ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	// UpdateStatus returns (nil, nil) for an unknown order id; the
	// handler responds 200 with a null body in that case.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return &orderService{orderRepo: orderRepo}
}

// ListForBuyer lists only the orders the buyer owns
func (s *orderService) ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListByBuyer(ctx, buyerID)
}

// ListAll lists every order, most recently created first
func (s *orderService) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// UpdateStatus transitions an order to the given status after checking
// enum membership
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	return s.orderRepo.UpdateStatus(ctx, orderID, status)
}
