package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"storefront/internal/domain"
	"storefront/internal/payment"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrMissingPaymentFields = errors.New("nonce and cart are required")
	ErrPaymentDeclined      = errors.New("payment was not successful")
	// ErrOrderNotRecorded means the gateway accepted the charge but
	// the order insert failed. Money has moved; nothing rolls it back.
	ErrOrderNotRecorded = errors.New("order could not be recorded after successful charge")
)

// CartItem is one priced line item submitted at checkout
type CartItem struct {
	ProductID uuid.UUID
	Price     float64
}

// Reconciler is the compensation hook for the charge-then-record saga.
// When an order insert fails after a successful sale, the charge is
// handed here so a reconciliation job can later cross-check gateway
// transactions against persisted orders.
type Reconciler interface {
	RecordUnreconciledCharge(ctx context.Context, buyer uuid.UUID, result *payment.SaleResult)
}

// PaymentService composes the external gateway charge with order
// persistence as a single logical checkout operation
type PaymentService interface {
	ClientToken(ctx context.Context) (string, error)
	Checkout(ctx context.Context, buyerID uuid.UUID, nonce string, cart []CartItem) error
}

type paymentService struct {
	gateway    payment.Gateway
	orderRepo  repository.OrderRepository
	reconciler Reconciler
	logger     *zap.Logger
}

// NewPaymentService creates a new instance of PaymentService
func NewPaymentService(gateway payment.Gateway, orderRepo repository.OrderRepository, reconciler Reconciler, logger *zap.Logger) PaymentService {
	return &paymentService{
		gateway:    gateway,
		orderRepo:  orderRepo,
		reconciler: reconciler,
		logger:     logger,
	}
}

// ClientToken proxies the gateway's client-token issuance
func (s *paymentService) ClientToken(ctx context.Context) (string, error) {
	return s.gateway.ClientToken(ctx)
}

// Checkout sums the cart, submits the sale, and persists the order
// only on gateway acceptance. The two phases are not atomic: a failed
// insert after a successful charge surfaces as ErrOrderNotRecorded and
// is handed to the reconciler, not refunded.
func (s *paymentService) Checkout(ctx context.Context, buyerID uuid.UUID, nonce string, cart []CartItem) error {
	// Fail fast before any gateway round-trip
	if nonce == "" || len(cart) == 0 {
		return ErrMissingPaymentFields
	}

	var total float64
	products := make([]uuid.UUID, 0, len(cart))
	for _, item := range cart {
		total += item.Price
		products = append(products, item.ProductID)
	}

	// The gateway's amount format is a decimal string with exactly
	// two fraction digits
	amount := strconv.FormatFloat(total, 'f', 2, 64)

	result, err := s.gateway.Sale(ctx, payment.SaleRequest{
		Amount:             amount,
		PaymentMethodNonce: nonce,
	})
	if err != nil {
		// The caller relays the gateway's own message, so the error
		// goes back unwrapped
		s.logger.Error("Gateway sale failed",
			zap.String("buyer", buyerID.String()),
			zap.String("amount", amount),
			zap.Error(err),
		)
		return err
	}

	if !result.Success {
		s.logger.Info("Payment declined by gateway",
			zap.String("buyer", buyerID.String()),
			zap.String("amount", amount),
		)
		return ErrPaymentDeclined
	}

	order := &domain.Order{
		ID:        uuid.New(),
		Products:  products,
		Buyer:     buyerID,
		Payment:   result.Raw,
		Status:    domain.StatusNotProcess,
		CreatedAt: time.Now(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		// The charge already succeeded and is not rolled back
		s.logger.Error("Order write failed after successful charge",
			zap.String("buyer", buyerID.String()),
			zap.String("amount", amount),
			zap.Error(err),
		)
		s.reconciler.RecordUnreconciledCharge(ctx, buyerID, result)
		return ErrOrderNotRecorded
	}

	s.logger.Info("Checkout completed",
		zap.String("order_id", order.ID.String()),
		zap.String("buyer", buyerID.String()),
		zap.String("amount", amount),
	)

	return nil
}

// logReconciler records unreconciled charges to the log only. It marks
// the spot where a reconciliation job would pick them up.
type logReconciler struct {
	logger *zap.Logger
}

// NewLogReconciler creates a Reconciler that only logs
func NewLogReconciler(logger *zap.Logger) Reconciler {
	return &logReconciler{logger: logger}
}

func (r *logReconciler) RecordUnreconciledCharge(ctx context.Context, buyer uuid.UUID, result *payment.SaleResult) {
	r.logger.Error("Unreconciled gateway charge",
		zap.String("buyer", buyer.String()),
		zap.ByteString("gateway_result", result.Raw),
	)
}
