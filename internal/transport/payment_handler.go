package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CheckoutRequest represents the checkout payload: a one-time payment
// method nonce from the buyer's client plus the priced cart
type CheckoutRequest struct {
	Nonce string        `json:"nonce"`
	Cart  []CartItemDTO `json:"cart"`
}

// CartItemDTO is one cart line item as submitted by the client
type CartItemDTO struct {
	ID    string  `json:"_id"`
	Price float64 `json:"price"`
}

// PaymentHandler handles HTTP requests for the checkout flow
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *zap.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// RegisterRoutes registers the checkout routes. The extra middlewares
// (rate limiting) wrap only these routes.
func (h *PaymentHandler) RegisterRoutes(r chi.Router, requireSignedIn func(http.Handler) http.Handler, extra ...func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireSignedIn)
		for _, mw := range extra {
			r.Use(mw)
		}
		r.Get("/payment/token", h.ClientToken)
		r.Post("/payment", h.Checkout)
	})
}

// ClientToken proxies the gateway's client-token issuance
func (h *PaymentHandler) ClientToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.paymentService.ClientToken(r.Context())
	if err != nil {
		h.logger.Error("Client token request failed", zap.Error(err))
		middleware.RespondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ok":          true,
		"clientToken": token,
	})
}

// Checkout runs the payment transaction: validate, charge, record
func (h *PaymentHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart := make([]service.CartItem, 0, len(req.Cart))
	for _, item := range req.Cart {
		productID, err := uuid.Parse(item.ID)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id in cart")
			return
		}
		cart = append(cart, service.CartItem{
			ProductID: productID,
			Price:     item.Price,
		})
	}

	err := h.paymentService.Checkout(r.Context(), buyerID, req.Nonce, cart)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingPaymentFields):
			middleware.RespondWithError(w, http.StatusBadRequest, "nonce and cart are required")
		case errors.Is(err, service.ErrPaymentDeclined), errors.Is(err, service.ErrOrderNotRecorded):
			middleware.RespondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"ok": false,
			})
		default:
			// Transport-level gateway failure; surface the message
			h.logger.Error("Checkout failed", zap.Error(err))
			middleware.RespondWithJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"ok":    false,
				"error": err.Error(),
			})
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}
