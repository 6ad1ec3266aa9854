package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatusUpdateRequest represents the order status update payload
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, requireSignedIn, requireAdmin func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(requireSignedIn)
		r.Get("/orders", h.ListMine)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/orders/all", h.ListAll)
			r.Put("/order-status/{orderId}", h.UpdateStatus)
		})
	})
}

// ListMine lists the authenticated buyer's own orders
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	buyerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.orderService.ListForBuyer(r.Context(), buyerID)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// ListAll lists every order, most recently created first
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to list all orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// UpdateStatus transitions an order to a new status. An unknown order
// id responds 200 with a null body rather than 404; that is the
// inherited contract, preserved as-is.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req StatusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		if err == service.ErrInvalidStatus {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid order status")
			return
		}
		h.logger.Error("Failed to update order status", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		return
	}

	// order is nil here when the id matched nothing; encodes as null
	middleware.RespondWithJSON(w, http.StatusOK, order)
}
