package transport

import (
	"errors"
	"net/http"
	"strings"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductRequest represents the product create/update payload. Pointer
// fields let the ordered validation tell a missing field from a zero
// value. Photo carries the optional image bytes, base64-encoded; only
// its size is checked here, storage is elsewhere.
type ProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Quantity    *int     `json:"quantity"`
	Shipping    *bool    `json:"shipping"`
	Photo       string   `json:"photo,omitempty"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog service.CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, requireSignedIn, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/products", h.List)
	r.Get("/product/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(requireSignedIn)
		r.Use(requireAdmin)
		r.Post("/product", h.Create)
		r.Put("/product/{id}", h.Update)
		r.Delete("/product/{id}", h.Delete)
	})
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.CreateProduct(r.Context(), in)
	if err != nil {
		h.respondProductError(w, err)
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.UpdateProduct(r.Context(), id, in)
	if err != nil {
		h.respondProductError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles product deletion
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

// Get handles fetching one product
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// List handles product listing with optional category filter
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var categoryID *uuid.UUID
	if raw := r.URL.Query().Get("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		categoryID = &id
	}

	products, total, err := h.catalog.ListProducts(r.Context(), categoryID, 1, 100)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
	})
}

func (h *ProductHandler) decodeInput(w http.ResponseWriter, r *http.Request) (service.ProductInput, bool) {
	var req ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return service.ProductInput{}, false
	}

	in := service.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Shipping:    req.Shipping,
		PhotoSize:   decodedPhotoSize(req.Photo),
	}

	if req.Category != nil {
		categoryID, err := uuid.Parse(*req.Category)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
			return service.ProductInput{}, false
		}
		in.CategoryID = &categoryID
	}

	return in, true
}

// decodedPhotoSize returns the byte count the base64 photo field
// decodes to. The size cap applies to the photo itself, not its
// encoded form, which runs about a third larger.
func decodedPhotoSize(encoded string) int64 {
	n := len(encoded)
	if n == 0 {
		return 0
	}
	padding := 0
	if strings.HasSuffix(encoded, "==") {
		padding = 2
	} else if strings.HasSuffix(encoded, "=") {
		padding = 1
	}
	return int64(n/4*3 - padding)
}

func (h *ProductHandler) respondProductError(w http.ResponseWriter, err error) {
	var fieldErr *service.FieldError
	switch {
	case errors.As(err, &fieldErr):
		middleware.RespondWithError(w, http.StatusBadRequest, fieldErr.Message)
	case err == service.ErrPhotoTooLarge:
		middleware.RespondWithError(w, http.StatusBadRequest, "Photo provided should be less than 1MB")
	case err == service.ErrProductExists:
		middleware.RespondWithError(w, http.StatusConflict, "already exists")
	case err == repository.ErrProductNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case err == repository.ErrProductAlreadyExists:
		middleware.RespondWithError(w, http.StatusConflict, "already exists")
	default:
		h.logger.Error("Product operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
