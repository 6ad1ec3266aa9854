package transport

import (
	"errors"
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryRequest represents the category create/update payload
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryHandler handles HTTP requests for category operations
type CategoryHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(catalog service.CatalogService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers all category routes
func (h *CategoryHandler) RegisterRoutes(r chi.Router, requireSignedIn, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/categories", h.List)
	r.Get("/category/{slug}", h.GetBySlug)

	r.Group(func(r chi.Router) {
		r.Use(requireSignedIn)
		r.Use(requireAdmin)
		r.Post("/category", h.Create)
		r.Put("/category/{id}", h.Update)
		r.Delete("/category/{id}", h.Delete)
	})
}

// Create handles category creation
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalog.CreateCategory(r.Context(), req.Name)
	if err != nil {
		h.respondCategoryError(w, err)
		return
	}

	h.logger.Info("Category created", zap.String("category_id", category.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// List handles listing all categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// GetBySlug handles fetching one category by slug
func (h *CategoryHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	category, err := h.catalog.GetCategoryBySlug(r.Context(), slug)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to get category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Update handles category renames
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req CategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalog.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		h.respondCategoryError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Delete handles category deletion. Three distinct outcomes: 404 for
// an unknown id, 400 when products still reference the category, 200
// on success.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		switch err {
		case repository.ErrCategoryNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		case service.ErrCategoryHasProducts:
			middleware.RespondWithFailure(w, http.StatusBadRequest, "Cannot delete category with existing products")
		default:
			h.logger.Error("Failed to delete category", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		}
		return
	}

	h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Category deleted",
	})
}

func (h *CategoryHandler) respondCategoryError(w http.ResponseWriter, err error) {
	var fieldErr *service.FieldError
	switch {
	case errors.As(err, &fieldErr):
		middleware.RespondWithError(w, http.StatusBadRequest, fieldErr.Message)
	case err == repository.ErrCategoryNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "category not found")
	case err == repository.ErrCategoryAlreadyExists:
		middleware.RespondWithError(w, http.StatusConflict, "already exists")
	default:
		h.logger.Error("Category operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
