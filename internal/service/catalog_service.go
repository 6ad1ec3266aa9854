package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/domain"
	"storefront/internal/repository"

	"github.com/google/uuid"
)

// MaxPhotoBytes caps the optional product photo at 1 MB
const MaxPhotoBytes = 1 << 20

var (
	ErrCategoryHasProducts = errors.New("Cannot delete category with existing products")
	ErrProductExists       = errors.New("already exists")
	ErrPhotoTooLarge       = errors.New("Photo provided should be less than 1MB")
)

// FieldError is a product/category input violation. The handler maps
// it to a 400 with the message verbatim, distinct from the 409
// collision case.
type FieldError struct {
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// ProductInput carries the product fields for create/update. Pointer
// fields distinguish absent from zero-valued.
type ProductInput struct {
	Name        string
	Description string
	Price       *float64
	CategoryID  *uuid.UUID
	Quantity    *int
	Shipping    *bool
	PhotoSize   int64
}

// CatalogService owns category and product writes and the referential
// integrity rules between them: a category cannot be deleted while
// products reference it, and product/category names are unique.
type CatalogService interface {
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)

	CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context, categoryID *uuid.UUID, page, pageSize int) ([]*domain.Product, int, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// CreateCategory creates a category with a derived slug
func (s *catalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if name == "" {
		return nil, &FieldError{Message: "Name is required"}
	}

	category := &domain.Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      domain.Slugify(name),
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// UpdateCategory renames a category
func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*domain.Category, error) {
	if name == "" {
		return nil, &FieldError{Message: "Name is required"}
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = name
	category.Slug = domain.Slugify(name)

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category unless products still reference
// it. The count and the delete are two separate store calls with no
// transaction spanning them; a concurrent product create can slip
// between the two.
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return err
	}

	count, err := s.productRepo.CountByCategory(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count referencing products: %w", err)
	}
	if count > 0 {
		return ErrCategoryHasProducts
	}

	return s.categoryRepo.Delete(ctx, id)
}

// ListCategories retrieves all categories
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// GetCategoryBySlug retrieves one category by slug
func (s *catalogService) GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return s.categoryRepo.FindBySlug(ctx, slug)
}

// CreateProduct validates the input, rejects name collisions, and
// inserts the product
func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*domain.Product, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	// Case-sensitive exact-name collision check. Checked after field
	// validation, before the write; not serialized against concurrent
	// creates.
	existing, err := s.productRepo.FindByName(ctx, in.Name)
	if err != nil && err != repository.ErrProductNotFound {
		return nil, fmt.Errorf("failed to check product name: %w", err)
	}
	if existing != nil {
		return nil, ErrProductExists
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        in.Name,
		Slug:        domain.Slugify(in.Name),
		Description: in.Description,
		Price:       *in.Price,
		Quantity:    *in.Quantity,
		CategoryID:  *in.CategoryID,
		Shipping:    *in.Shipping,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateProduct validates the input, rejects collisions with any other
// product's name, and writes the update
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*domain.Product, error) {
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	existing, err := s.productRepo.FindByName(ctx, in.Name)
	if err != nil && err != repository.ErrProductNotFound {
		return nil, fmt.Errorf("failed to check product name: %w", err)
	}
	if existing != nil && existing.ID != id {
		return nil, ErrProductExists
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = in.Name
	product.Slug = domain.Slugify(in.Name)
	product.Description = in.Description
	product.Price = *in.Price
	product.Quantity = *in.Quantity
	product.CategoryID = *in.CategoryID
	product.Shipping = *in.Shipping
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// GetProduct retrieves one product
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// ListProducts retrieves products, optionally filtered by category
func (s *catalogService) ListProducts(ctx context.Context, categoryID *uuid.UUID, page, pageSize int) ([]*domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return s.productRepo.List(ctx, categoryID, page, pageSize, "created_at", repository.SortOrderDesc)
}

// validateProductInput checks the fields in a fixed order and stops at
// the first violation: name, description, price, category, quantity,
// shipping, photo size.
func validateProductInput(in ProductInput) error {
	switch {
	case in.Name == "":
		return &FieldError{Message: "Name is required"}
	case in.Description == "":
		return &FieldError{Message: "Description is required"}
	case in.Price == nil:
		return &FieldError{Message: "Price is required"}
	case in.CategoryID == nil:
		return &FieldError{Message: "Category is required"}
	case in.Quantity == nil:
		return &FieldError{Message: "Quantity is required"}
	case in.Shipping == nil:
		return &FieldError{Message: "Shipping is required"}
	case in.PhotoSize > MaxPhotoBytes:
		return ErrPhotoTooLarge
	}
	return nil
}
