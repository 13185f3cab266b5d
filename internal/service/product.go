package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cehpoint-official/bolpur-mart/internal/domain"
	"github.com/cehpoint-official/bolpur-mart/internal/event"
	"github.com/cehpoint-official/bolpur-mart/internal/repository"
	apperrors "github.com/cehpoint-official/bolpur-mart/pkg/errors"
)

// slugRegexp matches characters not allowed in a slug.
var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// ProductService implements the admin write side of the catalog.
type ProductService struct {
	repo     repository.ProductRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, producer *event.Producer, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreateProductInput holds the parameters for creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Tags        []string
	Categories  []domain.CategoryRef
	Available   bool
	Price       int64
	Currency    string
	Unit        string
	Stock       int
	ImageURL    string
}

// UpdateProductInput holds the parameters for partially updating a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Tags        []string
	Categories  []domain.CategoryRef
	Available   *bool
	Price       *int64
	Currency    *string
	Unit        *string
	Stock       *int
	ImageURL    *string
}

// CreateProduct creates a new product with the given input.
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price must not be negative")
	}
	if len(input.Currency) != 3 {
		return nil, apperrors.InvalidInput("currency must be a 3-letter ISO code")
	}
	if err := validateCategoryRefs(input.Categories); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Slug:        generateSlug(input.Name),
		Description: input.Description,
		Tags:        input.Tags,
		Categories:  dedupeCategories(input.Categories),
		Available:   input.Available,
		Price:       input.Price,
		Currency:    strings.ToUpper(input.Currency),
		Unit:        input.Unit,
		Stock:       input.Stock,
		ImageURL:    input.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Unit == "" {
		product.Unit = "piece"
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	if err := s.producer.PublishProductCreated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.created event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "product created",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// UpdateProduct applies partial updates to an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *UpdateProductInput) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, apperrors.InvalidInput("product name must not be empty")
		}
		product.Name = *input.Name
		product.Slug = generateSlug(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Tags != nil {
		product.Tags = input.Tags
	}
	if input.Categories != nil {
		if err := validateCategoryRefs(input.Categories); err != nil {
			return nil, err
		}
		product.Categories = dedupeCategories(input.Categories)
	}
	if input.Available != nil {
		product.Available = *input.Available
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price must not be negative")
		}
		product.Price = *input.Price
	}
	if input.Currency != nil {
		if len(*input.Currency) != 3 {
			return nil, apperrors.InvalidInput("currency must be a 3-letter ISO code")
		}
		product.Currency = strings.ToUpper(*input.Currency)
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}
	product.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	if err := s.producer.PublishProductUpdated(ctx, product); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.updated event",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product updated",
		slog.String("product_id", product.ID),
		slog.String("slug", product.Slug),
	)

	return product, nil
}

// DeleteProduct removes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get product for delete: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if err := s.producer.PublishProductDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish product.deleted event",
			slog.String("product_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "product deleted",
		slog.String("product_id", id),
	)

	return nil
}

// generateSlug creates a URL-friendly slug from the given name.
func generateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugRegexp.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	return slug
}

func validateCategoryRefs(refs []domain.CategoryRef) error {
	for _, ref := range refs {
		if strings.TrimSpace(ref.ID) == "" {
			return apperrors.InvalidInput("category reference id must not be empty")
		}
	}
	return nil
}

// dedupeCategories drops duplicate category IDs, keeping the first occurrence.
func dedupeCategories(refs []domain.CategoryRef) []domain.CategoryRef {
	seen := make(map[string]struct{}, len(refs))
	out := make([]domain.CategoryRef, 0, len(refs))
	for _, ref := range refs {
		if _, ok := seen[ref.ID]; ok {
			continue
		}
		seen[ref.ID] = struct{}{}
		out = append(out, ref)
	}
	return out
}
