package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cehpoint-official/bolpur-mart/internal/domain"
	"github.com/cehpoint-official/bolpur-mart/internal/event"
	apperrors "github.com/cehpoint-official/bolpur-mart/pkg/errors"
	pkgkafka "github.com/cehpoint-official/bolpur-mart/pkg/kafka"
)

// newTestProducer builds an event producer pointed at an unreachable broker.
// Publish failures are logged and swallowed by the services, so tests run
// without Kafka.
func newTestProducer() *event.Producer {
	logger := newTestLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func boolPtr(b bool) *bool { return &b }

func TestCreateProduct_Success(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestProducer(), newTestLogger())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	product, err := svc.CreateProduct(ctx, &CreateProductInput{
		Name:        "Amul Butter 500g",
		Description: "Creamy salted butter",
		Tags:        []string{"dairy", "breakfast"},
		Categories: []domain.CategoryRef{
			{ID: "cat-dairy", Name: "Dairy"},
			{ID: "cat-dairy", Name: "Dairy"},
			{ID: "cat-breakfast", Name: "Breakfast"},
		},
		Available: true,
		Price:     27500,
		Currency:  "inr",
		Stock:     40,
	})

	require.NoError(t, err)
	assert.NoError(t, uuid.Validate(product.ID))
	assert.Equal(t, "amul-butter-500g", product.Slug)
	assert.Equal(t, "INR", product.Currency)
	assert.Equal(t, "piece", product.Unit)
	assert.Len(t, product.Categories, 2)
	assert.False(t, product.CreatedAt.IsZero())
	repo.AssertExpectations(t)
}

func TestCreateProduct_Validation(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestProducer(), newTestLogger())
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreateProductInput
	}{
		{name: "missing name", input: CreateProductInput{Price: 100, Currency: "INR"}},
		{name: "negative price", input: CreateProductInput{Name: "Tomato", Price: -1, Currency: "INR"}},
		{name: "bad currency", input: CreateProductInput{Name: "Tomato", Price: 100, Currency: "RUPEES"}},
		{
			name: "blank category id",
			input: CreateProductInput{
				Name: "Tomato", Price: 100, Currency: "INR",
				Categories: []domain.CategoryRef{{ID: "  ", Name: "Vegetables"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, &tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
		})
	}

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateProduct_PartialUpdate(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestProducer(), newTestLogger())
	ctx := context.Background()

	existing := &domain.Product{
		ID:        "p1",
		Name:      "Tomato",
		Slug:      "tomato",
		Available: true,
		Price:     3000,
		Currency:  "INR",
		Unit:      "kg",
	}
	repo.On("GetByID", ctx, "p1").Return(existing, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Product")).Return(nil)

	updated, err := svc.UpdateProduct(ctx, "p1", &UpdateProductInput{
		Name:      strPtr("Desi Tomato"),
		Price:     int64Ptr(3500),
		Available: boolPtr(false),
	})

	require.NoError(t, err)
	assert.Equal(t, "Desi Tomato", updated.Name)
	assert.Equal(t, "desi-tomato", updated.Slug)
	assert.Equal(t, int64(3500), updated.Price)
	assert.False(t, updated.Available)
	// Untouched fields keep their values.
	assert.Equal(t, "INR", updated.Currency)
	assert.Equal(t, "kg", updated.Unit)
	repo.AssertExpectations(t)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestProducer(), newTestLogger())
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("product", "missing"))

	_, err := svc.UpdateProduct(ctx, "missing", &UpdateProductInput{Name: strPtr("X")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestUpdateProduct_RejectsEmptyName(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestProducer(), newTestLogger())
	ctx := context.Background()

	repo.On("GetByID", ctx, "p1").Return(&domain.Product{ID: "p1", Name: "Tomato"}, nil)

	_, err := svc.UpdateProduct(ctx, "p1", &UpdateProductInput{Name: strPtr("")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteProduct(t *testing.T) {
	repo := new(mockProductRepository)
	svc := NewProductService(repo, newTestProducer(), newTestLogger())
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo.On("GetByID", ctx, "p1").Return(&domain.Product{ID: "p1"}, nil)
		repo.On("Delete", ctx, "p1").Return(nil)

		require.NoError(t, svc.DeleteProduct(ctx, "p1"))
		repo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		repo.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("product", "missing"))

		err := svc.DeleteProduct(ctx, "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	})
}

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Amul Butter 500g", want: "amul-butter-500g"},
		{in: "  Fresh   Tomatoes!  ", want: "fresh-tomatoes"},
		{in: "Chai & Biscuits", want: "chai-biscuits"},
		{in: "---", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, generateSlug(tt.in), "slug of %q", tt.in)
	}
}
