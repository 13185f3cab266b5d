package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cehpoint-official/bolpur-mart/internal/domain"
	"github.com/cehpoint-official/bolpur-mart/internal/service"
	"github.com/cehpoint-official/bolpur-mart/pkg/httputil"
	"github.com/cehpoint-official/bolpur-mart/pkg/validator"
)

// ProductAdminHandler handles the admin product endpoints. Authentication is
// enforced by the upstream gateway.
type ProductAdminHandler struct {
	service *service.ProductService
	logger  *slog.Logger
}

// NewProductAdminHandler creates a new admin product HTTP handler.
func NewProductAdminHandler(svc *service.ProductService, logger *slog.Logger) *ProductAdminHandler {
	return &ProductAdminHandler{
		service: svc,
		logger:  logger,
	}
}

// categoryRefRequest is the JSON shape of an embedded category reference.
type categoryRefRequest struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

// CreateProductRequest is the JSON request body for creating a product.
type CreateProductRequest struct {
	Name        string               `json:"name" validate:"required,min=1,max=500"`
	Description string               `json:"description"`
	Tags        []string             `json:"tags"`
	Categories  []categoryRefRequest `json:"categories" validate:"dive"`
	Available   bool                 `json:"available"`
	Price       int64                `json:"price" validate:"gte=0"`
	Currency    string               `json:"currency" validate:"required,len=3"`
	Unit        string               `json:"unit"`
	Stock       int                  `json:"stock" validate:"gte=0"`
	ImageURL    string               `json:"image_url" validate:"omitempty,url"`
}

// UpdateProductRequest is the JSON request body for updating a product.
type UpdateProductRequest struct {
	Name        *string              `json:"name" validate:"omitempty,min=1,max=500"`
	Description *string              `json:"description"`
	Tags        []string             `json:"tags"`
	Categories  []categoryRefRequest `json:"categories" validate:"omitempty,dive"`
	Available   *bool                `json:"available"`
	Price       *int64               `json:"price" validate:"omitempty,gte=0"`
	Currency    *string              `json:"currency" validate:"omitempty,len=3"`
	Unit        *string              `json:"unit"`
	Stock       *int                 `json:"stock" validate:"omitempty,gte=0"`
	ImageURL    *string              `json:"image_url" validate:"omitempty,url"`
}

func toCategoryRefs(reqs []categoryRefRequest) []domain.CategoryRef {
	if reqs == nil {
		return nil
	}
	refs := make([]domain.CategoryRef, len(reqs))
	for i, r := range reqs {
		refs[i] = domain.CategoryRef{ID: r.ID, Name: r.Name}
	}
	return refs
}

// CreateProduct handles POST /api/v1/admin/products
func (h *ProductAdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), &service.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Categories:  toCategoryRefs(req.Categories),
		Available:   req.Available,
		Price:       req.Price,
		Currency:    req.Currency,
		Unit:        req.Unit,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: product})
}

// UpdateProduct handles PUT /api/v1/admin/products/{id}
func (h *ProductAdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateProductRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), id.String(), &service.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Tags:        req.Tags,
		Categories:  toCategoryRefs(req.Categories),
		Available:   req.Available,
		Price:       req.Price,
		Currency:    req.Currency,
		Unit:        req.Unit,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// DeleteProduct handles DELETE /api/v1/admin/products/{id}
func (h *ProductAdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
