package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cehpoint-official/bolpur-mart/internal/service"
	"github.com/cehpoint-official/bolpur-mart/pkg/httputil"
	"github.com/cehpoint-official/bolpur-mart/pkg/pagination"
)

// CatalogHandler handles the storefront read endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/catalog/products
//
// Query parameters:
//
//	search    free-text query (name, description, tags, category names)
//	category  repeatable; restricts results to the given category IDs
//	page, per_page  pagination window over the filtered list
//
// Products outside the current time slot's allowed categories are never
// returned, regardless of search or category parameters.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := service.CatalogQuery{
		Search:            r.URL.Query().Get("search"),
		CategorySelection: r.URL.Query()["category"],
	}
	page := pagination.FromRequest(r)

	result, err := h.service.ListProducts(r.Context(), q, page)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// ListCategories handles GET /api/v1/catalog/categories
//
// Returns the currently active time slot and the categories sellable right
// now. Outside any configured window the category list is empty.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	slot, err := h.service.AvailableCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: slot})
}

// GetProduct handles GET /api/v1/catalog/products/{idOrSlug}
// It accepts both a UUID (product ID) and a slug for lookup.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")
	if idOrSlug == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product id or slug is required"},
		})
		return
	}

	_, parseErr := uuid.Parse(idOrSlug)
	bySlug := parseErr != nil

	detail, err := h.service.GetProduct(r.Context(), idOrSlug, bySlug)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: detail})
}
