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

// TimeRuleHandler handles the admin time-slot rule endpoints.
type TimeRuleHandler struct {
	service *service.TimeRuleService
	logger  *slog.Logger
}

// NewTimeRuleHandler creates a new time rule HTTP handler.
func NewTimeRuleHandler(svc *service.TimeRuleService, logger *slog.Logger) *TimeRuleHandler {
	return &TimeRuleHandler{
		service: svc,
		logger:  logger,
	}
}

// UpsertRuleRequest is the JSON request body for creating or replacing a rule.
type UpsertRuleRequest struct {
	DisplayName       string               `json:"display_name" validate:"required,min=1,max=100"`
	StartTime         string               `json:"start_time" validate:"required,datetime=15:04"`
	EndTime           string               `json:"end_time" validate:"required,datetime=15:04"`
	IsActive          bool                 `json:"is_active"`
	SortOrder         int                  `json:"sort_order"`
	AllowedCategories []categoryRefRequest `json:"allowed_categories" validate:"dive"`
}

// ListRules handles GET /api/v1/admin/time-rules
func (h *TimeRuleHandler) ListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.ListRules(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: rules})
}

// UpsertRule handles PUT /api/v1/admin/time-rules/{slotId}
func (h *TimeRuleHandler) UpsertRule(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "slotId")

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpsertRuleRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	refs := make([]domain.CategoryRef, len(req.AllowedCategories))
	for i, c := range req.AllowedCategories {
		refs[i] = domain.CategoryRef{ID: c.ID, Name: c.Name}
	}

	rule, err := h.service.UpsertRule(r.Context(), slotID, &service.UpsertRuleInput{
		DisplayName:       req.DisplayName,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		IsActive:          req.IsActive,
		SortOrder:         req.SortOrder,
		AllowedCategories: refs,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: rule})
}

// DeleteRule handles DELETE /api/v1/admin/time-rules/{slotId}
func (h *TimeRuleHandler) DeleteRule(w http.ResponseWriter, r *http.Request) {
	slotID := chi.URLParam(r, "slotId")

	if err := h.service.DeleteRule(r.Context(), slotID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
