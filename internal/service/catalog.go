package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cehpoint-official/bolpur-mart/internal/domain"
	"github.com/cehpoint-official/bolpur-mart/internal/repository"
	apperrors "github.com/cehpoint-official/bolpur-mart/pkg/errors"
	"github.com/cehpoint-official/bolpur-mart/pkg/pagination"
)

// Clock supplies the current wall-clock time. Resolution logic never reads
// the clock itself; the service injects it so tests can pin the time.
type Clock func() time.Time

// CatalogService answers the two storefront reads: which categories are
// sellable right now, and the filtered product list.
type CatalogService struct {
	products repository.ProductRepository
	rules    repository.TimeRuleRepository
	logger   *slog.Logger
	now      Clock
}

// NewCatalogService creates a new catalog service. A nil clock defaults to
// time.Now.
func NewCatalogService(products repository.ProductRepository, rules repository.TimeRuleRepository, logger *slog.Logger, now Clock) *CatalogService {
	if now == nil {
		now = time.Now
	}
	return &CatalogService{
		products: products,
		rules:    rules,
		logger:   logger,
		now:      now,
	}
}

// CatalogQuery holds the user-controlled filter inputs.
type CatalogQuery struct {
	// Search is a free-text query matched case-insensitively against name,
	// description, tags, and category names.
	Search string

	// CategorySelection restricts results to the given category IDs. The
	// selection can only narrow the current slot's allowed set, never widen it.
	CategorySelection []string
}

// SlotInfo describes the currently active time slot. A zero SlotID means no
// slot is active and nothing is sellable.
type SlotInfo struct {
	SlotID            string               `json:"slot_id"`
	DisplayName       string               `json:"display_name"`
	AllowedCategories []domain.CategoryRef `json:"allowed_categories"`
}

// AvailableCategories resolves the current slot and returns the categories
// sellable right now. No active slot or absent configuration yields an empty
// category list, which is a valid displayable state rather than an error.
func (s *CatalogService) AvailableCategories(ctx context.Context) (*SlotInfo, error) {
	rules, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}

	return s.resolveSlot(ctx, rules), nil
}

// ListProducts runs the full filter pipeline over the current catalog
// snapshot: availability gate, time-slot gate, search filter, category
// selection, then an in-memory pagination window. The pipeline is a pure
// computation over its snapshot inputs, recomputed per request.
func (s *CatalogService) ListProducts(ctx context.Context, q CatalogQuery, page pagination.Params) (pagination.Result[domain.Product], error) {
	var empty pagination.Result[domain.Product]

	rules, err := s.loadRules(ctx)
	if err != nil {
		return empty, err
	}

	slot := s.resolveSlot(ctx, rules)
	if slot.SlotID == "" {
		// No active slot means no products, regardless of catalog contents.
		return pagination.NewResult([]domain.Product{}, 0, page), nil
	}

	catalog, err := s.products.ListAvailable(ctx)
	if err != nil {
		return empty, apperrors.Unavailable("product catalog", err)
	}

	allowed := domain.CategoryIDSet(slot.AllowedCategories)
	selection := make(map[string]struct{}, len(q.CategorySelection))
	for _, id := range q.CategorySelection {
		if id = strings.TrimSpace(id); id != "" {
			selection[id] = struct{}{}
		}
	}

	filtered := FilterCatalog(catalog, allowed, q.Search, selection)

	return pagination.NewResult(pagination.Window(filtered, page), len(filtered), page), nil
}

// ProductDetail is a single product read enriched with its gate status.
type ProductDetail struct {
	domain.Product
	// CurrentlyAvailable reports whether the product would appear in the
	// gated catalog right now (available flag plus time-slot gate).
	CurrentlyAvailable bool `json:"currently_available"`
}

// GetProduct retrieves a single product by ID or slug. The direct read does
// not hide slot-gated products, but reports whether the product is sellable
// in the current slot.
func (s *CatalogService) GetProduct(ctx context.Context, idOrSlug string, bySlug bool) (*ProductDetail, error) {
	var (
		product *domain.Product
		err     error
	)
	if bySlug {
		product, err = s.products.GetBySlug(ctx, idOrSlug)
	} else {
		product, err = s.products.GetByID(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}

	detail := &ProductDetail{Product: *product}

	// Gate status is an enrichment; a rule store outage degrades it to
	// "not currently available" instead of failing the product read.
	rules, err := s.loadRules(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "could not resolve slot for product detail",
			slog.String("product_id", product.ID),
			slog.String("error", err.Error()),
		)
		return detail, nil
	}

	slot := s.resolveSlot(ctx, rules)
	if slot.SlotID != "" && product.Available {
		detail.CurrentlyAvailable = product.InAnyCategory(domain.CategoryIDSet(slot.AllowedCategories))
	}

	return detail, nil
}

func (s *CatalogService) loadRules(ctx context.Context) ([]domain.TimeSlotRule, error) {
	rules, err := s.rules.GetTimeRules(ctx)
	if err != nil {
		return nil, apperrors.Unavailable("time rule configuration", err)
	}

	if bad := domain.MalformedRules(rules); len(bad) > 0 {
		s.logger.WarnContext(ctx, "skipping time rules with malformed windows",
			slog.Any("slot_ids", bad),
		)
	}

	return rules, nil
}

func (s *CatalogService) resolveSlot(ctx context.Context, rules []domain.TimeSlotRule) *SlotInfo {
	now := domain.ClockFromTime(s.now())

	slotID, ok := domain.ResolveCurrentSlot(rules, now)
	if !ok {
		s.logger.DebugContext(ctx, "no active time slot",
			slog.String("now", now.String()),
		)
		return &SlotInfo{AllowedCategories: []domain.CategoryRef{}}
	}

	info := &SlotInfo{
		SlotID:            slotID,
		AllowedCategories: domain.SlotCategories(rules, slotID),
	}
	for _, rule := range rules {
		if rule.SlotID == slotID {
			info.DisplayName = rule.DisplayName
			break
		}
	}

	s.logger.DebugContext(ctx, "resolved time slot",
		slog.String("slot_id", slotID),
		slog.String("now", now.String()),
		slog.Int("allowed_categories", len(info.AllowedCategories)),
	)

	return info
}

// FilterCatalog applies the filter stages in order over the product snapshot:
//
//  1. availability gate: drop products with available=false (applied
//     defensively even when the repository pre-filters)
//  2. time-slot gate: drop products outside the allowed category set; an
//     empty set drops everything
//  3. search filter: case-insensitive substring over name, description,
//     tags, and category names, any-field match
//  4. category selection: intersect with the user's chosen categories; the
//     slot gate remains the ceiling, so a selection outside the allowed set
//     yields nothing
//
// The scan is stable: output preserves input order, and identical inputs
// produce identical output.
func FilterCatalog(products []domain.Product, allowed map[string]struct{}, search string, selection map[string]struct{}) []domain.Product {
	query := strings.ToLower(strings.TrimSpace(search))

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if !p.Available {
			continue
		}
		if !p.InAnyCategory(allowed) {
			continue
		}
		if query != "" && !p.MatchesQuery(query) {
			continue
		}
		if len(selection) > 0 && !p.InAnyCategory(selection) {
			continue
		}
		out = append(out, p)
	}
	return out
}
