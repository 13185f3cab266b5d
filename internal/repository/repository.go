package repository

import (
	"context"

	"github.com/cehpoint-official/bolpur-mart/internal/domain"
)

// ProductRepository defines persistence operations for catalog products.
type ProductRepository interface {
	// Create inserts a new product into the store.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Product, error)

	// GetBySlug retrieves a product by its URL-friendly slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// ListAvailable returns the full snapshot of products flagged available,
	// in stable store order. The filter pipeline runs over this snapshot in
	// memory; no query-side filtering beyond the availability flag.
	ListAvailable(ctx context.Context) ([]domain.Product, error)

	// Update modifies an existing product in the store.
	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product from the store by its identifier.
	Delete(ctx context.Context, id string) error
}

// TimeRuleRepository defines persistence operations for time-slot rules.
type TimeRuleRepository interface {
	// GetTimeRules returns the rule snapshot in deterministic order
	// (sort_order, then slot ID). An empty result means no configuration:
	// no slot is ever active. Iteration order is the overlapping-window
	// tie-break, so it must be stable across calls.
	GetTimeRules(ctx context.Context) ([]domain.TimeSlotRule, error)

	// Upsert creates or replaces the rule with the given slot ID.
	Upsert(ctx context.Context, rule *domain.TimeSlotRule) error

	// Delete removes the rule with the given slot ID.
	Delete(ctx context.Context, slotID string) error
}
