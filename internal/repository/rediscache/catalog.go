package rediscache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cehpoint-official/bolpur-mart/internal/domain"
	"github.com/cehpoint-official/bolpur-mart/internal/repository"
)

const (
	catalogKey   = "catalog:available"
	timeRulesKey = "catalog:timerules"
)

// ProductCache decorates a ProductRepository with a short-TTL Redis snapshot
// cache on the full available-catalog read. The filter pipeline recomputes on
// every request, so the snapshot TTL is the catalog's only staleness window.
// Writes pass through and invalidate the snapshot.
type ProductCache struct {
	inner  repository.ProductRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewProductCache creates a caching decorator around the given repository.
func NewProductCache(inner repository.ProductRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *ProductCache {
	return &ProductCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// ListAvailable returns the cached snapshot when fresh, falling back to the
// inner repository. Cache failures degrade to a direct read, never an error.
func (c *ProductCache) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if err == nil {
		var products []domain.Product
		if jsonErr := json.Unmarshal(data, &products); jsonErr == nil {
			return products, nil
		}
		// Corrupt cache entry: drop it and re-read.
		c.client.Del(ctx, catalogKey)
	} else if err != redis.Nil {
		c.logger.WarnContext(ctx, "catalog cache read failed",
			slog.String("error", err.Error()),
		)
	}

	products, err := c.inner.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		if err := c.client.Set(ctx, catalogKey, data, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "catalog cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return products, nil
}

// Create inserts a product and invalidates the snapshot.
func (c *ProductCache) Create(ctx context.Context, p *domain.Product) error {
	if err := c.inner.Create(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// GetByID delegates to the inner repository; single-product reads are cheap
// and always fresh.
func (c *ProductCache) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return c.inner.GetByID(ctx, id)
}

// GetBySlug delegates to the inner repository.
func (c *ProductCache) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return c.inner.GetBySlug(ctx, slug)
}

// Update modifies a product and invalidates the snapshot.
func (c *ProductCache) Update(ctx context.Context, p *domain.Product) error {
	if err := c.inner.Update(ctx, p); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Delete removes a product and invalidates the snapshot.
func (c *ProductCache) Delete(ctx context.Context, id string) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *ProductCache) invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "catalog cache invalidation failed",
			slog.String("error", err.Error()),
		)
	}
}

// TimeRuleCache decorates a TimeRuleRepository with a short-TTL snapshot
// cache. The cached list preserves the store's iteration order, so the
// overlapping-window tie-break is unaffected by caching.
type TimeRuleCache struct {
	inner  repository.TimeRuleRepository
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewTimeRuleCache creates a caching decorator around the given repository.
func NewTimeRuleCache(inner repository.TimeRuleRepository, client *redis.Client, ttl time.Duration, logger *slog.Logger) *TimeRuleCache {
	return &TimeRuleCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// GetTimeRules returns the cached rule snapshot when fresh.
func (c *TimeRuleCache) GetTimeRules(ctx context.Context) ([]domain.TimeSlotRule, error) {
	data, err := c.client.Get(ctx, timeRulesKey).Bytes()
	if err == nil {
		var rules []domain.TimeSlotRule
		if jsonErr := json.Unmarshal(data, &rules); jsonErr == nil {
			return rules, nil
		}
		c.client.Del(ctx, timeRulesKey)
	} else if err != redis.Nil {
		c.logger.WarnContext(ctx, "time rule cache read failed",
			slog.String("error", err.Error()),
		)
	}

	rules, err := c.inner.GetTimeRules(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(rules); err == nil {
		if err := c.client.Set(ctx, timeRulesKey, data, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "time rule cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return rules, nil
}

// Upsert writes through and invalidates the snapshot so slot changes take
// effect within one request rather than one TTL.
func (c *TimeRuleCache) Upsert(ctx context.Context, rule *domain.TimeSlotRule) error {
	if err := c.inner.Upsert(ctx, rule); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

// Delete removes a rule and invalidates the snapshot.
func (c *TimeRuleCache) Delete(ctx context.Context, slotID string) error {
	if err := c.inner.Delete(ctx, slotID); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *TimeRuleCache) invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, timeRulesKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "time rule cache invalidation failed",
			slog.String("error", err.Error()),
		)
	}
}

var _ repository.ProductRepository = (*ProductCache)(nil)
var _ repository.TimeRuleRepository = (*TimeRuleCache)(nil)
