package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cehpoint-official/bolpur-mart/internal/domain"
	pkgkafka "github.com/cehpoint-official/bolpur-mart/pkg/kafka"
)

// Kafka topics for catalog domain events.
const (
	TopicProductCreated   = "bolpurmart.catalog.product.created"
	TopicProductUpdated   = "bolpurmart.catalog.product.updated"
	TopicProductDeleted   = "bolpurmart.catalog.product.deleted"
	TopicTimeRulesUpdated = "bolpurmart.catalog.timerules.updated"
)

// Aggregate type constants.
const (
	AggregateTypeProduct  = "product"
	AggregateTypeTimeRule = "time_rule"
)

// SourceCatalogService identifies events originating from this service.
const SourceCatalogService = "catalog-service"

// ProductData is the payload for product.created and product.updated events.
type ProductData struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Slug       string               `json:"slug"`
	Categories []domain.CategoryRef `json:"categories,omitempty"`
	Available  bool                 `json:"available"`
	Price      int64                `json:"price"`
	Currency   string               `json:"currency"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID string `json:"id"`
}

// TimeRulesUpdatedData is the payload for a timerules.updated event. Consumers
// (search indexer, notification fan-out) re-read the rule snapshot on receipt.
type TimeRulesUpdatedData struct {
	SlotID  string `json:"slot_id"`
	Deleted bool   `json:"deleted,omitempty"`
}

// Producer publishes catalog domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the catalog service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductCreated, "product.created", product)
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publishProduct(ctx, TopicProductUpdated, "product.updated", product)
}

func (p *Producer) publishProduct(ctx context.Context, topic, eventType string, product *domain.Product) error {
	data := ProductData{
		ID:         product.ID,
		Name:       product.Name,
		Slug:       product.Slug,
		Categories: product.Categories,
		Available:  product.Available,
		Price:      product.Price,
		Currency:   product.Currency,
	}

	evt, err := pkgkafka.NewEvent(eventType, product.ID, AggregateTypeProduct, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}

	return p.kafka.Publish(ctx, topic, evt)
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id string) error {
	evt, err := pkgkafka.NewEvent("product.deleted", id, AggregateTypeProduct, SourceCatalogService, ProductDeletedData{ID: id})
	if err != nil {
		return fmt.Errorf("create product.deleted event: %w", err)
	}

	return p.kafka.Publish(ctx, TopicProductDeleted, evt)
}

// PublishTimeRulesUpdated publishes a timerules.updated event for the given
// slot. Deleted marks rule removal.
func (p *Producer) PublishTimeRulesUpdated(ctx context.Context, slotID string, deleted bool) error {
	data := TimeRulesUpdatedData{SlotID: slotID, Deleted: deleted}

	evt, err := pkgkafka.NewEvent("timerules.updated", slotID, AggregateTypeTimeRule, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create timerules.updated event: %w", err)
	}

	return p.kafka.Publish(ctx, TopicTimeRulesUpdated, evt)
}
