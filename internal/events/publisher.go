package events

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Tesseract-Nexus/go-shared/events"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Publisher wraps the go-shared events publisher for catalog events
type Publisher struct {
	publisher *events.Publisher
	logger    *logrus.Entry
}

// NewPublisher creates a new catalog events publisher
func NewPublisher(logger *logrus.Logger) (*Publisher, error) {
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		// Default to GKE internal NATS service URL
		natsURL = "nats://nats.nats.svc.cluster.local:4222"
	}

	config := events.DefaultPublisherConfig(natsURL)
	config.Name = "catalog-service"

	publisher, err := events.NewPublisher(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create events publisher: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := publisher.EnsureStream(ctx, events.StreamProducts, []string{"product.>"}); err != nil {
		logger.WithError(err).Warn("Failed to ensure products stream (may already exist)")
	}
	if err := publisher.EnsureStream(ctx, events.StreamInventory, []string{"inventory.>"}); err != nil {
		logger.WithError(err).Warn("Failed to ensure inventory stream (may already exist)")
	}

	return &Publisher{
		publisher: publisher,
		logger:    logger.WithField("component", "catalog-events"),
	}, nil
}

// Close closes the NATS connection
func (p *Publisher) Close() {
	if p.publisher != nil {
		p.publisher.Close()
	}
}

// ActorContext carries the request actor for event attribution
type ActorContext struct {
	ActorID    string
	ActorName  string
	ActorEmail string
	ClientIP   string
	UserAgent  string
}

// PublishProductCreated publishes a product.created event
func (p *Publisher) PublishProductCreated(ctx context.Context, product *models.Product, tenantID string, actor ActorContext) error {
	event := p.buildProductEvent(events.ProductCreated, product, tenantID, actor)
	event.ChangeType = "created"
	return p.publishProduct(ctx, event)
}

// PublishProductUpdated publishes a product.updated event
func (p *Publisher) PublishProductUpdated(ctx context.Context, product *models.Product, oldProduct *models.Product, changedFields []string, tenantID string, actor ActorContext) error {
	event := p.buildProductEvent(events.ProductUpdated, product, tenantID, actor)
	event.ChangeType = "updated"
	event.ChangedFields = changedFields

	if oldProduct != nil {
		event.OldValue = map[string]interface{}{
			"name":   oldProduct.Name,
			"price":  oldProduct.Price.String(),
			"status": oldProduct.Status,
		}
	}
	event.NewValue = map[string]interface{}{
		"name":   product.Name,
		"price":  product.Price.String(),
		"status": product.Status,
	}

	return p.publishProduct(ctx, event)
}

// PublishProductDeleted publishes a product.deleted event
func (p *Publisher) PublishProductDeleted(ctx context.Context, product *models.Product, tenantID string, actor ActorContext) error {
	event := p.buildProductEvent(events.ProductDeleted, product, tenantID, actor)
	event.ChangeType = "deleted"
	return p.publishProduct(ctx, event)
}

// PublishProductPublished publishes a product.published event
func (p *Publisher) PublishProductPublished(ctx context.Context, product *models.Product, tenantID string, actor ActorContext) error {
	event := p.buildProductEvent(events.ProductPublished, product, tenantID, actor)
	event.ChangeType = "published"
	return p.publishProduct(ctx, event)
}

// PublishStockAdjusted publishes an inventory.adjusted event for a stock
// combination quantity change.
func (p *Publisher) PublishStockAdjusted(ctx context.Context, stock *models.VariationStock, previousQuantity int, reason, tenantID string, actor ActorContext) error {
	event := events.NewInventoryEvent(events.InventoryAdjusted, tenantID)
	event.Items = []events.InventoryItem{p.buildInventoryItem(stock, previousQuantity)}
	event.AdjustmentReason = reason
	event.AdjustedBy = actor.ActorName
	event.AdjustmentType = "manual"
	event.CalculateSummary()
	return p.publishInventory(ctx, event)
}

// PublishStockAlert publishes inventory.low_stock or inventory.out_of_stock
// depending on the derived status. No-op for available stock.
func (p *Publisher) PublishStockAlert(ctx context.Context, stock *models.VariationStock, previousQuantity int, tenantID string) error {
	var eventType string
	var alertLevel string
	var alertMessage string

	switch stock.Status {
	case models.StockStatusSoldOut:
		eventType = events.InventoryOutOfStock
		alertLevel = "critical"
		alertMessage = fmt.Sprintf("Stock %s is sold out", stock.SKU)
	case models.StockStatusReserved:
		eventType = events.InventoryLowStock
		alertLevel = "warning"
		alertMessage = fmt.Sprintf("Stock %s is at or below its low stock threshold (%d remaining)", stock.SKU, stock.Quantity)
	default:
		return nil
	}

	event := events.NewInventoryEvent(eventType, tenantID)
	event.Items = []events.InventoryItem{p.buildInventoryItem(stock, previousQuantity)}
	event.AlertLevel = alertLevel
	event.AlertMessage = alertMessage
	event.CalculateSummary()
	return p.publishInventory(ctx, event)
}

// buildProductEvent creates a ProductEvent from a product model
func (p *Publisher) buildProductEvent(eventType string, product *models.Product, tenantID string, actor ActorContext) *events.ProductEvent {
	event := events.NewProductEvent(eventType, tenantID)
	event.SourceID = uuid.New().String()
	event.ProductID = product.ID.String()
	event.ProductName = product.Name
	event.SKU = product.SKU
	event.Status = string(product.Status)
	event.Price = product.Price.InexactFloat64()
	event.CategoryID = product.CategoryID.String()
	event.VendorID = product.SellerID.String()
	event.ActorID = actor.ActorID
	event.ActorName = actor.ActorName
	event.ActorEmail = actor.ActorEmail
	event.ClientIP = actor.ClientIP
	event.UserAgent = actor.UserAgent
	return event
}

func (p *Publisher) buildInventoryItem(stock *models.VariationStock, previousQuantity int) events.InventoryItem {
	return events.InventoryItem{
		ProductID:     stock.ProductID.String(),
		Name:          stock.SKU,
		SKU:           stock.SKU,
		CurrentStock:  stock.Quantity,
		PreviousStock: previousQuantity,
		ReorderPoint:  stock.LowStockThreshold,
	}
}

// publishProduct logs and publishes product events asynchronously
func (p *Publisher) publishProduct(ctx context.Context, event *events.ProductEvent) error {
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := p.publisher.PublishProduct(pubCtx, event); err != nil {
			p.logger.WithFields(logrus.Fields{
				"eventType": event.EventType,
				"productID": event.ProductID,
				"tenantID":  event.TenantID,
			}).WithError(err).Error("Failed to publish product event")
		} else {
			p.logger.WithFields(logrus.Fields{
				"eventType":   event.EventType,
				"productID":   event.ProductID,
				"productName": event.ProductName,
				"tenantID":    event.TenantID,
			}).Info("Product event published successfully")
		}
	}()

	return nil
}

// publishInventory logs and publishes inventory events asynchronously
func (p *Publisher) publishInventory(ctx context.Context, event *events.InventoryEvent) error {
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := p.publisher.PublishInventory(pubCtx, event); err != nil {
			p.logger.WithFields(logrus.Fields{
				"eventType": event.EventType,
				"tenantID":  event.TenantID,
			}).WithError(err).Error("Failed to publish inventory event")
		} else {
			p.logger.WithFields(logrus.Fields{
				"eventType": event.EventType,
				"tenantID":  event.TenantID,
			}).Info("Inventory event published successfully")
		}
	}()

	return nil
}
