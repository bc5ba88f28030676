package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// StockService owns the business rules around stock combinations: option
// membership, quantity policy and status derivation.
type StockService struct {
	stocks     repository.StocksRepositoryInterface
	variations repository.VariationsRepositoryInterface
	products   repository.ProductReader
	logger     *logrus.Logger
}

func NewStockService(
	stocks repository.StocksRepositoryInterface,
	variations repository.VariationsRepositoryInterface,
	products repository.ProductReader,
	logger *logrus.Logger,
) *StockService {
	return &StockService{
		stocks:     stocks,
		variations: variations,
		products:   products,
		logger:     logger,
	}
}

// parseOptionIDs converts request option IDs into UUIDs, rejecting duplicates.
func parseOptionIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	seen := make(map[uuid.UUID]bool, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid variation option id %q: %w", s, err)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate variation option id %s", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}

// checkMembership verifies every option belongs to a variation of the product
// and that no two options share a variation. The repository repeats this check
// inside the write transaction; this pass surfaces a clean error before any
// database write is attempted.
func (s *StockService) checkMembership(tenantID string, productID uuid.UUID, optionIDs []uuid.UUID) error {
	optionVariation, err := s.variations.GetProductOptionIDs(tenantID, productID)
	if err != nil {
		return err
	}

	seen := make(map[uuid.UUID]uuid.UUID, len(optionIDs))
	for _, optionID := range optionIDs {
		variationID, ok := optionVariation[optionID]
		if !ok {
			return fmt.Errorf("%w: option %s", repository.ErrOptionNotOfProduct, optionID)
		}
		if prev, dup := seen[variationID]; dup {
			return fmt.Errorf("%w: options %s and %s belong to the same variation",
				repository.ErrOptionNotOfProduct, prev, optionID)
		}
		seen[variationID] = optionID
	}
	return nil
}

// CreateStock creates a stock combination. Price falls back to the product's
// effective price when not supplied, quantity defaults to zero and the low
// stock threshold to the catalog default. Status is always derived.
func (s *StockService) CreateStock(tenantID string, req *models.CreateStockRequest) (*models.VariationStock, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id %q: %w", req.ProductID, err)
	}
	optionIDs, err := parseOptionIDs(req.VariationOptionIDs)
	if err != nil {
		return nil, err
	}

	product, err := s.products.GetProductByID(tenantID, productID, false)
	if err != nil {
		return nil, err
	}

	if err := s.checkMembership(tenantID, productID, optionIDs); err != nil {
		return nil, err
	}

	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	reserved := 0
	if req.ReservedQuantity != nil {
		reserved = *req.ReservedQuantity
	}
	threshold := models.DefaultLowStockThreshold
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}
	price := product.EffectivePrice()
	if req.Price != nil {
		price = *req.Price
	}

	stock := &models.VariationStock{
		ProductID:         productID,
		SKU:               req.SKU,
		ImagePath:         req.ImagePath,
		Price:             price,
		Quantity:          quantity,
		ReservedQuantity:  reserved,
		LowStockThreshold: threshold,
		Metadata:          req.Metadata,
	}

	if err := s.stocks.CreateStock(tenantID, stock, optionIDs); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id":  tenantID,
		"product_id": productID,
		"stock_id":   stock.ID,
		"sku":        stock.SKU,
	}).Info("Stock combination created")

	return s.stocks.GetStockByID(tenantID, stock.ID)
}

// ListStocks retrieves stock combinations with filters
func (s *StockService) ListStocks(tenantID string, filter *models.StockFilter) ([]models.VariationStock, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.stocks.GetStocks(tenantID, filter)
}

// GetStock retrieves a single stock combination
func (s *StockService) GetStock(tenantID string, stockID uuid.UUID) (*models.VariationStock, error) {
	return s.stocks.GetStockByID(tenantID, stockID)
}

// UpdateStock applies field updates to a stock combination. A changed option
// set goes through the same membership validation as on create.
func (s *StockService) UpdateStock(tenantID string, stockID uuid.UUID, req *models.UpdateStockRequest) (*models.VariationStock, error) {
	existing, err := s.stocks.GetStockByID(tenantID, stockID)
	if err != nil {
		return nil, err
	}

	var optionIDs []uuid.UUID
	if req.VariationOptionIDs != nil {
		optionIDs, err = parseOptionIDs(req.VariationOptionIDs)
		if err != nil {
			return nil, err
		}
		if err := s.checkMembership(tenantID, existing.ProductID, optionIDs); err != nil {
			return nil, err
		}
	}

	updates := make(map[string]interface{})
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.ImagePath != nil {
		updates["image_path"] = *req.ImagePath
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Quantity != nil {
		updates["quantity"] = *req.Quantity
	}
	if req.ReservedQuantity != nil {
		updates["reserved_quantity"] = *req.ReservedQuantity
	}
	if req.LowStockThreshold != nil {
		updates["low_stock_threshold"] = *req.LowStockThreshold
	}
	if req.Metadata != nil {
		updates["metadata"] = *req.Metadata
	}

	return s.stocks.UpdateStock(tenantID, stockID, updates, optionIDs)
}

// QuantityChange reports the outcome of a quantity adjustment.
type QuantityChange struct {
	Stock            *models.VariationStock
	PreviousQuantity int
	PreviousStatus   models.StockStatus
}

// UpdateQuantity adjusts a stock quantity with set, increment or decrement
// semantics. Decrements below zero are rejected by the repository's guarded
// update rather than clamped.
func (s *StockService) UpdateQuantity(tenantID string, stockID uuid.UUID, req *models.UpdateStockQuantityRequest) (*QuantityChange, error) {
	existing, err := s.stocks.GetStockByID(tenantID, stockID)
	if err != nil {
		return nil, err
	}

	stock, err := s.stocks.AdjustQuantity(tenantID, stockID, req.Operation, *req.Quantity)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id": tenantID,
		"stock_id":  stockID,
		"operation": req.Operation,
		"from":      existing.Quantity,
		"to":        stock.Quantity,
		"status":    stock.Status,
	}).Info("Stock quantity adjusted")

	return &QuantityChange{
		Stock:            stock,
		PreviousQuantity: existing.Quantity,
		PreviousStatus:   existing.Status,
	}, nil
}

// DeleteStock removes a stock combination
func (s *StockService) DeleteStock(tenantID string, stockID uuid.UUID) error {
	return s.stocks.DeleteStock(tenantID, stockID)
}

// ExportStocks retrieves all stock combinations for reporting
func (s *StockService) ExportStocks(tenantID string, productID *uuid.UUID) ([]models.VariationStock, error) {
	return s.stocks.GetStocksForExport(tenantID, productID)
}
