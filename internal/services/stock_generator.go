package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
)

// Generation caps keep the combinatorial explosion of large catalogs in
// check: at most this many options per variation are considered, and at most
// this many combinations are materialized per product.
const (
	maxOptionsPerVariation    = 3
	maxCombinationsPerProduct = 8
)

// CartesianOptionIDs folds option ID groups into their cartesian product.
// Each group contributes one element per combination, in group order. An
// empty input yields no combinations.
func CartesianOptionIDs(groups [][]uuid.UUID) [][]uuid.UUID {
	if len(groups) == 0 {
		return [][]uuid.UUID{}
	}

	combinations := [][]uuid.UUID{{}}
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		next := make([][]uuid.UUID, 0, len(combinations)*len(group))
		for _, combo := range combinations {
			for _, id := range group {
				extended := make([]uuid.UUID, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, id))
			}
		}
		combinations = next
	}

	if len(combinations) == 1 && len(combinations[0]) == 0 {
		return [][]uuid.UUID{}
	}
	return combinations
}

// GenerateStocks seeds stock combinations for a product from the cartesian
// product of its variation options. Combinations that already exist are
// skipped. A product without any variation options gets a single plain stock
// row carrying the product's own price and quantity.
func (s *StockService) GenerateStocks(tenantID string, productID uuid.UUID, req *models.GenerateStocksRequest) ([]*models.VariationStock, error) {
	product, err := s.products.GetProductByID(tenantID, productID, false)
	if err != nil {
		return nil, err
	}

	quantity := 0
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	threshold := models.DefaultLowStockThreshold
	if req.LowStockThreshold != nil {
		threshold = *req.LowStockThreshold
	}
	basePrice := product.EffectivePrice()
	if req.Price != nil {
		basePrice = *req.Price
	}

	groups := make([][]uuid.UUID, 0, len(product.Variations))
	optionPrice := make(map[uuid.UUID]decimal.Decimal)
	for _, variation := range product.Variations {
		options := variation.Options
		if len(options) > maxOptionsPerVariation {
			options = options[:maxOptionsPerVariation]
		}
		if len(options) == 0 {
			continue
		}
		group := make([]uuid.UUID, 0, len(options))
		for _, option := range options {
			group = append(group, option.ID)
			optionPrice[option.ID] = option.AdditionalPrice
		}
		groups = append(groups, group)
	}

	optionSets := CartesianOptionIDs(groups)
	if len(optionSets) > maxCombinationsPerProduct {
		optionSets = optionSets[:maxCombinationsPerProduct]
	}

	if len(optionSets) == 0 {
		return s.generateSimpleStock(tenantID, product, basePrice, threshold)
	}

	stocks := make([]*models.VariationStock, 0, len(optionSets))
	for i, optionSet := range optionSets {
		price := basePrice
		for _, optionID := range optionSet {
			price = price.Add(optionPrice[optionID])
		}
		stocks = append(stocks, &models.VariationStock{
			SKU:               fmt.Sprintf("%s-%d", product.SKU, i+1),
			Price:             price,
			Quantity:          quantity,
			LowStockThreshold: threshold,
		})
	}

	created, err := s.stocks.CreateStocksBatch(tenantID, productID, stocks, optionSets)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id":  tenantID,
		"product_id": productID,
		"requested":  len(optionSets),
		"created":    len(created),
	}).Info("Stock combinations generated")

	return created, nil
}

// generateSimpleStock creates the single no-option stock row for products
// without variations, unless the product already has stock rows.
func (s *StockService) generateSimpleStock(tenantID string, product *models.Product, price decimal.Decimal, threshold int) ([]*models.VariationStock, error) {
	existing, err := s.stocks.GetStocksForExport(tenantID, &product.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return []*models.VariationStock{}, nil
	}

	stock := &models.VariationStock{
		SKU:               fmt.Sprintf("%s-DEFAULT", product.SKU),
		Price:             price,
		Quantity:          product.StockQuantity,
		LowStockThreshold: threshold,
	}
	created, err := s.stocks.CreateStocksBatch(tenantID, product.ID, []*models.VariationStock{stock}, [][]uuid.UUID{{}})
	if err != nil {
		return nil, err
	}
	return created, nil
}
