package repository

import (
	"github.com/google/uuid"

	"catalog-service/internal/models"
)

// ProductReader is the product access surface the services depend on.
type ProductReader interface {
	GetProductByID(tenantID string, productID uuid.UUID, includeStocks bool) (*models.Product, error)
}

// VariationsRepositoryInterface is the variation access surface the services
// depend on.
type VariationsRepositoryInterface interface {
	CreateVariation(tenantID string, variation *models.Variation) error
	GetVariations(tenantID string, productID *uuid.UUID, page, limit int) ([]models.Variation, int64, error)
	GetVariationByID(tenantID string, variationID uuid.UUID) (*models.Variation, error)
	UpdateVariation(tenantID string, variationID uuid.UUID, updates map[string]interface{}) (*models.Variation, error)
	DeleteVariation(tenantID string, variationID uuid.UUID) error

	CreateOption(tenantID string, option *models.VariationOption) error
	GetOptions(tenantID string, variationID *uuid.UUID, page, limit int) ([]models.VariationOption, int64, error)
	GetOptionByID(tenantID string, optionID uuid.UUID) (*models.VariationOption, error)
	UpdateOption(tenantID string, optionID uuid.UUID, updates map[string]interface{}) (*models.VariationOption, error)
	DeleteOption(tenantID string, optionID uuid.UUID) error

	GetProductOptionIDs(tenantID string, productID uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}

// StocksRepositoryInterface is the stock access surface the services depend on.
type StocksRepositoryInterface interface {
	CreateStock(tenantID string, stock *models.VariationStock, optionIDs []uuid.UUID) error
	GetStocks(tenantID string, filter *models.StockFilter) ([]models.VariationStock, int64, error)
	GetStockByID(tenantID string, stockID uuid.UUID) (*models.VariationStock, error)
	UpdateStock(tenantID string, stockID uuid.UUID, updates map[string]interface{}, optionIDs []uuid.UUID) (*models.VariationStock, error)
	AdjustQuantity(tenantID string, stockID uuid.UUID, op models.QuantityOperation, amount int) (*models.VariationStock, error)
	DeleteStock(tenantID string, stockID uuid.UUID) error
	CreateStocksBatch(tenantID string, productID uuid.UUID, stocks []*models.VariationStock, optionSets [][]uuid.UUID) ([]*models.VariationStock, error)
	GetStocksForExport(tenantID string, productID *uuid.UUID) ([]models.VariationStock, error)
}

var (
	_ ProductReader                 = (*ProductsRepository)(nil)
	_ VariationsRepositoryInterface = (*VariationsRepository)(nil)
	_ StocksRepositoryInterface     = (*StocksRepository)(nil)
)
