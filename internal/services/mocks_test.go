package services

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// testLogger returns a logger that discards output
func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// MockStocksRepository is a mock implementation of StocksRepositoryInterface
type MockStocksRepository struct {
	mock.Mock
}

var _ repository.StocksRepositoryInterface = (*MockStocksRepository)(nil)

func (m *MockStocksRepository) CreateStock(tenantID string, stock *models.VariationStock, optionIDs []uuid.UUID) error {
	args := m.Called(tenantID, stock, optionIDs)
	if args.Error(0) == nil && stock.ID == uuid.Nil {
		stock.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockStocksRepository) GetStocks(tenantID string, filter *models.StockFilter) ([]models.VariationStock, int64, error) {
	args := m.Called(tenantID, filter)
	return args.Get(0).([]models.VariationStock), args.Get(1).(int64), args.Error(2)
}

func (m *MockStocksRepository) GetStockByID(tenantID string, stockID uuid.UUID) (*models.VariationStock, error) {
	args := m.Called(tenantID, stockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VariationStock), args.Error(1)
}

func (m *MockStocksRepository) UpdateStock(tenantID string, stockID uuid.UUID, updates map[string]interface{}, optionIDs []uuid.UUID) (*models.VariationStock, error) {
	args := m.Called(tenantID, stockID, updates, optionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VariationStock), args.Error(1)
}

func (m *MockStocksRepository) AdjustQuantity(tenantID string, stockID uuid.UUID, op models.QuantityOperation, amount int) (*models.VariationStock, error) {
	args := m.Called(tenantID, stockID, op, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VariationStock), args.Error(1)
}

func (m *MockStocksRepository) DeleteStock(tenantID string, stockID uuid.UUID) error {
	args := m.Called(tenantID, stockID)
	return args.Error(0)
}

func (m *MockStocksRepository) CreateStocksBatch(tenantID string, productID uuid.UUID, stocks []*models.VariationStock, optionSets [][]uuid.UUID) ([]*models.VariationStock, error) {
	args := m.Called(tenantID, productID, stocks, optionSets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.VariationStock), args.Error(1)
}

func (m *MockStocksRepository) GetStocksForExport(tenantID string, productID *uuid.UUID) ([]models.VariationStock, error) {
	args := m.Called(tenantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VariationStock), args.Error(1)
}

// MockVariationsRepository is a mock implementation of VariationsRepositoryInterface
type MockVariationsRepository struct {
	mock.Mock
}

var _ repository.VariationsRepositoryInterface = (*MockVariationsRepository)(nil)

func (m *MockVariationsRepository) CreateVariation(tenantID string, variation *models.Variation) error {
	args := m.Called(tenantID, variation)
	if args.Error(0) == nil && variation.ID == uuid.Nil {
		variation.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockVariationsRepository) GetVariations(tenantID string, productID *uuid.UUID, page, limit int) ([]models.Variation, int64, error) {
	args := m.Called(tenantID, productID, page, limit)
	return args.Get(0).([]models.Variation), args.Get(1).(int64), args.Error(2)
}

func (m *MockVariationsRepository) GetVariationByID(tenantID string, variationID uuid.UUID) (*models.Variation, error) {
	args := m.Called(tenantID, variationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Variation), args.Error(1)
}

func (m *MockVariationsRepository) UpdateVariation(tenantID string, variationID uuid.UUID, updates map[string]interface{}) (*models.Variation, error) {
	args := m.Called(tenantID, variationID, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Variation), args.Error(1)
}

func (m *MockVariationsRepository) DeleteVariation(tenantID string, variationID uuid.UUID) error {
	args := m.Called(tenantID, variationID)
	return args.Error(0)
}

func (m *MockVariationsRepository) CreateOption(tenantID string, option *models.VariationOption) error {
	args := m.Called(tenantID, option)
	if args.Error(0) == nil && option.ID == uuid.Nil {
		option.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockVariationsRepository) GetOptions(tenantID string, variationID *uuid.UUID, page, limit int) ([]models.VariationOption, int64, error) {
	args := m.Called(tenantID, variationID, page, limit)
	return args.Get(0).([]models.VariationOption), args.Get(1).(int64), args.Error(2)
}

func (m *MockVariationsRepository) GetOptionByID(tenantID string, optionID uuid.UUID) (*models.VariationOption, error) {
	args := m.Called(tenantID, optionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VariationOption), args.Error(1)
}

func (m *MockVariationsRepository) UpdateOption(tenantID string, optionID uuid.UUID, updates map[string]interface{}) (*models.VariationOption, error) {
	args := m.Called(tenantID, optionID, updates)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VariationOption), args.Error(1)
}

func (m *MockVariationsRepository) DeleteOption(tenantID string, optionID uuid.UUID) error {
	args := m.Called(tenantID, optionID)
	return args.Error(0)
}

func (m *MockVariationsRepository) GetProductOptionIDs(tenantID string, productID uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	args := m.Called(tenantID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]uuid.UUID), args.Error(1)
}

// MockProductReader is a mock implementation of ProductReader
type MockProductReader struct {
	mock.Mock
}

var _ repository.ProductReader = (*MockProductReader)(nil)

func (m *MockProductReader) GetProductByID(tenantID string, productID uuid.UUID, includeStocks bool) (*models.Product, error) {
	args := m.Called(tenantID, productID, includeStocks)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
