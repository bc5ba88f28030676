package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// Helper to build a product with two variations of two options each
func buildTestProduct() (*models.Product, map[uuid.UUID]uuid.UUID) {
	productID := uuid.New()
	sizeID := uuid.New()
	colorID := uuid.New()

	small := &models.VariationOption{ID: uuid.New(), VariationID: sizeID, Name: "Small", Value: "S"}
	large := &models.VariationOption{ID: uuid.New(), VariationID: sizeID, Name: "Large", Value: "L"}
	red := &models.VariationOption{ID: uuid.New(), VariationID: colorID, Name: "Red", Value: "red"}
	blue := &models.VariationOption{ID: uuid.New(), VariationID: colorID, Name: "Blue", Value: "blue"}

	product := &models.Product{
		ID:    productID,
		SKU:   "TSHIRT",
		Name:  "T-Shirt",
		Price: decimal.NewFromInt(20),
		Variations: []*models.Variation{
			{ID: sizeID, ProductID: productID, Name: "Size", Options: []*models.VariationOption{small, large}},
			{ID: colorID, ProductID: productID, Name: "Color", Options: []*models.VariationOption{red, blue}},
		},
	}

	membership := map[uuid.UUID]uuid.UUID{
		small.ID: sizeID,
		large.ID: sizeID,
		red.ID:   colorID,
		blue.ID:  colorID,
	}
	return product, membership
}

func TestCreateStock_DefaultsApplied(t *testing.T) {
	tenantID := "tenant-123"
	product, membership := buildTestProduct()
	sizeOption := product.Variations[0].Options[0]
	colorOption := product.Variations[1].Options[0]

	mockStocks := new(MockStocksRepository)
	mockVariations := new(MockVariationsRepository)
	mockProducts := new(MockProductReader)
	service := &StockService{stocks: mockStocks, variations: mockVariations, products: mockProducts, logger: testLogger()}

	mockProducts.On("GetProductByID", tenantID, product.ID, false).Return(product, nil)
	mockVariations.On("GetProductOptionIDs", tenantID, product.ID).Return(membership, nil)

	var created *models.VariationStock
	mockStocks.On("CreateStock", tenantID, mock.AnythingOfType("*models.VariationStock"), mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.VariationStock)
		}).
		Return(nil)
	mockStocks.On("GetStockByID", tenantID, mock.Anything).
		Return(&models.VariationStock{SKU: "TSHIRT-S-RED"}, nil)

	req := &models.CreateStockRequest{
		ProductID:          product.ID.String(),
		VariationOptionIDs: []string{sizeOption.ID.String(), colorOption.ID.String()},
		SKU:                "TSHIRT-S-RED",
	}

	stock, err := service.CreateStock(tenantID, req)

	assert.NoError(t, err)
	assert.NotNil(t, stock)
	assert.NotNil(t, created)
	assert.Equal(t, 0, created.Quantity)
	assert.Equal(t, models.DefaultLowStockThreshold, created.LowStockThreshold)
	assert.True(t, created.Price.Equal(decimal.NewFromInt(20)), "price should fall back to product price")
	mockStocks.AssertExpectations(t)
	mockVariations.AssertExpectations(t)
}

func TestCreateStock_SalePriceFallback(t *testing.T) {
	tenantID := "tenant-123"
	product, membership := buildTestProduct()
	salePrice := decimal.NewFromInt(15)
	product.SalePrice = &salePrice
	option := product.Variations[0].Options[0]

	mockStocks := new(MockStocksRepository)
	mockVariations := new(MockVariationsRepository)
	mockProducts := new(MockProductReader)
	service := &StockService{stocks: mockStocks, variations: mockVariations, products: mockProducts, logger: testLogger()}

	mockProducts.On("GetProductByID", tenantID, product.ID, false).Return(product, nil)
	mockVariations.On("GetProductOptionIDs", tenantID, product.ID).Return(membership, nil)

	var created *models.VariationStock
	mockStocks.On("CreateStock", tenantID, mock.AnythingOfType("*models.VariationStock"), mock.Anything).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.VariationStock)
		}).
		Return(nil)
	mockStocks.On("GetStockByID", tenantID, mock.Anything).
		Return(&models.VariationStock{}, nil)

	req := &models.CreateStockRequest{
		ProductID:          product.ID.String(),
		VariationOptionIDs: []string{option.ID.String()},
		SKU:                "TSHIRT-S",
	}

	_, err := service.CreateStock(tenantID, req)

	assert.NoError(t, err)
	assert.True(t, created.Price.Equal(salePrice), "sale price should win over list price")
}

func TestCreateStock_OptionNotOfProduct(t *testing.T) {
	tenantID := "tenant-123"
	product, membership := buildTestProduct()
	foreignOption := uuid.New()

	mockStocks := new(MockStocksRepository)
	mockVariations := new(MockVariationsRepository)
	mockProducts := new(MockProductReader)
	service := &StockService{stocks: mockStocks, variations: mockVariations, products: mockProducts, logger: testLogger()}

	mockProducts.On("GetProductByID", tenantID, product.ID, false).Return(product, nil)
	mockVariations.On("GetProductOptionIDs", tenantID, product.ID).Return(membership, nil)

	req := &models.CreateStockRequest{
		ProductID:          product.ID.String(),
		VariationOptionIDs: []string{foreignOption.String()},
		SKU:                "TSHIRT-X",
	}

	stock, err := service.CreateStock(tenantID, req)

	assert.Nil(t, stock)
	assert.ErrorIs(t, err, repository.ErrOptionNotOfProduct)
	mockStocks.AssertNotCalled(t, "CreateStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateStock_TwoOptionsFromSameVariation(t *testing.T) {
	tenantID := "tenant-123"
	product, membership := buildTestProduct()
	small := product.Variations[0].Options[0]
	large := product.Variations[0].Options[1]

	mockStocks := new(MockStocksRepository)
	mockVariations := new(MockVariationsRepository)
	mockProducts := new(MockProductReader)
	service := &StockService{stocks: mockStocks, variations: mockVariations, products: mockProducts, logger: testLogger()}

	mockProducts.On("GetProductByID", tenantID, product.ID, false).Return(product, nil)
	mockVariations.On("GetProductOptionIDs", tenantID, product.ID).Return(membership, nil)

	req := &models.CreateStockRequest{
		ProductID:          product.ID.String(),
		VariationOptionIDs: []string{small.ID.String(), large.ID.String()},
		SKU:                "TSHIRT-S-L",
	}

	stock, err := service.CreateStock(tenantID, req)

	assert.Nil(t, stock)
	assert.ErrorIs(t, err, repository.ErrOptionNotOfProduct)
	mockStocks.AssertNotCalled(t, "CreateStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateStock_DuplicateOptionID(t *testing.T) {
	tenantID := "tenant-123"
	product, _ := buildTestProduct()
	option := product.Variations[0].Options[0]

	mockStocks := new(MockStocksRepository)
	mockVariations := new(MockVariationsRepository)
	mockProducts := new(MockProductReader)
	service := &StockService{stocks: mockStocks, variations: mockVariations, products: mockProducts, logger: testLogger()}

	req := &models.CreateStockRequest{
		ProductID:          product.ID.String(),
		VariationOptionIDs: []string{option.ID.String(), option.ID.String()},
		SKU:                "TSHIRT-S-S",
	}

	stock, err := service.CreateStock(tenantID, req)

	assert.Nil(t, stock)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestCreateStock_ProductNotFound(t *testing.T) {
	tenantID := "tenant-123"
	productID := uuid.New()

	mockStocks := new(MockStocksRepository)
	mockVariations := new(MockVariationsRepository)
	mockProducts := new(MockProductReader)
	service := &StockService{stocks: mockStocks, variations: mockVariations, products: mockProducts, logger: testLogger()}

	mockProducts.On("GetProductByID", tenantID, productID, false).Return(nil, repository.ErrNotFound)

	req := &models.CreateStockRequest{
		ProductID:          productID.String(),
		VariationOptionIDs: []string{uuid.New().String()},
		SKU:                "GHOST",
	}

	stock, err := service.CreateStock(tenantID, req)

	assert.Nil(t, stock)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateQuantity_ReportsPreviousState(t *testing.T) {
	tenantID := "tenant-123"
	stockID := uuid.New()
	quantity := 3

	mockStocks := new(MockStocksRepository)
	service := &StockService{stocks: mockStocks, logger: testLogger()}

	mockStocks.On("GetStockByID", tenantID, stockID).
		Return(&models.VariationStock{ID: stockID, Quantity: 10, Status: models.StockStatusAvailable}, nil).Once()
	mockStocks.On("AdjustQuantity", tenantID, stockID, models.QuantityOpDecrement, 3).
		Return(&models.VariationStock{ID: stockID, Quantity: 7, Status: models.StockStatusAvailable}, nil)

	req := &models.UpdateStockQuantityRequest{
		Quantity:  &quantity,
		Operation: models.QuantityOpDecrement,
	}

	change, err := service.UpdateQuantity(tenantID, stockID, req)

	assert.NoError(t, err)
	assert.Equal(t, 10, change.PreviousQuantity)
	assert.Equal(t, 7, change.Stock.Quantity)
	mockStocks.AssertExpectations(t)
}

func TestUpdateQuantity_InsufficientStock(t *testing.T) {
	tenantID := "tenant-123"
	stockID := uuid.New()
	quantity := 50

	mockStocks := new(MockStocksRepository)
	service := &StockService{stocks: mockStocks, logger: testLogger()}

	mockStocks.On("GetStockByID", tenantID, stockID).
		Return(&models.VariationStock{ID: stockID, Quantity: 10}, nil)
	mockStocks.On("AdjustQuantity", tenantID, stockID, models.QuantityOpDecrement, 50).
		Return(nil, repository.ErrInsufficientStock)

	req := &models.UpdateStockQuantityRequest{
		Quantity:  &quantity,
		Operation: models.QuantityOpDecrement,
	}

	change, err := service.UpdateQuantity(tenantID, stockID, req)

	assert.Nil(t, change)
	assert.ErrorIs(t, err, repository.ErrInsufficientStock)
}

func TestUpdateStock_RevalidatesChangedOptions(t *testing.T) {
	tenantID := "tenant-123"
	product, membership := buildTestProduct()
	stockID := uuid.New()
	foreignOption := uuid.New()

	mockStocks := new(MockStocksRepository)
	mockVariations := new(MockVariationsRepository)
	service := &StockService{stocks: mockStocks, variations: mockVariations, logger: testLogger()}

	mockStocks.On("GetStockByID", tenantID, stockID).
		Return(&models.VariationStock{ID: stockID, ProductID: product.ID}, nil)
	mockVariations.On("GetProductOptionIDs", tenantID, product.ID).Return(membership, nil)

	req := &models.UpdateStockRequest{
		VariationOptionIDs: []string{foreignOption.String()},
	}

	stock, err := service.UpdateStock(tenantID, stockID, req)

	assert.Nil(t, stock)
	assert.ErrorIs(t, err, repository.ErrOptionNotOfProduct)
	mockStocks.AssertNotCalled(t, "UpdateStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestListStocks_PaginationDefaults(t *testing.T) {
	tenantID := "tenant-123"

	mockStocks := new(MockStocksRepository)
	service := &StockService{stocks: mockStocks, logger: testLogger()}

	mockStocks.On("GetStocks", tenantID, mock.MatchedBy(func(f *models.StockFilter) bool {
		return f.Page == 1 && f.Limit == 20
	})).Return([]models.VariationStock{}, int64(0), nil)

	_, _, err := service.ListStocks(tenantID, &models.StockFilter{Page: 0, Limit: 500})

	assert.NoError(t, err)
	mockStocks.AssertExpectations(t)
}
