package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"catalog-service/internal/models"
)

func TestCartesianOptionIDs_TwoByTwo(t *testing.T) {
	a1, a2 := uuid.New(), uuid.New()
	b1, b2 := uuid.New(), uuid.New()

	combos := CartesianOptionIDs([][]uuid.UUID{{a1, a2}, {b1, b2}})

	assert.Len(t, combos, 4)
	assert.Equal(t, []uuid.UUID{a1, b1}, combos[0])
	assert.Equal(t, []uuid.UUID{a1, b2}, combos[1])
	assert.Equal(t, []uuid.UUID{a2, b1}, combos[2])
	assert.Equal(t, []uuid.UUID{a2, b2}, combos[3])
}

func TestCartesianOptionIDs_EmptyInput(t *testing.T) {
	assert.Empty(t, CartesianOptionIDs(nil))
	assert.Empty(t, CartesianOptionIDs([][]uuid.UUID{}))
}

func TestCartesianOptionIDs_EmptyGroupSkipped(t *testing.T) {
	a1, a2 := uuid.New(), uuid.New()

	combos := CartesianOptionIDs([][]uuid.UUID{{}, {a1, a2}, {}})

	assert.Len(t, combos, 2)
	assert.Equal(t, []uuid.UUID{a1}, combos[0])
	assert.Equal(t, []uuid.UUID{a2}, combos[1])
}

func TestCartesianOptionIDs_AllGroupsEmpty(t *testing.T) {
	assert.Empty(t, CartesianOptionIDs([][]uuid.UUID{{}, {}}))
}

func TestCartesianOptionIDs_SingleGroup(t *testing.T) {
	a1, a2, a3 := uuid.New(), uuid.New(), uuid.New()

	combos := CartesianOptionIDs([][]uuid.UUID{{a1, a2, a3}})

	assert.Len(t, combos, 3)
	for i, id := range []uuid.UUID{a1, a2, a3} {
		assert.Equal(t, []uuid.UUID{id}, combos[i])
	}
}

// buildWideProduct returns a product with one variation of four options and
// one of three, enough to trip both generation caps.
func buildWideProduct() *models.Product {
	productID := uuid.New()
	sizeID := uuid.New()
	colorID := uuid.New()

	sizes := make([]*models.VariationOption, 4)
	for i := range sizes {
		sizes[i] = &models.VariationOption{
			ID:          uuid.New(),
			VariationID: sizeID,
			Name:        fmt.Sprintf("Size %d", i),
			Value:       fmt.Sprintf("s%d", i),
		}
	}
	colors := make([]*models.VariationOption, 3)
	for i := range colors {
		colors[i] = &models.VariationOption{
			ID:          uuid.New(),
			VariationID: colorID,
			Name:        fmt.Sprintf("Color %d", i),
			Value:       fmt.Sprintf("c%d", i),
		}
	}

	return &models.Product{
		ID:            productID,
		SKU:           "WIDE",
		Name:          "Wide Product",
		Price:         decimal.NewFromInt(10),
		StockQuantity: 42,
		Variations: []*models.Variation{
			{ID: sizeID, ProductID: productID, Name: "Size", Options: sizes},
			{ID: colorID, ProductID: productID, Name: "Color", Options: colors},
		},
	}
}

func TestGenerateStocks_CapsOptionsAndCombinations(t *testing.T) {
	tenantID := "tenant-123"
	product := buildWideProduct()

	mockStocks := new(MockStocksRepository)
	mockProducts := new(MockProductReader)
	service := &StockService{stocks: mockStocks, products: mockProducts, logger: testLogger()}

	mockProducts.On("GetProductByID", tenantID, product.ID, false).Return(product, nil)

	var capturedSets [][]uuid.UUID
	var capturedStocks []*models.VariationStock
	mockStocks.On("CreateStocksBatch", tenantID, product.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedStocks = args.Get(2).([]*models.VariationStock)
			capturedSets = args.Get(3).([][]uuid.UUID)
		}).
		Return([]*models.VariationStock{}, nil)

	_, err := service.GenerateStocks(tenantID, product.ID, &models.GenerateStocksRequest{})

	assert.NoError(t, err)
	// 3 capped sizes x 3 colors = 9, capped to 8 combinations
	assert.Len(t, capturedSets, 8)
	assert.Len(t, capturedStocks, 8)
	for _, set := range capturedSets {
		assert.Len(t, set, 2)
	}
	assert.Equal(t, "WIDE-1", capturedStocks[0].SKU)
	assert.Equal(t, "WIDE-8", capturedStocks[7].SKU)
	mockStocks.AssertExpectations(t)
}

func TestGenerateStocks_PriceAccumulatesOptionSurcharges(t *testing.T) {
	tenantID := "tenant-123"
	productID := uuid.New()
	variationID := uuid.New()

	surcharge := decimal.NewFromFloat(2.50)
	option := &models.VariationOption{
		ID:              uuid.New(),
		VariationID:     variationID,
		Name:            "Large",
		Value:           "L",
		AdditionalPrice: surcharge,
	}
	product := &models.Product{
		ID:    productID,
		SKU:   "MUG",
		Name:  "Mug",
		Price: decimal.NewFromInt(8),
		Variations: []*models.Variation{
			{ID: variationID, ProductID: productID, Name: "Size", Options: []*models.VariationOption{option}},
		},
	}

	mockStocks := new(MockStocksRepository)
	mockProducts := new(MockProductReader)
	service := &StockService{stocks: mockStocks, products: mockProducts, logger: testLogger()}

	mockProducts.On("GetProductByID", tenantID, productID, false).Return(product, nil)

	var capturedStocks []*models.VariationStock
	mockStocks.On("CreateStocksBatch", tenantID, productID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedStocks = args.Get(2).([]*models.VariationStock)
		}).
		Return([]*models.VariationStock{}, nil)

	_, err := service.GenerateStocks(tenantID, productID, &models.GenerateStocksRequest{})

	assert.NoError(t, err)
	assert.Len(t, capturedStocks, 1)
	assert.True(t, capturedStocks[0].Price.Equal(decimal.NewFromFloat(10.50)))
}

func TestGenerateStocks_SimpleStockFallback(t *testing.T) {
	tenantID := "tenant-123"
	product := &models.Product{
		ID:            uuid.New(),
		SKU:           "PLAIN",
		Name:          "Plain Product",
		Price:         decimal.NewFromInt(5),
		StockQuantity: 17,
	}

	mockStocks := new(MockStocksRepository)
	mockProducts := new(MockProductReader)
	service := &StockService{stocks: mockStocks, products: mockProducts, logger: testLogger()}

	mockProducts.On("GetProductByID", tenantID, product.ID, false).Return(product, nil)
	mockStocks.On("GetStocksForExport", tenantID, &product.ID).Return([]models.VariationStock{}, nil)

	var capturedStocks []*models.VariationStock
	mockStocks.On("CreateStocksBatch", tenantID, product.ID, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			capturedStocks = args.Get(2).([]*models.VariationStock)
		}).
		Return([]*models.VariationStock{{SKU: "PLAIN-DEFAULT"}}, nil)

	created, err := service.GenerateStocks(tenantID, product.ID, &models.GenerateStocksRequest{})

	assert.NoError(t, err)
	assert.Len(t, created, 1)
	assert.Len(t, capturedStocks, 1)
	assert.Equal(t, "PLAIN-DEFAULT", capturedStocks[0].SKU)
	assert.Equal(t, 17, capturedStocks[0].Quantity)
	mockStocks.AssertExpectations(t)
}

func TestGenerateStocks_SimpleStockSkippedWhenStocksExist(t *testing.T) {
	tenantID := "tenant-123"
	product := &models.Product{
		ID:    uuid.New(),
		SKU:   "PLAIN",
		Name:  "Plain Product",
		Price: decimal.NewFromInt(5),
	}

	mockStocks := new(MockStocksRepository)
	mockProducts := new(MockProductReader)
	service := &StockService{stocks: mockStocks, products: mockProducts, logger: testLogger()}

	mockProducts.On("GetProductByID", tenantID, product.ID, false).Return(product, nil)
	mockStocks.On("GetStocksForExport", tenantID, &product.ID).
		Return([]models.VariationStock{{SKU: "PLAIN-DEFAULT"}}, nil)

	created, err := service.GenerateStocks(tenantID, product.ID, &models.GenerateStocksRequest{})

	assert.NoError(t, err)
	assert.Empty(t, created)
	mockStocks.AssertNotCalled(t, "CreateStocksBatch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
