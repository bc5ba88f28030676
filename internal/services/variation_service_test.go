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

func TestCreateVariation_Success(t *testing.T) {
	tenantID := "tenant-123"
	productID := uuid.New()

	mockVariations := new(MockVariationsRepository)
	mockProducts := new(MockProductReader)
	service := &VariationService{variations: mockVariations, products: mockProducts, logger: testLogger()}

	mockProducts.On("GetProductByID", tenantID, productID, false).
		Return(&models.Product{ID: productID, Name: "T-Shirt"}, nil)

	var created *models.Variation
	mockVariations.On("CreateVariation", tenantID, mock.AnythingOfType("*models.Variation")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Variation)
		}).
		Return(nil)
	mockVariations.On("GetVariationByID", tenantID, mock.Anything).
		Return(&models.Variation{Name: "Size"}, nil)

	req := &models.CreateVariationRequest{
		ProductID: productID.String(),
		Name:      "Size",
	}

	variation, err := service.CreateVariation(tenantID, req)

	assert.NoError(t, err)
	assert.NotNil(t, variation)
	assert.Equal(t, "Size", created.Name)
	assert.Equal(t, "select", created.Type)
	mockVariations.AssertExpectations(t)
}

func TestCreateVariation_ProductNotFound(t *testing.T) {
	tenantID := "tenant-123"
	productID := uuid.New()

	mockVariations := new(MockVariationsRepository)
	mockProducts := new(MockProductReader)
	service := &VariationService{variations: mockVariations, products: mockProducts, logger: testLogger()}

	mockProducts.On("GetProductByID", tenantID, productID, false).Return(nil, repository.ErrNotFound)

	req := &models.CreateVariationRequest{
		ProductID: productID.String(),
		Name:      "Size",
	}

	variation, err := service.CreateVariation(tenantID, req)

	assert.Nil(t, variation)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	mockVariations.AssertNotCalled(t, "CreateVariation", mock.Anything, mock.Anything)
}

func TestCreateOption_DefaultFlagAndPrice(t *testing.T) {
	tenantID := "tenant-123"
	variationID := uuid.New()
	isDefault := true
	surcharge := decimal.NewFromFloat(1.25)

	mockVariations := new(MockVariationsRepository)
	service := &VariationService{variations: mockVariations, logger: testLogger()}

	var created *models.VariationOption
	mockVariations.On("CreateOption", tenantID, mock.AnythingOfType("*models.VariationOption")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.VariationOption)
		}).
		Return(nil)
	mockVariations.On("GetOptionByID", tenantID, mock.Anything).
		Return(&models.VariationOption{Name: "Large"}, nil)

	req := &models.CreateVariationOptionRequest{
		VariationID:     variationID.String(),
		Name:            "Large",
		Value:           "L",
		AdditionalPrice: &surcharge,
		IsDefault:       &isDefault,
	}

	option, err := service.CreateOption(tenantID, req)

	assert.NoError(t, err)
	assert.NotNil(t, option)
	assert.True(t, created.IsDefault)
	assert.True(t, created.AdditionalPrice.Equal(surcharge))
	mockVariations.AssertExpectations(t)
}

func TestCreateOption_ZeroSurchargeByDefault(t *testing.T) {
	tenantID := "tenant-123"
	variationID := uuid.New()

	mockVariations := new(MockVariationsRepository)
	service := &VariationService{variations: mockVariations, logger: testLogger()}

	var created *models.VariationOption
	mockVariations.On("CreateOption", tenantID, mock.AnythingOfType("*models.VariationOption")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.VariationOption)
		}).
		Return(nil)
	mockVariations.On("GetOptionByID", tenantID, mock.Anything).
		Return(&models.VariationOption{}, nil)

	req := &models.CreateVariationOptionRequest{
		VariationID: variationID.String(),
		Name:        "Small",
		Value:       "S",
	}

	_, err := service.CreateOption(tenantID, req)

	assert.NoError(t, err)
	assert.False(t, created.IsDefault)
	assert.True(t, created.AdditionalPrice.IsZero())
}

func TestCreateOption_ValueDefaultsToName(t *testing.T) {
	tenantID := "tenant-123"
	variationID := uuid.New()

	mockVariations := new(MockVariationsRepository)
	service := &VariationService{variations: mockVariations, logger: testLogger()}

	var created *models.VariationOption
	mockVariations.On("CreateOption", tenantID, mock.AnythingOfType("*models.VariationOption")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.VariationOption)
		}).
		Return(nil)
	mockVariations.On("GetOptionByID", tenantID, mock.Anything).
		Return(&models.VariationOption{Name: "Red", Value: "Red"}, nil)

	req := &models.CreateVariationOptionRequest{
		VariationID: variationID.String(),
		Name:        "Red",
	}

	_, err := service.CreateOption(tenantID, req)

	assert.NoError(t, err)
	assert.Equal(t, "Red", created.Value)
}

func TestCreateOption_ExplicitValueKept(t *testing.T) {
	tenantID := "tenant-123"
	variationID := uuid.New()

	mockVariations := new(MockVariationsRepository)
	service := &VariationService{variations: mockVariations, logger: testLogger()}

	var created *models.VariationOption
	mockVariations.On("CreateOption", tenantID, mock.AnythingOfType("*models.VariationOption")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.VariationOption)
		}).
		Return(nil)
	mockVariations.On("GetOptionByID", tenantID, mock.Anything).
		Return(&models.VariationOption{}, nil)

	req := &models.CreateVariationOptionRequest{
		VariationID: variationID.String(),
		Name:        "Size Large",
		Value:       "L",
	}

	_, err := service.CreateOption(tenantID, req)

	assert.NoError(t, err)
	assert.Equal(t, "L", created.Value)
}

func TestUpdateOption_PromotionToDefault(t *testing.T) {
	tenantID := "tenant-123"
	optionID := uuid.New()
	isDefault := true

	mockVariations := new(MockVariationsRepository)
	service := &VariationService{variations: mockVariations, logger: testLogger()}

	mockVariations.On("UpdateOption", tenantID, optionID, mock.MatchedBy(func(updates map[string]interface{}) bool {
		flag, ok := updates["is_default"].(bool)
		return ok && flag
	})).Return(&models.VariationOption{ID: optionID, IsDefault: true}, nil)

	req := &models.UpdateVariationOptionRequest{IsDefault: &isDefault}

	option, err := service.UpdateOption(tenantID, optionID, req)

	assert.NoError(t, err)
	assert.True(t, option.IsDefault)
	mockVariations.AssertExpectations(t)
}

func TestDeleteVariation_BlockedByOptions(t *testing.T) {
	tenantID := "tenant-123"
	variationID := uuid.New()

	mockVariations := new(MockVariationsRepository)
	service := &VariationService{variations: mockVariations, logger: testLogger()}

	mockVariations.On("DeleteVariation", tenantID, variationID).
		Return(repository.ErrVariationHasOptions)

	err := service.DeleteVariation(tenantID, variationID)

	assert.ErrorIs(t, err, repository.ErrVariationHasOptions)
}

func TestDeleteOption_BlockedByStockReferences(t *testing.T) {
	tenantID := "tenant-123"
	optionID := uuid.New()

	mockVariations := new(MockVariationsRepository)
	service := &VariationService{variations: mockVariations, logger: testLogger()}

	mockVariations.On("DeleteOption", tenantID, optionID).
		Return(repository.ErrOptionInUse)

	err := service.DeleteOption(tenantID, optionID)

	assert.ErrorIs(t, err, repository.ErrOptionInUse)
}
