package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// VariationService owns the rules around variations and their options:
// default uniqueness and deletion guards.
type VariationService struct {
	variations repository.VariationsRepositoryInterface
	products   repository.ProductReader
	logger     *logrus.Logger
}

func NewVariationService(
	variations repository.VariationsRepositoryInterface,
	products repository.ProductReader,
	logger *logrus.Logger,
) *VariationService {
	return &VariationService{
		variations: variations,
		products:   products,
		logger:     logger,
	}
}

// CreateVariation creates a variation for a product
func (s *VariationService) CreateVariation(tenantID string, req *models.CreateVariationRequest) (*models.Variation, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("invalid product id %q: %w", req.ProductID, err)
	}
	if _, err := s.products.GetProductByID(tenantID, productID, false); err != nil {
		return nil, err
	}

	variation := &models.Variation{
		ProductID:     productID,
		Name:          req.Name,
		Type:          "select",
		Configuration: req.Configuration,
	}
	if req.Type != nil {
		variation.Type = *req.Type
	}
	if req.IsRequired != nil {
		variation.IsRequired = *req.IsRequired
	}
	if req.DisplayOrder != nil {
		variation.DisplayOrder = *req.DisplayOrder
	}

	if err := s.variations.CreateVariation(tenantID, variation); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id":    tenantID,
		"product_id":   productID,
		"variation_id": variation.ID,
	}).Info("Variation created")

	return s.variations.GetVariationByID(tenantID, variation.ID)
}

// ListVariations retrieves variations, optionally scoped to a product
func (s *VariationService) ListVariations(tenantID string, productID *uuid.UUID, page, limit int) ([]models.Variation, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.variations.GetVariations(tenantID, productID, page, limit)
}

// GetVariation retrieves a variation with its options
func (s *VariationService) GetVariation(tenantID string, variationID uuid.UUID) (*models.Variation, error) {
	return s.variations.GetVariationByID(tenantID, variationID)
}

// UpdateVariation applies field updates to a variation
func (s *VariationService) UpdateVariation(tenantID string, variationID uuid.UUID, req *models.UpdateVariationRequest) (*models.Variation, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Type != nil {
		updates["type"] = *req.Type
	}
	if req.IsRequired != nil {
		updates["is_required"] = *req.IsRequired
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}
	if req.Configuration != nil {
		updates["configuration"] = *req.Configuration
	}
	return s.variations.UpdateVariation(tenantID, variationID, updates)
}

// DeleteVariation removes a variation. Variations that still carry options
// are rejected by the repository guard.
func (s *VariationService) DeleteVariation(tenantID string, variationID uuid.UUID) error {
	return s.variations.DeleteVariation(tenantID, variationID)
}

// CreateOption creates an option under a variation. A default flag on the new
// option demotes any existing default of the same variation.
func (s *VariationService) CreateOption(tenantID string, req *models.CreateVariationOptionRequest) (*models.VariationOption, error) {
	variationID, err := uuid.Parse(req.VariationID)
	if err != nil {
		return nil, fmt.Errorf("invalid variation id %q: %w", req.VariationID, err)
	}

	// A missing value falls back to the option name ("Red" -> "Red").
	value := req.Value
	if value == "" {
		value = req.Name
	}

	option := &models.VariationOption{
		VariationID:     variationID,
		Name:            req.Name,
		Value:           value,
		AdditionalPrice: decimal.Zero,
		Metadata:        req.Metadata,
	}
	if req.AdditionalPrice != nil {
		option.AdditionalPrice = *req.AdditionalPrice
	}
	if req.IsDefault != nil {
		option.IsDefault = *req.IsDefault
	}
	if req.DisplayOrder != nil {
		option.DisplayOrder = *req.DisplayOrder
	}

	if err := s.variations.CreateOption(tenantID, option); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"tenant_id":    tenantID,
		"variation_id": variationID,
		"option_id":    option.ID,
		"is_default":   option.IsDefault,
	}).Info("Variation option created")

	return s.variations.GetOptionByID(tenantID, option.ID)
}

// ListOptions retrieves options, optionally scoped to a variation
func (s *VariationService) ListOptions(tenantID string, variationID *uuid.UUID, page, limit int) ([]models.VariationOption, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.variations.GetOptions(tenantID, variationID, page, limit)
}

// GetOption retrieves an option by ID
func (s *VariationService) GetOption(tenantID string, optionID uuid.UUID) (*models.VariationOption, error) {
	return s.variations.GetOptionByID(tenantID, optionID)
}

// UpdateOption applies field updates to an option
func (s *VariationService) UpdateOption(tenantID string, optionID uuid.UUID, req *models.UpdateVariationOptionRequest) (*models.VariationOption, error) {
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Value != nil {
		updates["value"] = *req.Value
	}
	if req.AdditionalPrice != nil {
		updates["additional_price"] = *req.AdditionalPrice
	}
	if req.IsDefault != nil {
		updates["is_default"] = *req.IsDefault
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}
	if req.Metadata != nil {
		updates["metadata"] = *req.Metadata
	}
	return s.variations.UpdateOption(tenantID, optionID, updates)
}

// DeleteOption removes an option. Options referenced by stock combinations
// are rejected by the repository guard.
func (s *VariationService) DeleteOption(tenantID string, optionID uuid.UUID) error {
	return s.variations.DeleteOption(tenantID, optionID)
}
