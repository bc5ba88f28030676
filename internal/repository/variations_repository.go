package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// VariationsRepository handles variations and their options.
type VariationsRepository struct {
	db *gorm.DB
}

func NewVariationsRepository(db *gorm.DB) *VariationsRepository {
	return &VariationsRepository{db: db}
}

// Variation Operations

// CreateVariation creates a variation under an existing product
func (r *VariationsRepository) CreateVariation(tenantID string, variation *models.Variation) error {
	var count int64
	if err := r.db.Model(&models.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, variation.ProductID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: product %s", ErrInvalidReference, variation.ProductID)
	}

	variation.TenantID = tenantID
	variation.CreatedAt = time.Now()
	variation.UpdatedAt = time.Now()
	return r.db.Create(variation).Error
}

// GetVariations retrieves variations, optionally scoped to a product
func (r *VariationsRepository) GetVariations(tenantID string, productID *uuid.UUID, page, limit int) ([]models.Variation, int64, error) {
	var variations []models.Variation
	var total int64

	query := r.db.Model(&models.Variation{}).Where("tenant_id = ?", tenantID)
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("variation_options.display_order ASC")
	}).Order("display_order ASC, created_at ASC").
		Offset(offset).Limit(limit).Find(&variations).Error
	if err != nil {
		return nil, 0, err
	}
	return variations, total, nil
}

// GetVariationByID retrieves a variation with its options
func (r *VariationsRepository) GetVariationByID(tenantID string, variationID uuid.UUID) (*models.Variation, error) {
	var variation models.Variation
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, variationID).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("variation_options.display_order ASC")
		}).
		First(&variation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &variation, nil
}

// UpdateVariation applies field updates to a variation
func (r *VariationsRepository) UpdateVariation(tenantID string, variationID uuid.UUID, updates map[string]interface{}) (*models.Variation, error) {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Variation{}).
		Where("tenant_id = ? AND id = ?", tenantID, variationID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.GetVariationByID(tenantID, variationID)
}

// DeleteVariation soft deletes a variation. A variation that still has
// options cannot be deleted.
func (r *VariationsRepository) DeleteVariation(tenantID string, variationID uuid.UUID) error {
	var optionCount int64
	if err := r.db.Model(&models.VariationOption{}).
		Where("tenant_id = ? AND variation_id = ?", tenantID, variationID).
		Count(&optionCount).Error; err != nil {
		return err
	}
	if optionCount > 0 {
		return fmt.Errorf("%w: %d options", ErrVariationHasOptions, optionCount)
	}

	result := r.db.Where("tenant_id = ? AND id = ?", tenantID, variationID).Delete(&models.Variation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Variation Option Operations

// CreateOption creates an option under an existing variation. When the new
// option is flagged as default, sibling defaults are cleared in the same
// transaction so the variation never carries two defaults.
func (r *VariationsRepository) CreateOption(tenantID string, option *models.VariationOption) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Variation{}).
			Where("tenant_id = ? AND id = ?", tenantID, option.VariationID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return fmt.Errorf("%w: variation %s", ErrInvalidReference, option.VariationID)
		}

		option.TenantID = tenantID
		option.CreatedAt = time.Now()
		option.UpdatedAt = time.Now()
		if option.ID == uuid.Nil {
			option.ID = uuid.New()
		}

		if option.IsDefault {
			if err := tx.Model(&models.VariationOption{}).
				Where("tenant_id = ? AND variation_id = ? AND is_default = ?", tenantID, option.VariationID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		return tx.Create(option).Error
	})
}

// GetOptions retrieves options, optionally scoped to a variation
func (r *VariationsRepository) GetOptions(tenantID string, variationID *uuid.UUID, page, limit int) ([]models.VariationOption, int64, error) {
	var options []models.VariationOption
	var total int64

	query := r.db.Model(&models.VariationOption{}).Where("tenant_id = ?", tenantID)
	if variationID != nil {
		query = query.Where("variation_id = ?", *variationID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("display_order ASC, created_at ASC").Offset(offset).Limit(limit).Find(&options).Error; err != nil {
		return nil, 0, err
	}
	return options, total, nil
}

// GetOptionByID retrieves an option by ID
func (r *VariationsRepository) GetOptionByID(tenantID string, optionID uuid.UUID) (*models.VariationOption, error) {
	var option models.VariationOption
	if err := r.db.Where("tenant_id = ? AND id = ?", tenantID, optionID).First(&option).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &option, nil
}

// UpdateOption applies field updates to an option. Promoting an option to
// default demotes its siblings inside the same transaction.
func (r *VariationsRepository) UpdateOption(tenantID string, optionID uuid.UUID, updates map[string]interface{}) (*models.VariationOption, error) {
	updates["updated_at"] = time.Now()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var option models.VariationOption
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, optionID).First(&option).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if isDefault, ok := updates["is_default"].(bool); ok && isDefault {
			if err := tx.Model(&models.VariationOption{}).
				Where("tenant_id = ? AND variation_id = ? AND id <> ? AND is_default = ?",
					tenantID, option.VariationID, optionID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}

		return tx.Model(&models.VariationOption{}).
			Where("tenant_id = ? AND id = ?", tenantID, optionID).
			Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetOptionByID(tenantID, optionID)
}

// DeleteOption soft deletes an option. Options referenced by stock
// combinations cannot be deleted.
func (r *VariationsRepository) DeleteOption(tenantID string, optionID uuid.UUID) error {
	var refCount int64
	if err := r.db.Table("variation_stock_options").
		Joins("JOIN variation_stocks ON variation_stocks.id = variation_stock_options.variation_stock_id").
		Where("variation_stock_options.variation_option_id = ? AND variation_stocks.tenant_id = ? AND variation_stocks.deleted_at IS NULL",
			optionID, tenantID).
		Count(&refCount).Error; err != nil {
		return err
	}
	if refCount > 0 {
		return fmt.Errorf("%w: %d stock combinations", ErrOptionInUse, refCount)
	}

	result := r.db.Where("tenant_id = ? AND id = ?", tenantID, optionID).Delete(&models.VariationOption{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProductOptionIDs returns the IDs of all options belonging to any
// variation of the product. Used to validate that stock combinations only
// reference the product's own options.
func (r *VariationsRepository) GetProductOptionIDs(tenantID string, productID uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	type row struct {
		ID          uuid.UUID
		VariationID uuid.UUID
	}
	var rows []row
	err := r.db.Model(&models.VariationOption{}).
		Select("variation_options.id, variation_options.variation_id").
		Joins("JOIN variations ON variations.id = variation_options.variation_id").
		Where("variations.tenant_id = ? AND variations.product_id = ? AND variations.deleted_at IS NULL",
			tenantID, productID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	optionVariation := make(map[uuid.UUID]uuid.UUID, len(rows))
	for _, r := range rows {
		optionVariation[r.ID] = r.VariationID
	}
	return optionVariation, nil
}
