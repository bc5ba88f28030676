package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// StocksRepository handles variation stock combinations.
type StocksRepository struct {
	db    *gorm.DB
	cache *cache.CacheLayer
}

func NewStocksRepository(db *gorm.DB, cacheLayer *cache.CacheLayer) *StocksRepository {
	return &StocksRepository{db: db, cache: cacheLayer}
}

func (r *StocksRepository) invalidateStockCaches(ctx context.Context, tenantID string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.DeletePattern(ctx, fmt.Sprintf("stocks:*:%s:*", tenantID))
	_ = r.cache.DeletePattern(ctx, fmt.Sprintf("product:slug:%s:*", tenantID))
}

// combinationKey builds an order-independent key for an option set.
func combinationKey(optionIDs []uuid.UUID) string {
	ids := make([]string, len(optionIDs))
	for i, id := range optionIDs {
		ids[i] = id.String()
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// validateOptionSet checks that every option belongs to one of the product's
// variations and that no two options come from the same variation.
func validateOptionSet(tx *gorm.DB, tenantID string, productID uuid.UUID, optionIDs []uuid.UUID) error {
	type row struct {
		ID          uuid.UUID
		VariationID uuid.UUID
	}
	var rows []row
	err := tx.Model(&models.VariationOption{}).
		Select("variation_options.id, variation_options.variation_id").
		Joins("JOIN variations ON variations.id = variation_options.variation_id").
		Where("variations.tenant_id = ? AND variations.product_id = ? AND variations.deleted_at IS NULL",
			tenantID, productID).
		Scan(&rows).Error
	if err != nil {
		return err
	}

	optionVariation := make(map[uuid.UUID]uuid.UUID, len(rows))
	for _, r := range rows {
		optionVariation[r.ID] = r.VariationID
	}

	seenVariations := make(map[uuid.UUID]uuid.UUID, len(optionIDs))
	for _, optionID := range optionIDs {
		variationID, ok := optionVariation[optionID]
		if !ok {
			return fmt.Errorf("%w: option %s", ErrOptionNotOfProduct, optionID)
		}
		if prev, dup := seenVariations[variationID]; dup {
			return fmt.Errorf("%w: options %s and %s belong to the same variation", ErrOptionNotOfProduct, prev, optionID)
		}
		seenVariations[variationID] = optionID
	}
	return nil
}

// optionValuesSnapshot builds the denormalized variation-name to option-value
// map stored on a stock row for display.
func optionValuesSnapshot(tx *gorm.DB, optionIDs []uuid.UUID) (models.JSON, error) {
	if len(optionIDs) == 0 {
		return nil, nil
	}
	type row struct {
		VariationName string
		OptionValue   string
	}
	var rows []row
	err := tx.Model(&models.VariationOption{}).
		Select("variations.name AS variation_name, variation_options.value AS option_value").
		Joins("JOIN variations ON variations.id = variation_options.variation_id").
		Where("variation_options.id IN ?", optionIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	values := make(models.JSON, len(rows))
	for _, r := range rows {
		values[r.VariationName] = r.OptionValue
	}
	return values, nil
}

// combinationExists checks whether another stock of the product already
// references exactly the same option set. An empty set matches stocks with
// no option rows, so repeated simple-stock generation stays idempotent.
func combinationExists(tx *gorm.DB, tenantID string, productID uuid.UUID, excludeStockID *uuid.UUID, optionIDs []uuid.UUID) (bool, error) {
	if len(optionIDs) == 0 {
		query := tx.Model(&models.VariationStock{}).
			Where("tenant_id = ? AND product_id = ?", tenantID, productID).
			Where("NOT EXISTS (SELECT 1 FROM variation_stock_options WHERE variation_stock_options.variation_stock_id = variation_stocks.id)")
		if excludeStockID != nil {
			query = query.Where("id <> ?", *excludeStockID)
		}
		var count int64
		if err := query.Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}

	type row struct {
		VariationStockID  uuid.UUID `gorm:"column:variation_stock_id"`
		VariationOptionID uuid.UUID `gorm:"column:variation_option_id"`
	}
	var rows []row
	query := tx.Table("variation_stock_options").
		Select("variation_stock_options.variation_stock_id, variation_stock_options.variation_option_id").
		Joins("JOIN variation_stocks ON variation_stocks.id = variation_stock_options.variation_stock_id").
		Where("variation_stocks.tenant_id = ? AND variation_stocks.product_id = ? AND variation_stocks.deleted_at IS NULL",
			tenantID, productID)
	if excludeStockID != nil {
		query = query.Where("variation_stocks.id <> ?", *excludeStockID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return false, err
	}

	sets := make(map[uuid.UUID][]uuid.UUID)
	for _, r := range rows {
		sets[r.VariationStockID] = append(sets[r.VariationStockID], r.VariationOptionID)
	}

	target := combinationKey(optionIDs)
	for _, ids := range sets {
		if combinationKey(ids) == target {
			return true, nil
		}
	}
	return false, nil
}

// CreateStock creates a stock combination after validating the option set
// against the owning product inside the insert transaction.
func (r *StocksRepository) CreateStock(tenantID string, stock *models.VariationStock, optionIDs []uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var productCount int64
		if err := tx.Model(&models.Product{}).
			Where("tenant_id = ? AND id = ?", tenantID, stock.ProductID).
			Count(&productCount).Error; err != nil {
			return err
		}
		if productCount == 0 {
			return fmt.Errorf("%w: product %s", ErrInvalidReference, stock.ProductID)
		}

		if err := validateOptionSet(tx, tenantID, stock.ProductID, optionIDs); err != nil {
			return err
		}

		exists, err := combinationExists(tx, tenantID, stock.ProductID, nil, optionIDs)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateOptions
		}

		stock.TenantID = tenantID
		stock.CreatedAt = time.Now()
		stock.UpdatedAt = time.Now()
		if stock.ID == uuid.Nil {
			stock.ID = uuid.New()
		}
		stock.Status = models.DeriveStockStatus(stock.Quantity, stock.LowStockThreshold)

		values, err := optionValuesSnapshot(tx, optionIDs)
		if err != nil {
			return err
		}
		if values != nil {
			stock.OptionValues = &values
		}

		if err := tx.Omit("Options").Create(stock).Error; err != nil {
			return wrapCreateError(err, "idx_variation_stocks_tenant_sku", "")
		}

		for _, optionID := range optionIDs {
			if err := tx.Exec(
				"INSERT INTO variation_stock_options (variation_stock_id, variation_option_id) VALUES (?, ?)",
				stock.ID, optionID,
			).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.invalidateStockCaches(context.Background(), tenantID)
	return nil
}

// GetStocks retrieves stock combinations with filters and pagination
func (r *StocksRepository) GetStocks(tenantID string, filter *models.StockFilter) ([]models.VariationStock, int64, error) {
	var stocks []models.VariationStock
	var total int64

	query := r.db.Model(&models.VariationStock{}).Where("tenant_id = ?", tenantID)
	if filter.ProductID != nil {
		query = query.Where("product_id = ?", *filter.ProductID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SKU != nil && *filter.SKU != "" {
		query = query.Where("LOWER(sku) LIKE ?", "%"+strings.ToLower(*filter.SKU)+"%")
	}
	if filter.AvailableOnly != nil && *filter.AvailableOnly {
		query = query.Where("status = ?", models.StockStatusAvailable)
	}
	if filter.LowStock != nil && *filter.LowStock {
		query = query.Where("quantity <= low_stock_threshold")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := query.Preload("Options").
		Order("created_at ASC").
		Offset(offset).Limit(filter.Limit).
		Find(&stocks).Error
	if err != nil {
		return nil, 0, err
	}
	return stocks, total, nil
}

// GetStockByID retrieves a stock combination with its options
func (r *StocksRepository) GetStockByID(tenantID string, stockID uuid.UUID) (*models.VariationStock, error) {
	var stock models.VariationStock
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, stockID).
		Preload("Options").
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &stock, nil
}

// UpdateStock applies field updates and optionally replaces the option set.
// The replacement set is validated the same way as on create.
func (r *StocksRepository) UpdateStock(tenantID string, stockID uuid.UUID, updates map[string]interface{}, optionIDs []uuid.UUID) (*models.VariationStock, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var stock models.VariationStock
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, stockID).First(&stock).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if optionIDs != nil {
			if err := validateOptionSet(tx, tenantID, stock.ProductID, optionIDs); err != nil {
				return err
			}
			exists, err := combinationExists(tx, tenantID, stock.ProductID, &stockID, optionIDs)
			if err != nil {
				return err
			}
			if exists {
				return ErrDuplicateOptions
			}
			values, err := optionValuesSnapshot(tx, optionIDs)
			if err != nil {
				return err
			}
			updates["option_values"] = values
		}

		quantity := stock.Quantity
		threshold := stock.LowStockThreshold
		if q, ok := updates["quantity"].(int); ok {
			quantity = q
		}
		if t, ok := updates["low_stock_threshold"].(int); ok {
			threshold = t
		}
		updates["status"] = models.DeriveStockStatus(quantity, threshold)
		updates["updated_at"] = time.Now()

		if err := tx.Model(&models.VariationStock{}).
			Where("tenant_id = ? AND id = ?", tenantID, stockID).
			Updates(updates).Error; err != nil {
			return wrapCreateError(err, "idx_variation_stocks_tenant_sku", "")
		}

		if optionIDs != nil {
			if err := tx.Exec("DELETE FROM variation_stock_options WHERE variation_stock_id = ?", stockID).Error; err != nil {
				return err
			}
			for _, optionID := range optionIDs {
				if err := tx.Exec(
					"INSERT INTO variation_stock_options (variation_stock_id, variation_option_id) VALUES (?, ?)",
					stockID, optionID,
				).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidateStockCaches(context.Background(), tenantID)
	return r.GetStockByID(tenantID, stockID)
}

// AdjustQuantity changes a stock quantity atomically in the database and
// recomputes the status in the same transaction. Decrements that would take
// the quantity below zero leave the row untouched and return
// ErrInsufficientStock.
func (r *StocksRepository) AdjustQuantity(tenantID string, stockID uuid.UUID, op models.QuantityOperation, amount int) (*models.VariationStock, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		query := tx.Model(&models.VariationStock{}).
			Where("tenant_id = ? AND id = ?", tenantID, stockID)

		var expr interface{}
		switch op {
		case models.QuantityOpSet:
			expr = amount
		case models.QuantityOpIncrement:
			expr = gorm.Expr("quantity + ?", amount)
		case models.QuantityOpDecrement:
			expr = gorm.Expr("quantity - ?", amount)
			query = query.Where("quantity >= ?", amount)
		default:
			return fmt.Errorf("unknown quantity operation %q", op)
		}

		result := query.Updates(map[string]interface{}{
			"quantity":   expr,
			"updated_at": time.Now(),
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			tx.Model(&models.VariationStock{}).
				Where("tenant_id = ? AND id = ?", tenantID, stockID).
				Count(&count)
			if count == 0 {
				return ErrNotFound
			}
			return ErrInsufficientStock
		}

		// Recompute status from the quantity the update actually produced.
		var stock models.VariationStock
		if err := tx.Where("tenant_id = ? AND id = ?", tenantID, stockID).First(&stock).Error; err != nil {
			return err
		}
		status := models.DeriveStockStatus(stock.Quantity, stock.LowStockThreshold)
		if status != stock.Status {
			if err := tx.Model(&models.VariationStock{}).
				Where("tenant_id = ? AND id = ?", tenantID, stockID).
				Update("status", status).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidateStockCaches(context.Background(), tenantID)
	return r.GetStockByID(tenantID, stockID)
}

// DeleteStock soft deletes a stock combination and detaches its options
func (r *StocksRepository) DeleteStock(tenantID string, stockID uuid.UUID) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, stockID).
			Delete(&models.VariationStock{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Exec("DELETE FROM variation_stock_options WHERE variation_stock_id = ?", stockID).Error
	})
	if err != nil {
		return err
	}

	r.invalidateStockCaches(context.Background(), tenantID)
	return nil
}

// CreateStocksBatch inserts generated stock combinations in one transaction.
// Combinations whose option set already exists for the product are skipped.
func (r *StocksRepository) CreateStocksBatch(tenantID string, productID uuid.UUID, stocks []*models.VariationStock, optionSets [][]uuid.UUID) ([]*models.VariationStock, error) {
	if len(stocks) != len(optionSets) {
		return nil, fmt.Errorf("stocks and option sets length mismatch: %d vs %d", len(stocks), len(optionSets))
	}

	created := make([]*models.VariationStock, 0, len(stocks))
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for i, stock := range stocks {
			exists, err := combinationExists(tx, tenantID, productID, nil, optionSets[i])
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			stock.TenantID = tenantID
			stock.ProductID = productID
			stock.CreatedAt = time.Now()
			stock.UpdatedAt = time.Now()
			if stock.ID == uuid.Nil {
				stock.ID = uuid.New()
			}
			stock.Status = models.DeriveStockStatus(stock.Quantity, stock.LowStockThreshold)

			values, err := optionValuesSnapshot(tx, optionSets[i])
			if err != nil {
				return err
			}
			if values != nil {
				stock.OptionValues = &values
			}

			if err := tx.Omit("Options").Create(stock).Error; err != nil {
				return wrapCreateError(err, "idx_variation_stocks_tenant_sku", "")
			}
			for _, optionID := range optionSets[i] {
				if err := tx.Exec(
					"INSERT INTO variation_stock_options (variation_stock_id, variation_option_id) VALUES (?, ?)",
					stock.ID, optionID,
				).Error; err != nil {
					return err
				}
			}
			created = append(created, stock)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.invalidateStockCaches(context.Background(), tenantID)
	return created, nil
}

// GetStocksForExport retrieves all stock combinations of a tenant with their
// options and owning product, without pagination.
func (r *StocksRepository) GetStocksForExport(tenantID string, productID *uuid.UUID) ([]models.VariationStock, error) {
	var stocks []models.VariationStock
	query := r.db.Where("tenant_id = ?", tenantID)
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}
	err := query.Preload("Options").Order("product_id ASC, created_at ASC").Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}
