package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// CatalogRepository handles sellers, categories and sub-categories.
type CatalogRepository struct {
	db    *gorm.DB
	cache *cache.CacheLayer
}

func NewCatalogRepository(db *gorm.DB, cacheLayer *cache.CacheLayer) *CatalogRepository {
	return &CatalogRepository{db: db, cache: cacheLayer}
}

func (r *CatalogRepository) invalidateCatalogCaches(ctx context.Context, tenantID string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.DeletePattern(ctx, fmt.Sprintf("catalog:*:%s:*", tenantID))
}

// Seller Operations

// CreateSeller creates a seller, deriving slug and shop slug from the names.
// Slug collisions are retried with a numbered suffix.
func (r *CatalogRepository) CreateSeller(tenantID string, seller *models.Seller) error {
	seller.TenantID = tenantID
	seller.CreatedAt = time.Now()
	seller.UpdatedAt = time.Now()
	if seller.ID == uuid.Nil {
		seller.ID = uuid.New()
	}

	baseSlug := seller.Slug
	if baseSlug == "" {
		baseSlug = GenerateSlug(seller.Name)
	}
	if seller.ShopSlug == "" {
		seller.ShopSlug = GenerateSlug(seller.ShopName)
	}

	var err error
	for attempt := 0; attempt < slugMaxAttempts; attempt++ {
		if attempt == 0 {
			seller.Slug = baseSlug
		} else {
			seller.Slug = fmt.Sprintf("%s-%d", baseSlug, attempt)
		}
		err = r.db.Create(seller).Error
		if err == nil {
			r.invalidateCatalogCaches(context.Background(), tenantID)
			return nil
		}
		if !isUniqueViolation(err, "idx_sellers_tenant_slug") {
			return wrapCreateError(err, "", "idx_sellers_tenant_slug")
		}
	}

	seller.Slug = fmt.Sprintf("%s-%s", baseSlug, seller.ID.String()[:8])
	if err = r.db.Create(seller).Error; err != nil {
		return wrapCreateError(err, "", "idx_sellers_tenant_slug")
	}
	r.invalidateCatalogCaches(context.Background(), tenantID)
	return nil
}

// GetSellers retrieves sellers with pagination
func (r *CatalogRepository) GetSellers(tenantID string, page, limit int) ([]models.Seller, int64, error) {
	var sellers []models.Seller
	var total int64

	query := r.db.Model(&models.Seller{}).Where("tenant_id = ?", tenantID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&sellers).Error; err != nil {
		return nil, 0, err
	}
	return sellers, total, nil
}

// GetSellerByID retrieves a seller by ID
func (r *CatalogRepository) GetSellerByID(tenantID string, sellerID uuid.UUID) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.Where("tenant_id = ? AND id = ?", tenantID, sellerID).First(&seller).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &seller, nil
}

// UpdateSeller applies field updates to a seller
func (r *CatalogRepository) UpdateSeller(tenantID string, sellerID uuid.UUID, updates map[string]interface{}) (*models.Seller, error) {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Seller{}).
		Where("tenant_id = ? AND id = ?", tenantID, sellerID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	r.invalidateCatalogCaches(context.Background(), tenantID)
	return r.GetSellerByID(tenantID, sellerID)
}

// DeleteSeller soft deletes a seller. Sellers with products are protected.
func (r *CatalogRepository) DeleteSeller(tenantID string, sellerID uuid.UUID) error {
	var productCount int64
	if err := r.db.Model(&models.Product{}).
		Where("tenant_id = ? AND seller_id = ?", tenantID, sellerID).
		Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		return fmt.Errorf("%w: seller has %d products", ErrOptionInUse, productCount)
	}

	result := r.db.Where("tenant_id = ? AND id = ?", tenantID, sellerID).Delete(&models.Seller{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateCatalogCaches(context.Background(), tenantID)
	return nil
}

// Category Operations

// CreateCategory creates a category with a slug derived from the name
func (r *CatalogRepository) CreateCategory(tenantID string, category *models.Category) error {
	category.TenantID = tenantID
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}

	baseSlug := category.Slug
	if baseSlug == "" {
		baseSlug = GenerateSlug(category.Name)
	}

	var err error
	for attempt := 0; attempt < slugMaxAttempts; attempt++ {
		if attempt == 0 {
			category.Slug = baseSlug
		} else {
			category.Slug = fmt.Sprintf("%s-%d", baseSlug, attempt)
		}
		err = r.db.Create(category).Error
		if err == nil {
			r.invalidateCatalogCaches(context.Background(), tenantID)
			return nil
		}
		if !isUniqueViolation(err, "idx_categories_tenant_slug") {
			return wrapCreateError(err, "", "idx_categories_tenant_slug")
		}
	}

	category.Slug = fmt.Sprintf("%s-%s", baseSlug, category.ID.String()[:8])
	if err = r.db.Create(category).Error; err != nil {
		return wrapCreateError(err, "", "idx_categories_tenant_slug")
	}
	r.invalidateCatalogCaches(context.Background(), tenantID)
	return nil
}

// GetCategories retrieves categories with their sub-categories, cached per page
func (r *CatalogRepository) GetCategories(tenantID string, page, limit int) ([]models.Category, int64, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("catalog:categories:%s:%d:%d", tenantID, page, limit)

	fetch := func() ([]models.Category, int64, error) {
		var categories []models.Category
		var total int64
		query := r.db.Model(&models.Category{}).Where("tenant_id = ?", tenantID)
		if err := query.Count(&total).Error; err != nil {
			return nil, 0, err
		}
		offset := (page - 1) * limit
		err := query.Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Order("sub_categories.display_order ASC")
		}).Order("display_order ASC, name ASC").
			Offset(offset).Limit(limit).Find(&categories).Error
		if err != nil {
			return nil, 0, err
		}
		return categories, total, nil
	}

	if r.cache != nil {
		type categoriesResult struct {
			Categories []models.Category `json:"categories"`
			Total      int64             `json:"total"`
		}
		var result categoriesResult
		err := r.cache.GetOrSetJSON(ctx, cacheKey, &result, CatalogCacheTTL, func() (any, error) {
			categories, total, err := fetch()
			if err != nil {
				return nil, err
			}
			return &categoriesResult{Categories: categories, Total: total}, nil
		})
		if err != nil {
			return nil, 0, err
		}
		return result.Categories, result.Total, nil
	}

	return fetch()
}

// GetCategoryByID retrieves a category with its sub-categories
func (r *CatalogRepository) GetCategoryByID(tenantID string, categoryID uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("tenant_id = ? AND id = ?", tenantID, categoryID).
		Preload("SubCategories").
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// UpdateCategory applies field updates to a category
func (r *CatalogRepository) UpdateCategory(tenantID string, categoryID uuid.UUID, updates map[string]interface{}) (*models.Category, error) {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.Category{}).
		Where("tenant_id = ? AND id = ?", tenantID, categoryID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	r.invalidateCatalogCaches(context.Background(), tenantID)
	return r.GetCategoryByID(tenantID, categoryID)
}

// DeleteCategory soft deletes a category. Categories referenced by products
// are protected.
func (r *CatalogRepository) DeleteCategory(tenantID string, categoryID uuid.UUID) error {
	var productCount int64
	if err := r.db.Model(&models.Product{}).
		Where("tenant_id = ? AND category_id = ?", tenantID, categoryID).
		Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		return fmt.Errorf("%w: category has %d products", ErrOptionInUse, productCount)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND category_id = ?", tenantID, categoryID).
			Delete(&models.SubCategory{}).Error; err != nil {
			return err
		}
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, categoryID).Delete(&models.Category{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		r.invalidateCatalogCaches(context.Background(), tenantID)
		return nil
	})
}

// SubCategory Operations

// CreateSubCategory creates a sub-category under an existing category
func (r *CatalogRepository) CreateSubCategory(tenantID string, subCategory *models.SubCategory) error {
	var count int64
	if err := r.db.Model(&models.Category{}).
		Where("tenant_id = ? AND id = ?", tenantID, subCategory.CategoryID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: category %s", ErrInvalidReference, subCategory.CategoryID)
	}

	subCategory.TenantID = tenantID
	subCategory.CreatedAt = time.Now()
	subCategory.UpdatedAt = time.Now()
	if subCategory.ID == uuid.Nil {
		subCategory.ID = uuid.New()
	}
	if subCategory.Slug == "" {
		subCategory.Slug = GenerateSlug(subCategory.Name)
	}

	if err := r.db.Create(subCategory).Error; err != nil {
		return wrapCreateError(err, "", "")
	}
	r.invalidateCatalogCaches(context.Background(), tenantID)
	return nil
}

// GetSubCategories retrieves sub-categories, optionally scoped to a category
func (r *CatalogRepository) GetSubCategories(tenantID string, categoryID *uuid.UUID, page, limit int) ([]models.SubCategory, int64, error) {
	var subCategories []models.SubCategory
	var total int64

	query := r.db.Model(&models.SubCategory{}).Where("tenant_id = ?", tenantID)
	if categoryID != nil {
		query = query.Where("category_id = ?", *categoryID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if err := query.Order("display_order ASC, name ASC").Offset(offset).Limit(limit).Find(&subCategories).Error; err != nil {
		return nil, 0, err
	}
	return subCategories, total, nil
}

// GetSubCategoryByID retrieves a sub-category by ID
func (r *CatalogRepository) GetSubCategoryByID(tenantID string, subCategoryID uuid.UUID) (*models.SubCategory, error) {
	var subCategory models.SubCategory
	if err := r.db.Where("tenant_id = ? AND id = ?", tenantID, subCategoryID).First(&subCategory).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &subCategory, nil
}

// UpdateSubCategory applies field updates to a sub-category
func (r *CatalogRepository) UpdateSubCategory(tenantID string, subCategoryID uuid.UUID, updates map[string]interface{}) (*models.SubCategory, error) {
	updates["updated_at"] = time.Now()
	result := r.db.Model(&models.SubCategory{}).
		Where("tenant_id = ? AND id = ?", tenantID, subCategoryID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	r.invalidateCatalogCaches(context.Background(), tenantID)
	return r.GetSubCategoryByID(tenantID, subCategoryID)
}

// DeleteSubCategory soft deletes a sub-category
func (r *CatalogRepository) DeleteSubCategory(tenantID string, subCategoryID uuid.UUID) error {
	var productCount int64
	if err := r.db.Model(&models.Product{}).
		Where("tenant_id = ? AND sub_category_id = ?", tenantID, subCategoryID).
		Count(&productCount).Error; err != nil {
		return err
	}
	if productCount > 0 {
		return fmt.Errorf("%w: sub-category has %d products", ErrOptionInUse, productCount)
	}

	result := r.db.Where("tenant_id = ? AND id = ?", tenantID, subCategoryID).Delete(&models.SubCategory{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateCatalogCaches(context.Background(), tenantID)
	return nil
}

// Import lookups

// GetSellerByName retrieves a seller by exact name match
func (r *CatalogRepository) GetSellerByName(tenantID, name string) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.Where("tenant_id = ? AND name = ?", tenantID, name).First(&seller).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &seller, nil
}

// FindOrCreateCategoryByName looks up a category by name, creating it when missing
func (r *CatalogRepository) FindOrCreateCategoryByName(tenantID, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("tenant_id = ? AND name = ?", tenantID, name).First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category = models.Category{
		Name:     name,
		IsActive: true,
	}
	if err := r.CreateCategory(tenantID, &category); err != nil {
		return nil, err
	}
	return &category, nil
}
