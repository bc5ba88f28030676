package repository

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Tesseract-Nexus/go-shared/cache"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// Cache TTL constants
const (
	ProductCacheTTL     = 5 * time.Minute
	ProductListCacheTTL = 2 * time.Minute
	CatalogCacheTTL     = 30 * time.Minute

	// slugMaxAttempts bounds the optimistic retry loop on slug collisions.
	slugMaxAttempts = 5
)

type ProductsRepository struct {
	db    *gorm.DB
	redis *redis.Client
	cache *cache.CacheLayer
}

func NewProductsRepository(db *gorm.DB, redis *redis.Client) *ProductsRepository {
	repo := &ProductsRepository{
		db:    db,
		redis: redis,
	}

	if redis != nil {
		cacheConfig := cache.CacheConfig{
			L1Enabled:  true,
			L1MaxItems: 5000,
			L1TTL:      30 * time.Second,
			DefaultTTL: ProductCacheTTL,
			KeyPrefix:  "tesseract:catalog:",
		}
		repo.cache = cache.NewCacheLayerFromClient(redis, cacheConfig)
	}

	return repo
}

// DB exposes the underlying handle for repositories sharing the connection.
func (r *ProductsRepository) DB() *gorm.DB {
	return r.db
}

// Cache exposes the shared cache layer.
func (r *ProductsRepository) Cache() *cache.CacheLayer {
	return r.cache
}

// generateListCacheKey creates a deterministic cache key for list queries
func generateListCacheKey(tenantID string, prefix string, params interface{}) string {
	data, _ := json.Marshal(params)
	hash := md5.Sum(data)
	return fmt.Sprintf("%s:%s:%s", prefix, tenantID, hex.EncodeToString(hash[:]))
}

// invalidateProductCaches invalidates all caches related to a product
func (r *ProductsRepository) invalidateProductCaches(ctx context.Context, tenantID string, productID uuid.UUID) {
	if r.cache == nil {
		return
	}
	_ = r.cache.Delete(ctx, fmt.Sprintf("product:%s:%s", tenantID, productID.String()))
	_ = r.cache.DeletePattern(ctx, fmt.Sprintf("product:slug:%s:*", tenantID))
	_ = r.cache.DeletePattern(ctx, fmt.Sprintf("products:list:%s:*", tenantID))
}

func (r *ProductsRepository) invalidateTenantProductListCaches(ctx context.Context, tenantID string) {
	if r.cache == nil {
		return
	}
	_ = r.cache.DeletePattern(ctx, fmt.Sprintf("products:list:%s:*", tenantID))
}

// Product CRUD Operations

// CreateProduct creates a new product. The slug is derived from the name and
// written optimistically: on a unique violation a numbered suffix is appended
// and the insert retried a bounded number of times.
func (r *ProductsRepository) CreateProduct(tenantID string, product *models.Product) error {
	product.TenantID = tenantID
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}

	baseSlug := product.Slug
	if baseSlug == "" {
		baseSlug = GenerateSlug(product.Name)
	}

	var err error
	for attempt := 0; attempt < slugMaxAttempts; attempt++ {
		if attempt == 0 {
			product.Slug = baseSlug
		} else {
			product.Slug = fmt.Sprintf("%s-%d", baseSlug, attempt)
		}

		err = r.db.Create(product).Error
		if err == nil {
			r.invalidateTenantProductListCaches(context.Background(), tenantID)
			return nil
		}
		if isUniqueViolation(err, "idx_products_tenant_sku") {
			return fmt.Errorf("%w: %s", ErrDuplicateSKU, product.SKU)
		}
		if !isUniqueViolation(err, "idx_products_tenant_slug") {
			return wrapCreateError(err, "idx_products_tenant_sku", "idx_products_tenant_slug")
		}
		// slug collided with a concurrent insert, regenerate and retry
	}

	// Last resort: suffix with the ID prefix, which cannot collide.
	product.Slug = fmt.Sprintf("%s-%s", baseSlug, product.ID.String()[:8])
	if err = r.db.Create(product).Error; err != nil {
		return wrapCreateError(err, "idx_products_tenant_sku", "idx_products_tenant_slug")
	}
	r.invalidateTenantProductListCaches(context.Background(), tenantID)
	return nil
}

// GetProductByID retrieves a product by ID, optionally preloading its
// variations (with options) and stock combinations.
func (r *ProductsRepository) GetProductByID(tenantID string, productID uuid.UUID, includeStocks bool) (*models.Product, error) {
	query := r.db.Where("tenant_id = ? AND id = ?", tenantID, productID).
		Preload("Variations", func(db *gorm.DB) *gorm.DB {
			return db.Order("variations.display_order ASC")
		}).
		Preload("Variations.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("variation_options.display_order ASC")
		})
	if includeStocks {
		query = query.Preload("VariationStocks.Options")
	}

	var product models.Product
	if err := query.First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetProductBySlug retrieves a published product by slug for storefront reads,
// with caching.
func (r *ProductsRepository) GetProductBySlug(tenantID, slug string) (*models.Product, error) {
	ctx := context.Background()
	cacheKey := fmt.Sprintf("product:slug:%s:%s", tenantID, slug)

	fetch := func() (*models.Product, error) {
		var product models.Product
		err := r.db.Where("tenant_id = ? AND slug = ?", tenantID, slug).
			Preload("Variations.Options").
			Preload("VariationStocks.Options").
			First(&product).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		return &product, nil
	}

	if r.cache != nil {
		var product models.Product
		err := r.cache.GetOrSetJSON(ctx, cacheKey, &product, ProductCacheTTL, func() (any, error) {
			return fetch()
		})
		if err != nil {
			return nil, err
		}
		return &product, nil
	}
	return fetch()
}

// GetProducts retrieves products with filters and pagination. List results
// are cached briefly, keyed by a hash of the filter set.
func (r *ProductsRepository) GetProducts(tenantID string, req *models.SearchProductsRequest) ([]models.Product, int64, error) {
	fetch := func() ([]models.Product, int64, error) {
		var products []models.Product
		var total int64

		query := r.db.Model(&models.Product{}).Where("tenant_id = ?", tenantID)
		query = r.applyProductFilters(query, req)

		if err := query.Count(&total).Error; err != nil {
			return nil, 0, err
		}

		query = query.Order("created_at DESC")
		if req.IncludeStocks {
			query = query.Preload("VariationStocks.Options")
		}

		offset := (req.Page - 1) * req.Limit
		if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
			return nil, 0, err
		}
		return products, total, nil
	}

	if r.cache != nil {
		cacheKey := generateListCacheKey(tenantID, "products:list", req)
		type listResult struct {
			Products []models.Product `json:"products"`
			Total    int64            `json:"total"`
		}
		var result listResult
		err := r.cache.GetOrSetJSON(context.Background(), cacheKey, &result, ProductListCacheTTL, func() (any, error) {
			products, total, err := fetch()
			if err != nil {
				return nil, err
			}
			return &listResult{Products: products, Total: total}, nil
		})
		if err != nil {
			return nil, 0, err
		}
		return result.Products, result.Total, nil
	}

	return fetch()
}

// UpdateProduct applies field updates to a product. SKU changes that collide
// with another product surface as ErrDuplicateSKU.
func (r *ProductsRepository) UpdateProduct(tenantID string, productID uuid.UUID, updates map[string]interface{}) (*models.Product, error) {
	updates["updated_at"] = time.Now()

	// A rename recomputes the slug unless the caller set one explicitly,
	// with the same bounded collision retry as on create.
	name, renamed := updates["name"].(string)
	_, slugSupplied := updates["slug"]
	if renamed && !slugSupplied {
		baseSlug := GenerateSlug(name)
		var err error
		for attempt := 0; attempt < slugMaxAttempts; attempt++ {
			if attempt == 0 {
				updates["slug"] = baseSlug
			} else {
				updates["slug"] = fmt.Sprintf("%s-%d", baseSlug, attempt)
			}
			err = r.applyProductUpdates(tenantID, productID, updates)
			if err == nil || !isUniqueViolation(err, "idx_products_tenant_slug") {
				break
			}
		}
		if err != nil && isUniqueViolation(err, "idx_products_tenant_slug") {
			updates["slug"] = fmt.Sprintf("%s-%s", baseSlug, productID.String()[:8])
			err = r.applyProductUpdates(tenantID, productID, updates)
		}
		if err != nil {
			return nil, wrapCreateError(err, "idx_products_tenant_sku", "idx_products_tenant_slug")
		}
	} else if err := r.applyProductUpdates(tenantID, productID, updates); err != nil {
		return nil, wrapCreateError(err, "idx_products_tenant_sku", "idx_products_tenant_slug")
	}

	r.invalidateProductCaches(context.Background(), tenantID, productID)
	return r.GetProductByID(tenantID, productID, false)
}

// applyProductUpdates runs the update and disambiguates a zero-row result
// between a missing product and a no-op update.
func (r *ProductsRepository) applyProductUpdates(tenantID string, productID uuid.UUID, updates map[string]interface{}) error {
	result := r.db.Model(&models.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, productID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		r.db.Model(&models.Product{}).Where("tenant_id = ? AND id = ?", tenantID, productID).Count(&count)
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// DeleteProduct soft deletes a product
func (r *ProductsRepository) DeleteProduct(tenantID string, productID uuid.UUID) error {
	result := r.db.Where("tenant_id = ? AND id = ?", tenantID, productID).
		Delete(&models.Product{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	r.invalidateProductCaches(context.Background(), tenantID, productID)
	return nil
}

// SetPublished flips the publish state and stamps PublishedAt on first publish.
func (r *ProductsRepository) SetPublished(tenantID string, productID uuid.UUID, published bool) (*models.Product, error) {
	updates := map[string]interface{}{
		"is_published": published,
		"updated_at":   time.Now(),
	}
	if published {
		updates["published_at"] = time.Now()
		updates["status"] = models.ProductStatusActive
	}
	return r.UpdateProduct(tenantID, productID, updates)
}

// SKUExistsForTenant checks if a product SKU already exists for a tenant
func (r *ProductsRepository) SKUExistsForTenant(tenantID, sku string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Product{}).
		Where("tenant_id = ? AND sku = ?", tenantID, sku).
		Count(&count).Error
	return count > 0, err
}

// GetProductBySKU retrieves a product by its SKU
func (r *ProductsRepository) GetProductBySKU(tenantID, sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.Where("tenant_id = ? AND sku = ?", tenantID, sku).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// UpdateSimpleStock atomically adjusts the non-variant stock counter of a
// product. Decrements that would go below zero leave the row untouched and
// return ErrInsufficientStock.
func (r *ProductsRepository) UpdateSimpleStock(tenantID string, productID uuid.UUID, delta int) (*models.Product, error) {
	query := r.db.Model(&models.Product{}).
		Where("tenant_id = ? AND id = ?", tenantID, productID)
	if delta < 0 {
		query = query.Where("stock_quantity >= ?", -delta)
	}

	result := query.Updates(map[string]interface{}{
		"stock_quantity": gorm.Expr("stock_quantity + ?", delta),
		"updated_at":     time.Now(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		r.db.Model(&models.Product{}).Where("tenant_id = ? AND id = ?", tenantID, productID).Count(&count)
		if count == 0 {
			return nil, ErrNotFound
		}
		return nil, ErrInsufficientStock
	}

	r.invalidateProductCaches(context.Background(), tenantID, productID)
	return r.GetProductByID(tenantID, productID, false)
}

// CatalogOverviewResult holds the aggregated overview query result
type CatalogOverviewResult struct {
	TotalProducts     int64 `gorm:"column:total_products"`
	ActiveProducts    int64 `gorm:"column:active_products"`
	DraftProducts     int64 `gorm:"column:draft_products"`
	PublishedProducts int64 `gorm:"column:published_products"`
}

// GetCatalogOverview retrieves product counts with a single aggregated query
func (r *ProductsRepository) GetCatalogOverview(tenantID string) (*CatalogOverviewResult, error) {
	var result CatalogOverviewResult
	err := r.db.Model(&models.Product{}).
		Select(`
			COUNT(*) as total_products,
			COUNT(*) FILTER (WHERE status = ?) as active_products,
			COUNT(*) FILTER (WHERE status = ?) as draft_products,
			COUNT(*) FILTER (WHERE is_published) as published_products
		`, models.ProductStatusActive, models.ProductStatusDraft).
		Where("tenant_id = ?", tenantID).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *ProductsRepository) applyProductFilters(query *gorm.DB, req *models.SearchProductsRequest) *gorm.DB {
	if req.SellerID != nil {
		query = query.Where("seller_id = ?", *req.SellerID)
	}
	if req.CategoryID != nil {
		query = query.Where("category_id = ?", *req.CategoryID)
	}
	if req.SubCategoryID != nil {
		query = query.Where("sub_category_id = ?", *req.SubCategoryID)
	}
	if req.Status != nil {
		query = query.Where("status = ?", *req.Status)
	}
	if req.IsPublished != nil {
		query = query.Where("is_published = ?", *req.IsPublished)
	}
	if req.Brand != nil {
		query = query.Where("brand = ?", *req.Brand)
	}
	if req.Search != nil && *req.Search != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(*req.Search)) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", term, term)
	}
	if req.MinPrice != nil {
		query = query.Where("price >= ?", *req.MinPrice)
	}
	if req.MaxPrice != nil {
		query = query.Where("price <= ?", *req.MaxPrice)
	}
	return query
}

// GenerateSlug creates a URL-friendly slug from a name
func GenerateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	var result strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			result.WriteRune(r)
		}
	}
	return strings.Trim(result.String(), "-")
}
