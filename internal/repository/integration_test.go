//go:build integration
// +build integration

package repository

import (
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// RepositoryIntegrationSuite exercises the invariants the repositories
// enforce inside transactions and guarded SQL against a real database.
// Run with: go test -tags=integration ./internal/repository/
type RepositoryIntegrationSuite struct {
	suite.Suite
	db         *gorm.DB
	products   *ProductsRepository
	catalog    *CatalogRepository
	variations *VariationsRepository
	stocks     *StocksRepository

	tenantID string
	seller   *models.Seller
	category *models.Category
}

func (s *RepositoryIntegrationSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=catalog_service_test port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		s.T().Fatalf("Failed to connect to database: %v", err)
	}
	s.db = db

	err = s.db.AutoMigrate(
		&models.Seller{},
		&models.Category{},
		&models.SubCategory{},
		&models.Product{},
		&models.Variation{},
		&models.VariationOption{},
		&models.VariationStock{},
	)
	if err != nil {
		s.T().Fatalf("Failed to run migrations: %v", err)
	}

	s.products = NewProductsRepository(db, nil)
	s.catalog = NewCatalogRepository(db, nil)
	s.variations = NewVariationsRepository(db)
	s.stocks = NewStocksRepository(db, nil)
}

func (s *RepositoryIntegrationSuite) SetupTest() {
	s.tenantID = "test-tenant-" + uuid.New().String()[:8]

	s.seller = &models.Seller{
		Name:     "Integration Seller",
		Email:    fmt.Sprintf("seller-%s@example.com", s.tenantID),
		ShopName: "Integration Shop " + s.tenantID,
	}
	if err := s.catalog.CreateSeller(s.tenantID, s.seller); err != nil {
		s.T().Fatalf("Failed to create seller: %v", err)
	}

	s.category = &models.Category{Name: "Apparel", IsActive: true}
	if err := s.catalog.CreateCategory(s.tenantID, s.category); err != nil {
		s.T().Fatalf("Failed to create category: %v", err)
	}
}

func (s *RepositoryIntegrationSuite) createProduct(name, sku string) *models.Product {
	product := &models.Product{
		SellerID:   s.seller.ID,
		CategoryID: s.category.ID,
		Name:       name,
		SKU:        sku,
		Type:       models.ProductTypePhysical,
		Price:      decimal.NewFromFloat(19.90),
		Currency:   "USD",
		Status:     models.ProductStatusDraft,
	}
	if err := s.products.CreateProduct(s.tenantID, product); err != nil {
		s.T().Fatalf("Failed to create product %s: %v", name, err)
	}
	return product
}

func (s *RepositoryIntegrationSuite) createVariation(productID uuid.UUID, name string) *models.Variation {
	variation := &models.Variation{
		ProductID:  productID,
		Name:       name,
		Type:       "select",
		IsRequired: true,
	}
	if err := s.variations.CreateVariation(s.tenantID, variation); err != nil {
		s.T().Fatalf("Failed to create variation %s: %v", name, err)
	}
	return variation
}

func (s *RepositoryIntegrationSuite) createOption(variationID uuid.UUID, value string, isDefault bool) *models.VariationOption {
	option := &models.VariationOption{
		VariationID: variationID,
		Name:        value,
		Value:       value,
		IsDefault:   isDefault,
	}
	if err := s.variations.CreateOption(s.tenantID, option); err != nil {
		s.T().Fatalf("Failed to create option %s: %v", value, err)
	}
	return option
}

func (s *RepositoryIntegrationSuite) createStock(productID uuid.UUID, sku string, quantity, threshold int, optionIDs []uuid.UUID) *models.VariationStock {
	stock := &models.VariationStock{
		ProductID:         productID,
		SKU:               sku,
		Price:             decimal.NewFromFloat(24.90),
		Quantity:          quantity,
		LowStockThreshold: threshold,
	}
	if err := s.stocks.CreateStock(s.tenantID, stock, optionIDs); err != nil {
		s.T().Fatalf("Failed to create stock %s: %v", sku, err)
	}
	return stock
}

// Default-option uniqueness: writing a new default demotes the previous one
// inside the same transaction.

func (s *RepositoryIntegrationSuite) TestCreateOption_SecondDefaultDemotesFirst() {
	product := s.createProduct("Classic Tee", "TEE-1")
	size := s.createVariation(product.ID, "Size")

	small := s.createOption(size.ID, "S", true)
	medium := s.createOption(size.ID, "M", true)

	reloaded, err := s.variations.GetOptionByID(s.tenantID, small.ID)
	s.Require().NoError(err)
	s.False(reloaded.IsDefault)

	reloaded, err = s.variations.GetOptionByID(s.tenantID, medium.ID)
	s.Require().NoError(err)
	s.True(reloaded.IsDefault)
}

func (s *RepositoryIntegrationSuite) TestUpdateOption_PromotionDemotesSibling() {
	product := s.createProduct("Classic Tee", "TEE-1")
	size := s.createVariation(product.ID, "Size")

	small := s.createOption(size.ID, "S", true)
	large := s.createOption(size.ID, "L", false)

	_, err := s.variations.UpdateOption(s.tenantID, large.ID, map[string]interface{}{
		"is_default": true,
	})
	s.Require().NoError(err)

	var defaults int64
	err = s.db.Model(&models.VariationOption{}).
		Where("tenant_id = ? AND variation_id = ? AND is_default = ?", s.tenantID, size.ID, true).
		Count(&defaults).Error
	s.Require().NoError(err)
	s.Equal(int64(1), defaults)

	reloaded, err := s.variations.GetOptionByID(s.tenantID, small.ID)
	s.Require().NoError(err)
	s.False(reloaded.IsDefault)
}

// Quantity adjustment: atomic guarded decrement with status recomputation in
// the same transaction.

func (s *RepositoryIntegrationSuite) TestAdjustQuantity_DecrementRecomputesStatus() {
	product := s.createProduct("Headphones", "WH-1")
	color := s.createVariation(product.ID, "Color")
	red := s.createOption(color.ID, "Red", false)
	stock := s.createStock(product.ID, "WH-RED", 10, 5, []uuid.UUID{red.ID})

	adjusted, err := s.stocks.AdjustQuantity(s.tenantID, stock.ID, models.QuantityOpDecrement, 6)
	s.Require().NoError(err)
	s.Equal(4, adjusted.Quantity)
	s.Equal(models.StockStatusReserved, adjusted.Status)

	adjusted, err = s.stocks.AdjustQuantity(s.tenantID, stock.ID, models.QuantityOpDecrement, 4)
	s.Require().NoError(err)
	s.Equal(0, adjusted.Quantity)
	s.Equal(models.StockStatusSoldOut, adjusted.Status)
}

func (s *RepositoryIntegrationSuite) TestAdjustQuantity_DecrementBelowZeroLeavesRowUntouched() {
	product := s.createProduct("Headphones", "WH-1")
	color := s.createVariation(product.ID, "Color")
	red := s.createOption(color.ID, "Red", false)
	stock := s.createStock(product.ID, "WH-RED", 3, 5, []uuid.UUID{red.ID})

	_, err := s.stocks.AdjustQuantity(s.tenantID, stock.ID, models.QuantityOpDecrement, 5)
	s.Require().ErrorIs(err, ErrInsufficientStock)

	reloaded, err := s.stocks.GetStockByID(s.tenantID, stock.ID)
	s.Require().NoError(err)
	s.Equal(3, reloaded.Quantity)
	s.Equal(models.StockStatusReserved, reloaded.Status)
}

func (s *RepositoryIntegrationSuite) TestAdjustQuantity_MissingStockIsNotFound() {
	_, err := s.stocks.AdjustQuantity(s.tenantID, uuid.New(), models.QuantityOpDecrement, 1)
	s.Require().ErrorIs(err, ErrNotFound)
}

// Combination uniqueness inside the insert transaction.

func (s *RepositoryIntegrationSuite) TestCreateStock_DuplicateCombinationRejected() {
	product := s.createProduct("Headphones", "WH-1")
	color := s.createVariation(product.ID, "Color")
	red := s.createOption(color.ID, "Red", false)
	s.createStock(product.ID, "WH-RED", 10, 5, []uuid.UUID{red.ID})

	duplicate := &models.VariationStock{
		ProductID:         product.ID,
		SKU:               "WH-RED-2",
		Price:             decimal.NewFromFloat(24.90),
		LowStockThreshold: 5,
	}
	err := s.stocks.CreateStock(s.tenantID, duplicate, []uuid.UUID{red.ID})
	s.Require().ErrorIs(err, ErrDuplicateOptions)
}

func (s *RepositoryIntegrationSuite) TestCreateStocksBatch_EmptyOptionSetIdempotent() {
	product := s.createProduct("Plain Mug", "MUG-1")

	simple := func() []*models.VariationStock {
		return []*models.VariationStock{{
			SKU:               "MUG-1-DEFAULT",
			Price:             decimal.NewFromFloat(9.90),
			Quantity:          25,
			LowStockThreshold: 5,
		}}
	}

	created, err := s.stocks.CreateStocksBatch(s.tenantID, product.ID, simple(), [][]uuid.UUID{{}})
	s.Require().NoError(err)
	s.Len(created, 1)

	created, err = s.stocks.CreateStocksBatch(s.tenantID, product.ID, simple(), [][]uuid.UUID{{}})
	s.Require().NoError(err)
	s.Len(created, 0)
}

// Slug lifecycle: computed at creation and recomputed on rename, with the
// bounded collision retry.

func (s *RepositoryIntegrationSuite) TestUpdateProduct_RenameRegeneratesSlug() {
	product := s.createProduct("Old Name", "SKU-1")
	s.Equal("old-name", product.Slug)

	updated, err := s.products.UpdateProduct(s.tenantID, product.ID, map[string]interface{}{
		"name": "Brand New Name",
	})
	s.Require().NoError(err)
	s.Equal("Brand New Name", updated.Name)
	s.Equal("brand-new-name", updated.Slug)
}

func (s *RepositoryIntegrationSuite) TestUpdateProduct_RenameSlugCollisionSuffixed() {
	s.createProduct("Brand New Name", "SKU-1")
	product := s.createProduct("Old Name", "SKU-2")

	updated, err := s.products.UpdateProduct(s.tenantID, product.ID, map[string]interface{}{
		"name": "Brand New Name",
	})
	s.Require().NoError(err)
	s.Equal("brand-new-name-1", updated.Slug)
}

func TestRepositoryIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RepositoryIntegrationSuite))
}
