package seeders

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
	"catalog-service/internal/services"
)

const demoTenantID = "demo"

// SeedDemoCatalog creates a demo seller, category tree and a variant product
// with generated stock combinations. Safe to run repeatedly, it skips seeding
// when the demo product already exists.
func SeedDemoCatalog(db *gorm.DB, stockService *services.StockService) error {
	var count int64
	if err := db.Model(&models.Product{}).
		Where("tenant_id = ? AND sku = ?", demoTenantID, "TSHIRT-CLASSIC").
		Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check demo data: %w", err)
	}
	if count > 0 {
		log.Println("Demo catalog already seeded, skipping")
		return nil
	}

	seller := &models.Seller{
		TenantID: demoTenantID,
		Name:     "Aurora Threads",
		Slug:     repository.GenerateSlug("Aurora Threads"),
		Email:    "hello@aurorathreads.example.com",
		ShopName: "Aurora Threads Official",
		ShopSlug: repository.GenerateSlug("Aurora Threads Official"),
		Status:   models.SellerStatusActive,
	}
	if err := db.Create(seller).Error; err != nil {
		return fmt.Errorf("failed to seed demo seller: %w", err)
	}

	category := &models.Category{
		TenantID: demoTenantID,
		Name:     "Apparel",
		Slug:     repository.GenerateSlug("Apparel"),
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		return fmt.Errorf("failed to seed demo category: %w", err)
	}

	subCategory := &models.SubCategory{
		TenantID:   demoTenantID,
		CategoryID: category.ID,
		Name:       "T-Shirts",
		Slug:       repository.GenerateSlug("T-Shirts"),
		IsActive:   true,
	}
	if err := db.Create(subCategory).Error; err != nil {
		return fmt.Errorf("failed to seed demo sub-category: %w", err)
	}

	product := &models.Product{
		TenantID:       demoTenantID,
		SellerID:       seller.ID,
		CategoryID:     category.ID,
		SubCategoryID:  &subCategory.ID,
		Name:           "Classic Cotton T-Shirt",
		Slug:           repository.GenerateSlug("Classic Cotton T-Shirt"),
		SKU:            "TSHIRT-CLASSIC",
		Type:           models.ProductTypePhysical,
		Price:          decimal.NewFromFloat(19.90),
		Currency:       "USD",
		TrackInventory: true,
		Status:         models.ProductStatusDraft,
	}
	if err := db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to seed demo product: %w", err)
	}

	type optionSpec struct {
		name      string
		value     string
		surcharge float64
		isDefault bool
	}
	type variationSpec struct {
		name    string
		options []optionSpec
	}

	variations := []variationSpec{
		{
			name: "Size",
			options: []optionSpec{
				{"Small", "S", 0, false},
				{"Medium", "M", 0, true},
				{"Large", "L", 2.00, false},
			},
		},
		{
			name: "Color",
			options: []optionSpec{
				{"Black", "black", 0, true},
				{"White", "white", 0, false},
			},
		},
	}

	for order, spec := range variations {
		variation := &models.Variation{
			TenantID:     demoTenantID,
			ProductID:    product.ID,
			Name:         spec.name,
			Type:         "select",
			IsRequired:   true,
			DisplayOrder: order,
		}
		if err := db.Create(variation).Error; err != nil {
			return fmt.Errorf("failed to seed demo variation %s: %w", spec.name, err)
		}

		for optOrder, opt := range spec.options {
			option := &models.VariationOption{
				TenantID:        demoTenantID,
				VariationID:     variation.ID,
				Name:            opt.name,
				Value:           opt.value,
				AdditionalPrice: decimal.NewFromFloat(opt.surcharge),
				IsDefault:       opt.isDefault,
				DisplayOrder:    optOrder,
			}
			if err := db.Create(option).Error; err != nil {
				return fmt.Errorf("failed to seed demo option %s: %w", opt.name, err)
			}
		}
	}

	quantity := 25
	threshold := models.DefaultLowStockThreshold
	stocks, err := stockService.GenerateStocks(demoTenantID, product.ID, &models.GenerateStocksRequest{
		Quantity:          &quantity,
		LowStockThreshold: &threshold,
	})
	if err != nil {
		return fmt.Errorf("failed to generate demo stocks: %w", err)
	}

	log.Printf("Seeded demo catalog: product %s with %d stock combinations", product.SKU, len(stocks))
	return nil
}
