package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductStatus represents the lifecycle status of a product
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// ProductType distinguishes physical goods from digital ones
type ProductType string

const (
	ProductTypePhysical ProductType = "physical"
	ProductTypeDigital  ProductType = "digital"
)

// JSON type for PostgreSQL JSONB (object/map)
type JSON map[string]interface{}

func (j JSON) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSON)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// JSONArray type for PostgreSQL JSONB (array)
type JSONArray []interface{}

func (j JSONArray) Value() (driver.Value, error) {
	return json.Marshal(j)
}

func (j *JSONArray) Scan(value interface{}) error {
	if value == nil {
		*j = make(JSONArray, 0)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// Product represents a sellable catalog entry owned by a seller.
// Variations define its choice axes; VariationStocks materialize concrete
// option combinations with their own price and quantity.
type Product struct {
	ID            uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID      string     `json:"tenantId" gorm:"not null;index:idx_products_tenant_id;index:idx_products_tenant_sku,unique;index:idx_products_tenant_slug,unique"`
	SellerID      uuid.UUID  `json:"sellerId" gorm:"type:uuid;not null;index:idx_products_seller_status"`
	CategoryID    uuid.UUID  `json:"categoryId" gorm:"type:uuid;not null;index"`
	SubCategoryID *uuid.UUID `json:"subCategoryId,omitempty" gorm:"type:uuid;index"`

	Name             string      `json:"name" gorm:"not null"`
	Slug             string      `json:"slug" gorm:"not null;index:idx_products_tenant_slug,unique"`
	SKU              string      `json:"sku" gorm:"not null;index:idx_products_tenant_sku,unique"`
	ImagePath        *string     `json:"imagePath,omitempty" gorm:"type:varchar(500)"`
	Barcode          *string     `json:"barcode,omitempty" gorm:"type:varchar(100)"`
	Type             ProductType `json:"type" gorm:"type:varchar(20);not null;default:'physical'"`
	Brand            *string     `json:"brand,omitempty" gorm:"index"`
	ShortDescription *string     `json:"shortDescription,omitempty" gorm:"type:text"`
	Description      *string     `json:"description,omitempty" gorm:"type:text"`
	LeadTime         int         `json:"leadTime" gorm:"not null;default:0"`

	Price     decimal.Decimal  `json:"price" gorm:"type:decimal(12,2);not null"`
	SalePrice *decimal.Decimal `json:"salePrice,omitempty" gorm:"type:decimal(12,2)"`
	Currency  string           `json:"currency" gorm:"type:char(3);not null;default:'USD'"`

	// StockQuantity is the simple non-variant inventory counter. Products with
	// variation stocks track quantity per combination instead.
	StockQuantity  int  `json:"stockQuantity" gorm:"not null;default:0"`
	TrackInventory bool `json:"trackInventory" gorm:"not null;default:true"`

	IsPublished bool          `json:"isPublished" gorm:"not null;default:false"`
	PublishedAt *time.Time    `json:"publishedAt,omitempty"`
	Status      ProductStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft';index:idx_products_seller_status"`
	Metadata    *JSON         `json:"metadata,omitempty" gorm:"type:jsonb"`

	Variations      []*Variation      `json:"variations,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	VariationStocks []*VariationStock `json:"variationStocks,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// EffectivePrice returns the sale price when set, the list price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SellerID         string           `json:"sellerId" binding:"required,uuid"`
	CategoryID       string           `json:"categoryId" binding:"required,uuid"`
	SubCategoryID    *string          `json:"subCategoryId,omitempty" binding:"omitempty,uuid"`
	Name             string           `json:"name" binding:"required,max=255"`
	SKU              string           `json:"sku" binding:"required,max=255"`
	ImagePath        *string          `json:"imagePath,omitempty" binding:"omitempty,max=500"`
	Barcode          *string          `json:"barcode,omitempty" binding:"omitempty,max=100"`
	Type             *ProductType     `json:"type,omitempty" binding:"omitempty,oneof=physical digital"`
	Brand            *string          `json:"brand,omitempty" binding:"omitempty,max=255"`
	ShortDescription *string          `json:"shortDescription,omitempty"`
	Description      *string          `json:"description,omitempty"`
	LeadTime         *int             `json:"leadTime,omitempty" binding:"omitempty,gte=0"`
	Price            decimal.Decimal  `json:"price" binding:"required"`
	SalePrice        *decimal.Decimal `json:"salePrice,omitempty"`
	Currency         *string          `json:"currency,omitempty" binding:"omitempty,len=3"`
	StockQuantity    *int             `json:"stockQuantity,omitempty" binding:"omitempty,gte=0"`
	TrackInventory   *bool            `json:"trackInventory,omitempty"`
	IsPublished      *bool            `json:"isPublished,omitempty"`
	Status           *ProductStatus   `json:"status,omitempty" binding:"omitempty,oneof=draft active archived"`
	Metadata         *JSON            `json:"metadata,omitempty"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	SellerID         *string          `json:"sellerId,omitempty" binding:"omitempty,uuid"`
	CategoryID       *string          `json:"categoryId,omitempty" binding:"omitempty,uuid"`
	SubCategoryID    *string          `json:"subCategoryId,omitempty" binding:"omitempty,uuid"`
	Name             *string          `json:"name,omitempty" binding:"omitempty,max=255"`
	SKU              *string          `json:"sku,omitempty" binding:"omitempty,max=255"`
	ImagePath        *string          `json:"imagePath,omitempty" binding:"omitempty,max=500"`
	Barcode          *string          `json:"barcode,omitempty" binding:"omitempty,max=100"`
	Type             *ProductType     `json:"type,omitempty" binding:"omitempty,oneof=physical digital"`
	Brand            *string          `json:"brand,omitempty" binding:"omitempty,max=255"`
	ShortDescription *string          `json:"shortDescription,omitempty"`
	Description      *string          `json:"description,omitempty"`
	LeadTime         *int             `json:"leadTime,omitempty" binding:"omitempty,gte=0"`
	Price            *decimal.Decimal `json:"price,omitempty"`
	SalePrice        *decimal.Decimal `json:"salePrice,omitempty"`
	Currency         *string          `json:"currency,omitempty" binding:"omitempty,len=3"`
	StockQuantity    *int             `json:"stockQuantity,omitempty" binding:"omitempty,gte=0"`
	TrackInventory   *bool            `json:"trackInventory,omitempty"`
	IsPublished      *bool            `json:"isPublished,omitempty"`
	Status           *ProductStatus   `json:"status,omitempty" binding:"omitempty,oneof=draft active archived"`
	Metadata         *JSON            `json:"metadata,omitempty"`
}

// SearchProductsRequest represents product list filters
type SearchProductsRequest struct {
	SellerID      *string          `json:"sellerId,omitempty"`
	CategoryID    *string          `json:"categoryId,omitempty"`
	SubCategoryID *string          `json:"subCategoryId,omitempty"`
	Status        *ProductStatus   `json:"status,omitempty"`
	IsPublished   *bool            `json:"isPublished,omitempty"`
	Search        *string          `json:"search,omitempty"`
	Brand         *string          `json:"brand,omitempty"`
	MinPrice      *decimal.Decimal `json:"minPrice,omitempty"`
	MaxPrice      *decimal.Decimal `json:"maxPrice,omitempty"`
	IncludeStocks bool             `json:"includeStocks,omitempty"`
	Page          int              `json:"page"`
	Limit         int              `json:"limit"`
}

// PaginationInfo carries list paging metadata
type PaginationInfo struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrevious bool  `json:"hasPrevious"`
}

type ProductResponse struct {
	Success bool     `json:"success"`
	Data    *Product `json:"data"`
	Message *string  `json:"message,omitempty"`
}

type ProductListResponse struct {
	Success    bool            `json:"success"`
	Data       []Product       `json:"data"`
	Pagination *PaginationInfo `json:"pagination"`
}

type ErrorResponse struct {
	Success   bool   `json:"success"`
	Error     Error  `json:"error"`
	Timestamp string `json:"timestamp,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Details *JSON  `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}
