package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockStatus represents the availability of a stock combination.
// It is always derived from quantity and threshold, never set directly.
type StockStatus string

const (
	StockStatusAvailable StockStatus = "available"
	StockStatusReserved  StockStatus = "reserved"
	StockStatusSoldOut   StockStatus = "sold_out"
)

// DefaultLowStockThreshold applies when a stock row is created without one.
const DefaultLowStockThreshold = 5

// DeriveStockStatus computes the status for a quantity against a low-stock
// threshold. Zero or negative quantity is sold out, at or below the threshold
// is reserved, anything above is available.
func DeriveStockStatus(quantity, lowStockThreshold int) StockStatus {
	switch {
	case quantity <= 0:
		return StockStatusSoldOut
	case quantity <= lowStockThreshold:
		return StockStatusReserved
	default:
		return StockStatusAvailable
	}
}

// VariationStock represents one purchasable combination of variation options
// for a product, carrying its own SKU, price and quantity. The linked options
// must each belong to a different variation of the owning product, and no two
// stocks of the same product may reference the same option set.
type VariationStock struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  string    `json:"tenantId" gorm:"not null;index:idx_variation_stocks_tenant_id;index:idx_variation_stocks_tenant_sku,unique"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`

	SKU               string          `json:"sku" gorm:"not null;index:idx_variation_stocks_tenant_sku,unique"`
	ImagePath         *string         `json:"imagePath,omitempty" gorm:"type:varchar(500)"`
	Price             decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity          int             `json:"quantity" gorm:"not null;default:0"`
	ReservedQuantity  int             `json:"reservedQuantity" gorm:"not null;default:0"`
	LowStockThreshold int             `json:"lowStockThreshold" gorm:"not null;default:5"`
	Status            StockStatus     `json:"status" gorm:"type:varchar(20);not null;default:'available';index"`
	OptionValues      *JSON           `json:"optionValues,omitempty" gorm:"type:jsonb"`
	Metadata          *JSON           `json:"metadata,omitempty" gorm:"type:jsonb"`

	Options []*VariationOption `json:"options,omitempty" gorm:"many2many:variation_stock_options;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

func (VariationStock) TableName() string {
	return "variation_stocks"
}

// AvailableQuantity returns the quantity not held by reservations.
func (s *VariationStock) AvailableQuantity() int {
	available := s.Quantity - s.ReservedQuantity
	if available < 0 {
		return 0
	}
	return available
}

// QuantityOperation names the three ways a stock quantity can change
type QuantityOperation string

const (
	QuantityOpSet       QuantityOperation = "set"
	QuantityOpIncrement QuantityOperation = "increment"
	QuantityOpDecrement QuantityOperation = "decrement"
)

// CreateStockRequest represents a request to create a stock combination
type CreateStockRequest struct {
	ProductID          string           `json:"productId" binding:"required,uuid"`
	VariationOptionIDs []string         `json:"variationOptionIds" binding:"required,min=1,dive,uuid"`
	SKU                string           `json:"sku" binding:"required,max=255"`
	ImagePath          *string          `json:"imagePath,omitempty" binding:"omitempty,max=500"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	Quantity           *int             `json:"quantity,omitempty" binding:"omitempty,gte=0"`
	ReservedQuantity   *int             `json:"reservedQuantity,omitempty" binding:"omitempty,gte=0"`
	LowStockThreshold  *int             `json:"lowStockThreshold,omitempty" binding:"omitempty,gte=0"`
	Metadata           *JSON            `json:"metadata,omitempty"`
}

// UpdateStockRequest represents a request to update a stock combination
type UpdateStockRequest struct {
	VariationOptionIDs []string         `json:"variationOptionIds,omitempty" binding:"omitempty,min=1,dive,uuid"`
	SKU                *string          `json:"sku,omitempty" binding:"omitempty,max=255"`
	ImagePath          *string          `json:"imagePath,omitempty" binding:"omitempty,max=500"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	Quantity           *int             `json:"quantity,omitempty" binding:"omitempty,gte=0"`
	ReservedQuantity   *int             `json:"reservedQuantity,omitempty" binding:"omitempty,gte=0"`
	LowStockThreshold  *int             `json:"lowStockThreshold,omitempty" binding:"omitempty,gte=0"`
	Metadata           *JSON            `json:"metadata,omitempty"`
}

// UpdateStockQuantityRequest adjusts the quantity of a stock combination.
// Quantity is a pointer so an explicit zero passes required validation.
type UpdateStockQuantityRequest struct {
	Quantity  *int              `json:"quantity" binding:"required,gte=0"`
	Operation QuantityOperation `json:"operation" binding:"required,oneof=set increment decrement"`
	Reason    *string           `json:"reason,omitempty" binding:"omitempty,max=500"`
}

// GenerateStocksRequest seeds stock combinations for a product from the
// cartesian product of its variation options.
type GenerateStocksRequest struct {
	Quantity          *int             `json:"quantity,omitempty" binding:"omitempty,gte=0"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	LowStockThreshold *int             `json:"lowStockThreshold,omitempty" binding:"omitempty,gte=0"`
}

// StockFilter represents stock list filters
type StockFilter struct {
	ProductID     *string      `json:"productId,omitempty"`
	Status        *StockStatus `json:"status,omitempty"`
	SKU           *string      `json:"sku,omitempty"`
	AvailableOnly *bool        `json:"availableOnly,omitempty"`
	LowStock      *bool        `json:"lowStock,omitempty"`
	Page          int          `json:"page"`
	Limit         int          `json:"limit"`
}

// StockResponse wraps a single stock combination
type StockResponse struct {
	Success bool            `json:"success"`
	Data    *VariationStock `json:"data"`
	Message *string         `json:"message,omitempty"`
}

// StockListResponse wraps a paginated stock list
type StockListResponse struct {
	Success    bool             `json:"success"`
	Data       []VariationStock `json:"data"`
	Pagination *PaginationInfo  `json:"pagination"`
}
