package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Variation represents a choice axis of a product, e.g. Size or Color.
// Its options enumerate the selectable values along that axis.
type Variation struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID  string    `json:"tenantId" gorm:"not null;index:idx_variations_tenant_id"`
	ProductID uuid.UUID `json:"productId" gorm:"type:uuid;not null;index"`

	Name          string `json:"name" gorm:"not null"`
	Type          string `json:"type" gorm:"type:varchar(50);not null;default:'select'"`
	IsRequired    bool   `json:"isRequired" gorm:"not null;default:false"`
	DisplayOrder  int    `json:"displayOrder" gorm:"not null;default:0"`
	Configuration *JSON  `json:"configuration,omitempty" gorm:"type:jsonb"`

	Options []*VariationOption `json:"options,omitempty" gorm:"foreignKey:VariationID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

func (Variation) TableName() string {
	return "variations"
}

// VariationOption represents one selectable value of a variation.
// At most one option per variation carries IsDefault.
type VariationOption struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID    string    `json:"tenantId" gorm:"not null;index:idx_variation_options_tenant_id"`
	VariationID uuid.UUID `json:"variationId" gorm:"type:uuid;not null;index"`

	Name            string          `json:"name" gorm:"not null"`
	Value           string          `json:"value" gorm:"not null"`
	AdditionalPrice decimal.Decimal `json:"additionalPrice" gorm:"type:decimal(12,2);not null;default:0"`
	IsDefault       bool            `json:"isDefault" gorm:"not null;default:false"`
	DisplayOrder    int             `json:"displayOrder" gorm:"not null;default:0"`
	Metadata        *JSON           `json:"metadata,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

func (VariationOption) TableName() string {
	return "variation_options"
}

// CreateVariationRequest represents a request to create a variation
type CreateVariationRequest struct {
	ProductID     string  `json:"productId" binding:"required,uuid"`
	Name          string  `json:"name" binding:"required,max=255"`
	Type          *string `json:"type,omitempty" binding:"omitempty,max=50"`
	IsRequired    *bool   `json:"isRequired,omitempty"`
	DisplayOrder  *int    `json:"displayOrder,omitempty" binding:"omitempty,gte=0"`
	Configuration *JSON   `json:"configuration,omitempty"`
}

// UpdateVariationRequest represents a request to update a variation
type UpdateVariationRequest struct {
	Name          *string `json:"name,omitempty" binding:"omitempty,max=255"`
	Type          *string `json:"type,omitempty" binding:"omitempty,max=50"`
	IsRequired    *bool   `json:"isRequired,omitempty"`
	DisplayOrder  *int    `json:"displayOrder,omitempty" binding:"omitempty,gte=0"`
	Configuration *JSON   `json:"configuration,omitempty"`
}

// CreateVariationOptionRequest represents a request to create an option
type CreateVariationOptionRequest struct {
	VariationID     string           `json:"variationId" binding:"required,uuid"`
	Name            string           `json:"name" binding:"required,max=255"`
	Value           string           `json:"value" binding:"omitempty,max=255"`
	AdditionalPrice *decimal.Decimal `json:"additionalPrice,omitempty"`
	IsDefault       *bool            `json:"isDefault,omitempty"`
	DisplayOrder    *int             `json:"displayOrder,omitempty" binding:"omitempty,gte=0"`
	Metadata        *JSON            `json:"metadata,omitempty"`
}

// UpdateVariationOptionRequest represents a request to update an option
type UpdateVariationOptionRequest struct {
	Name            *string          `json:"name,omitempty" binding:"omitempty,max=255"`
	Value           *string          `json:"value,omitempty" binding:"omitempty,max=255"`
	AdditionalPrice *decimal.Decimal `json:"additionalPrice,omitempty"`
	IsDefault       *bool            `json:"isDefault,omitempty"`
	DisplayOrder    *int             `json:"displayOrder,omitempty" binding:"omitempty,gte=0"`
	Metadata        *JSON            `json:"metadata,omitempty"`
}
