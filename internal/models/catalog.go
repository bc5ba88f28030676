package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SellerStatus represents the status of a seller account
type SellerStatus string

const (
	SellerStatusActive    SellerStatus = "active"
	SellerStatusInactive  SellerStatus = "inactive"
	SellerStatusSuspended SellerStatus = "suspended"
)

// Seller represents a vendor selling products on the marketplace
type Seller struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID string    `json:"tenantId" gorm:"not null;index:idx_sellers_tenant_id;index:idx_sellers_tenant_slug,unique"`

	Name     string  `json:"name" gorm:"not null"`
	Slug     string  `json:"slug" gorm:"not null;index:idx_sellers_tenant_slug,unique"`
	Email    string  `json:"email" gorm:"not null;index"`
	Phone    *string `json:"phone,omitempty" gorm:"type:varchar(30)"`
	ShopName string  `json:"shopName" gorm:"not null"`
	ShopSlug string  `json:"shopSlug" gorm:"not null;index"`
	Address  *string `json:"address,omitempty" gorm:"type:text"`
	City     *string `json:"city,omitempty"`
	Country  *string `json:"country,omitempty"`

	Rating   float64      `json:"rating" gorm:"not null;default:0"`
	Status   SellerStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	Metadata *JSON        `json:"metadata,omitempty" gorm:"type:jsonb"`

	Products []*Product `json:"products,omitempty" gorm:"foreignKey:SellerID"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

func (Seller) TableName() string {
	return "sellers"
}

// Category represents a top-level product grouping
type Category struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID string    `json:"tenantId" gorm:"not null;index:idx_categories_tenant_id;index:idx_categories_tenant_slug,unique"`

	Name         string  `json:"name" gorm:"not null"`
	Slug         string  `json:"slug" gorm:"not null;index:idx_categories_tenant_slug,unique"`
	ImagePath    *string `json:"imagePath,omitempty" gorm:"type:varchar(500)"`
	Description  *string `json:"description,omitempty" gorm:"type:text"`
	IsActive     bool    `json:"isActive" gorm:"not null;default:true"`
	DisplayOrder int     `json:"displayOrder" gorm:"not null;default:0"`

	SubCategories []*SubCategory `json:"subCategories,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

func (Category) TableName() string {
	return "categories"
}

// SubCategory represents a second-level grouping under a category
type SubCategory struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TenantID   string    `json:"tenantId" gorm:"not null;index:idx_sub_categories_tenant_id"`
	CategoryID uuid.UUID `json:"categoryId" gorm:"type:uuid;not null;index"`

	Name         string  `json:"name" gorm:"not null"`
	Slug         string  `json:"slug" gorm:"not null;index"`
	ImagePath    *string `json:"imagePath,omitempty" gorm:"type:varchar(500)"`
	Description  *string `json:"description,omitempty" gorm:"type:text"`
	IsActive     bool    `json:"isActive" gorm:"not null;default:true"`
	DisplayOrder int     `json:"displayOrder" gorm:"not null;default:0"`

	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	DeletedAt *gorm.DeletedAt `json:"deletedAt,omitempty" gorm:"index"`
}

func (SubCategory) TableName() string {
	return "sub_categories"
}

// CreateSellerRequest represents a request to create a seller
type CreateSellerRequest struct {
	Name     string        `json:"name" binding:"required,max=255"`
	Email    string        `json:"email" binding:"required,email"`
	Phone    *string       `json:"phone,omitempty" binding:"omitempty,max=30"`
	ShopName string        `json:"shopName" binding:"required,max=255"`
	Address  *string       `json:"address,omitempty"`
	City     *string       `json:"city,omitempty" binding:"omitempty,max=255"`
	Country  *string       `json:"country,omitempty" binding:"omitempty,max=255"`
	Status   *SellerStatus `json:"status,omitempty" binding:"omitempty,oneof=active inactive suspended"`
	Metadata *JSON         `json:"metadata,omitempty"`
}

// UpdateSellerRequest represents a request to update a seller
type UpdateSellerRequest struct {
	Name     *string       `json:"name,omitempty" binding:"omitempty,max=255"`
	Email    *string       `json:"email,omitempty" binding:"omitempty,email"`
	Phone    *string       `json:"phone,omitempty" binding:"omitempty,max=30"`
	ShopName *string       `json:"shopName,omitempty" binding:"omitempty,max=255"`
	Address  *string       `json:"address,omitempty"`
	City     *string       `json:"city,omitempty" binding:"omitempty,max=255"`
	Country  *string       `json:"country,omitempty" binding:"omitempty,max=255"`
	Rating   *float64      `json:"rating,omitempty" binding:"omitempty,gte=0,lte=5"`
	Status   *SellerStatus `json:"status,omitempty" binding:"omitempty,oneof=active inactive suspended"`
	Metadata *JSON         `json:"metadata,omitempty"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Name         string  `json:"name" binding:"required,max=255"`
	ImagePath    *string `json:"imagePath,omitempty" binding:"omitempty,max=500"`
	Description  *string `json:"description,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty" binding:"omitempty,gte=0"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name         *string `json:"name,omitempty" binding:"omitempty,max=255"`
	ImagePath    *string `json:"imagePath,omitempty" binding:"omitempty,max=500"`
	Description  *string `json:"description,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty" binding:"omitempty,gte=0"`
}

// CreateSubCategoryRequest represents a request to create a sub-category
type CreateSubCategoryRequest struct {
	CategoryID   string  `json:"categoryId" binding:"required,uuid"`
	Name         string  `json:"name" binding:"required,max=255"`
	ImagePath    *string `json:"imagePath,omitempty" binding:"omitempty,max=500"`
	Description  *string `json:"description,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty" binding:"omitempty,gte=0"`
}

// UpdateSubCategoryRequest represents a request to update a sub-category
type UpdateSubCategoryRequest struct {
	CategoryID   *string `json:"categoryId,omitempty" binding:"omitempty,uuid"`
	Name         *string `json:"name,omitempty" binding:"omitempty,max=255"`
	ImagePath    *string `json:"imagePath,omitempty" binding:"omitempty,max=500"`
	Description  *string `json:"description,omitempty"`
	IsActive     *bool   `json:"isActive,omitempty"`
	DisplayOrder *int    `json:"displayOrder,omitempty" binding:"omitempty,gte=0"`
}
