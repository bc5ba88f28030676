package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// CatalogHandler serves sellers, categories and sub-categories.
type CatalogHandler struct {
	repo *repository.CatalogRepository
}

func NewCatalogHandler(repo *repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

// Seller endpoints

// CreateSeller creates a seller
// @Summary Create seller
// @Tags sellers
// @Accept json
// @Produce json
// @Success 201 {object} models.SuccessResponse
// @Router /sellers [post]
func (h *CatalogHandler) CreateSeller(c *gin.Context) {
	tenantID := tenantFromContext(c)

	var req models.CreateSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	seller := &models.Seller{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		ShopName: req.ShopName,
		Address:  req.Address,
		City:     req.City,
		Country:  req.Country,
		Status:   models.SellerStatusActive,
		Metadata: req.Metadata,
	}
	if req.Status != nil {
		seller.Status = *req.Status
	}

	if err := h.repo.CreateSeller(tenantID, seller); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    seller,
		Message: stringPtr("Seller created successfully"),
	})
}

// GetSellers lists sellers
func (h *CatalogHandler) GetSellers(c *gin.Context) {
	tenantID := tenantFromContext(c)
	page, limit := parsePagination(c)

	sellers, total, err := h.repo.GetSellers(tenantID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       sellers,
		"pagination": buildPagination(page, limit, total),
	})
}

// GetSeller retrieves a seller
func (h *CatalogHandler) GetSeller(c *gin.Context) {
	tenantID := tenantFromContext(c)
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	seller, err := h.repo.GetSellerByID(tenantID, sellerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: seller})
}

// UpdateSeller updates a seller
func (h *CatalogHandler) UpdateSeller(c *gin.Context) {
	tenantID := tenantFromContext(c)
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	var req models.UpdateSellerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.ShopName != nil {
		updates["shop_name"] = *req.ShopName
		updates["shop_slug"] = repository.GenerateSlug(*req.ShopName)
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Country != nil {
		updates["country"] = *req.Country
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Metadata != nil {
		updates["metadata"] = *req.Metadata
	}

	seller, err := h.repo.UpdateSeller(tenantID, sellerID, updates)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    seller,
		Message: stringPtr("Seller updated successfully"),
	})
}

// DeleteSeller deletes a seller without products
func (h *CatalogHandler) DeleteSeller(c *gin.Context) {
	tenantID := tenantFromContext(c)
	sellerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	if err := h.repo.DeleteSeller(tenantID, sellerID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Seller deleted successfully"),
	})
}

// Category endpoints

// CreateCategory creates a category
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	tenantID := tenantFromContext(c)

	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	category := &models.Category{
		Name:        req.Name,
		ImagePath:   req.ImagePath,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		category.DisplayOrder = *req.DisplayOrder
	}

	if err := h.repo.CreateCategory(tenantID, category); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    category,
		Message: stringPtr("Category created successfully"),
	})
}

// GetCategories lists categories with their sub-categories
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	tenantID := tenantFromContext(c)
	page, limit := parsePagination(c)

	categories, total, err := h.repo.GetCategories(tenantID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       categories,
		"pagination": buildPagination(page, limit, total),
	})
}

// GetCategory retrieves a category
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	tenantID := tenantFromContext(c)
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	category, err := h.repo.GetCategoryByID(tenantID, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: category})
}

// UpdateCategory updates a category
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	tenantID := tenantFromContext(c)
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	var req models.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ImagePath != nil {
		updates["image_path"] = *req.ImagePath
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}

	category, err := h.repo.UpdateCategory(tenantID, categoryID, updates)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    category,
		Message: stringPtr("Category updated successfully"),
	})
}

// DeleteCategory deletes a category without products
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	tenantID := tenantFromContext(c)
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	if err := h.repo.DeleteCategory(tenantID, categoryID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Category deleted successfully"),
	})
}

// SubCategory endpoints

// CreateSubCategory creates a sub-category
func (h *CatalogHandler) CreateSubCategory(c *gin.Context) {
	tenantID := tenantFromContext(c)

	var req models.CreateSubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		respondInvalidID(c, "categoryId")
		return
	}

	subCategory := &models.SubCategory{
		CategoryID:  categoryID,
		Name:        req.Name,
		ImagePath:   req.ImagePath,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		subCategory.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		subCategory.DisplayOrder = *req.DisplayOrder
	}

	if err := h.repo.CreateSubCategory(tenantID, subCategory); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    subCategory,
		Message: stringPtr("Sub-category created successfully"),
	})
}

// GetSubCategories lists sub-categories, optionally filtered by category
func (h *CatalogHandler) GetSubCategories(c *gin.Context) {
	tenantID := tenantFromContext(c)
	page, limit := parsePagination(c)

	var categoryID *uuid.UUID
	if v := c.Query("categoryId"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			respondInvalidID(c, "categoryId")
			return
		}
		categoryID = &parsed
	}

	subCategories, total, err := h.repo.GetSubCategories(tenantID, categoryID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       subCategories,
		"pagination": buildPagination(page, limit, total),
	})
}

// GetSubCategory retrieves a sub-category
func (h *CatalogHandler) GetSubCategory(c *gin.Context) {
	tenantID := tenantFromContext(c)
	subCategoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	subCategory, err := h.repo.GetSubCategoryByID(tenantID, subCategoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: subCategory})
}

// UpdateSubCategory updates a sub-category
func (h *CatalogHandler) UpdateSubCategory(c *gin.Context) {
	tenantID := tenantFromContext(c)
	subCategoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	var req models.UpdateSubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	updates := make(map[string]interface{})
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			respondInvalidID(c, "categoryId")
			return
		}
		if _, err := h.repo.GetCategoryByID(tenantID, categoryID); err != nil {
			respondError(c, wrapReferenceError(err, "category"))
			return
		}
		updates["category_id"] = categoryID
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ImagePath != nil {
		updates["image_path"] = *req.ImagePath
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}

	subCategory, err := h.repo.UpdateSubCategory(tenantID, subCategoryID, updates)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    subCategory,
		Message: stringPtr("Sub-category updated successfully"),
	})
}

// DeleteSubCategory deletes a sub-category without products
func (h *CatalogHandler) DeleteSubCategory(c *gin.Context) {
	tenantID := tenantFromContext(c)
	subCategoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	if err := h.repo.DeleteSubCategory(tenantID, subCategoryID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Sub-category deleted successfully"),
	})
}
