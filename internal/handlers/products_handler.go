package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalog-service/internal/events"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

type ProductsHandler struct {
	repo            *repository.ProductsRepository
	catalogRepo     *repository.CatalogRepository
	eventsPublisher *events.Publisher
}

func NewProductsHandler(repo *repository.ProductsRepository, catalogRepo *repository.CatalogRepository, eventsPublisher *events.Publisher) *ProductsHandler {
	return &ProductsHandler{
		repo:            repo,
		catalogRepo:     catalogRepo,
		eventsPublisher: eventsPublisher,
	}
}

// CreateProduct creates a new product
// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Param product body models.CreateProductRequest true "Product"
// @Success 201 {object} models.ProductResponse
// @Router /products [post]
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	tenantID := tenantFromContext(c)

	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	sellerID, err := uuid.Parse(req.SellerID)
	if err != nil {
		respondInvalidID(c, "sellerId")
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		respondInvalidID(c, "categoryId")
		return
	}

	// Reject dangling references up front so the caller gets a clear error
	// instead of a constraint violation.
	if _, err := h.catalogRepo.GetSellerByID(tenantID, sellerID); err != nil {
		respondError(c, wrapReferenceError(err, "seller"))
		return
	}
	if _, err := h.catalogRepo.GetCategoryByID(tenantID, categoryID); err != nil {
		respondError(c, wrapReferenceError(err, "category"))
		return
	}

	product := &models.Product{
		SellerID:         sellerID,
		CategoryID:       categoryID,
		Name:             req.Name,
		SKU:              req.SKU,
		ImagePath:        req.ImagePath,
		Barcode:          req.Barcode,
		Type:             models.ProductTypePhysical,
		Brand:            req.Brand,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Price:            req.Price,
		SalePrice:        req.SalePrice,
		Currency:         "USD",
		Status:           models.ProductStatusDraft,
		Metadata:         req.Metadata,
	}
	if req.SubCategoryID != nil {
		subCategoryID, err := uuid.Parse(*req.SubCategoryID)
		if err != nil {
			respondInvalidID(c, "subCategoryId")
			return
		}
		if _, err := h.catalogRepo.GetSubCategoryByID(tenantID, subCategoryID); err != nil {
			respondError(c, wrapReferenceError(err, "sub-category"))
			return
		}
		product.SubCategoryID = &subCategoryID
	}
	if req.Type != nil {
		product.Type = *req.Type
	}
	if req.LeadTime != nil {
		product.LeadTime = *req.LeadTime
	}
	if req.Currency != nil {
		product.Currency = *req.Currency
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	product.TrackInventory = true
	if req.TrackInventory != nil {
		product.TrackInventory = *req.TrackInventory
	}
	if req.IsPublished != nil {
		product.IsPublished = *req.IsPublished
	}
	if req.Status != nil {
		product.Status = *req.Status
	}

	if err := h.repo.CreateProduct(tenantID, product); err != nil {
		respondError(c, err)
		return
	}

	if h.eventsPublisher != nil {
		_ = h.eventsPublisher.PublishProductCreated(c.Request.Context(), product, tenantID, actorFromContext(c))
	}

	c.JSON(http.StatusCreated, models.ProductResponse{
		Success: true,
		Data:    product,
		Message: stringPtr("Product created successfully"),
	})
}

// GetProducts retrieves products with filtering and pagination
// @Summary List products
// @Tags products
// @Produce json
// @Success 200 {object} models.ProductListResponse
// @Router /products [get]
func (h *ProductsHandler) GetProducts(c *gin.Context) {
	tenantID := tenantFromContext(c)
	page, limit := parsePagination(c)

	req := &models.SearchProductsRequest{
		Page:          page,
		Limit:         limit,
		IncludeStocks: c.Query("includeStocks") == "true",
	}
	if v := c.Query("sellerId"); v != "" {
		req.SellerID = &v
	}
	if v := c.Query("categoryId"); v != "" {
		req.CategoryID = &v
	}
	if v := c.Query("subCategoryId"); v != "" {
		req.SubCategoryID = &v
	}
	if v := c.Query("status"); v != "" {
		status := models.ProductStatus(v)
		req.Status = &status
	}
	if v := c.Query("isPublished"); v != "" {
		published := v == "true"
		req.IsPublished = &published
	}
	if v := c.Query("search"); v != "" {
		req.Search = &v
	}
	if v := c.Query("brand"); v != "" {
		req.Brand = &v
	}

	products, total, err := h.repo.GetProducts(tenantID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProductListResponse{
		Success:    true,
		Data:       products,
		Pagination: buildPagination(page, limit, total),
	})
}

// GetProduct retrieves a product with its variations and stock combinations
// @Summary Get product
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.ProductResponse
// @Router /products/{id} [get]
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	tenantID := tenantFromContext(c)
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	includeStocks := c.DefaultQuery("includeStocks", "true") == "true"
	product, err := h.repo.GetProductByID(tenantID, productID, includeStocks)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// GetProductBySlug retrieves a product by slug for storefront reads
// @Summary Get product by slug
// @Tags storefront
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} models.ProductResponse
// @Router /storefront/products/{slug} [get]
func (h *ProductsHandler) GetProductBySlug(c *gin.Context) {
	tenantID := tenantFromContext(c)
	slug := c.Param("slug")

	product, err := h.repo.GetProductBySlug(tenantID, slug)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
	})
}

// UpdateProduct updates a product
// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param product body models.UpdateProductRequest true "Updates"
// @Success 200 {object} models.ProductResponse
// @Router /products/{id} [put]
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	tenantID := tenantFromContext(c)
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	var req models.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	oldProduct, err := h.repo.GetProductByID(tenantID, productID, false)
	if err != nil {
		respondError(c, err)
		return
	}

	updates := make(map[string]interface{})
	changedFields := make([]string, 0)
	appendChange := func(field string, value interface{}) {
		updates[field] = value
		changedFields = append(changedFields, field)
	}

	if req.SellerID != nil {
		sellerID, err := uuid.Parse(*req.SellerID)
		if err != nil {
			respondInvalidID(c, "sellerId")
			return
		}
		if _, err := h.catalogRepo.GetSellerByID(tenantID, sellerID); err != nil {
			respondError(c, wrapReferenceError(err, "seller"))
			return
		}
		appendChange("seller_id", sellerID)
	}
	if req.CategoryID != nil {
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			respondInvalidID(c, "categoryId")
			return
		}
		if _, err := h.catalogRepo.GetCategoryByID(tenantID, categoryID); err != nil {
			respondError(c, wrapReferenceError(err, "category"))
			return
		}
		appendChange("category_id", categoryID)
	}
	if req.SubCategoryID != nil {
		subCategoryID, err := uuid.Parse(*req.SubCategoryID)
		if err != nil {
			respondInvalidID(c, "subCategoryId")
			return
		}
		if _, err := h.catalogRepo.GetSubCategoryByID(tenantID, subCategoryID); err != nil {
			respondError(c, wrapReferenceError(err, "sub-category"))
			return
		}
		appendChange("sub_category_id", subCategoryID)
	}
	if req.Name != nil {
		appendChange("name", *req.Name)
	}
	if req.SKU != nil {
		appendChange("sku", *req.SKU)
	}
	if req.ImagePath != nil {
		appendChange("image_path", *req.ImagePath)
	}
	if req.Barcode != nil {
		appendChange("barcode", *req.Barcode)
	}
	if req.Type != nil {
		appendChange("type", *req.Type)
	}
	if req.Brand != nil {
		appendChange("brand", *req.Brand)
	}
	if req.ShortDescription != nil {
		appendChange("short_description", *req.ShortDescription)
	}
	if req.Description != nil {
		appendChange("description", *req.Description)
	}
	if req.LeadTime != nil {
		appendChange("lead_time", *req.LeadTime)
	}
	if req.Price != nil {
		appendChange("price", *req.Price)
	}
	if req.SalePrice != nil {
		appendChange("sale_price", *req.SalePrice)
	}
	if req.Currency != nil {
		appendChange("currency", *req.Currency)
	}
	if req.StockQuantity != nil {
		appendChange("stock_quantity", *req.StockQuantity)
	}
	if req.TrackInventory != nil {
		appendChange("track_inventory", *req.TrackInventory)
	}
	if req.IsPublished != nil {
		appendChange("is_published", *req.IsPublished)
	}
	if req.Status != nil {
		appendChange("status", *req.Status)
	}
	if req.Metadata != nil {
		appendChange("metadata", *req.Metadata)
	}

	product, err := h.repo.UpdateProduct(tenantID, productID, updates)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.eventsPublisher != nil {
		_ = h.eventsPublisher.PublishProductUpdated(c.Request.Context(), product, oldProduct, changedFields, tenantID, actorFromContext(c))
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
		Message: stringPtr("Product updated successfully"),
	})
}

// DeleteProduct soft deletes a product
// @Summary Delete product
// @Tags products
// @Param id path string true "Product ID"
// @Success 200 {object} models.SuccessResponse
// @Router /products/{id} [delete]
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	tenantID := tenantFromContext(c)
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	product, err := h.repo.GetProductByID(tenantID, productID, false)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.repo.DeleteProduct(tenantID, productID); err != nil {
		respondError(c, err)
		return
	}

	if h.eventsPublisher != nil {
		_ = h.eventsPublisher.PublishProductDeleted(c.Request.Context(), product, tenantID, actorFromContext(c))
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Product deleted successfully"),
	})
}

// PublishProduct marks a product as published and active
// @Summary Publish product
// @Tags products
// @Param id path string true "Product ID"
// @Success 200 {object} models.ProductResponse
// @Router /products/{id}/publish [post]
func (h *ProductsHandler) PublishProduct(c *gin.Context) {
	tenantID := tenantFromContext(c)
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	product, err := h.repo.SetPublished(tenantID, productID, true)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.eventsPublisher != nil {
		_ = h.eventsPublisher.PublishProductPublished(c.Request.Context(), product, tenantID, actorFromContext(c))
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
		Message: stringPtr("Product published successfully"),
	})
}

// UnpublishProduct removes a product from the storefront
// @Summary Unpublish product
// @Tags products
// @Param id path string true "Product ID"
// @Success 200 {object} models.ProductResponse
// @Router /products/{id}/unpublish [post]
func (h *ProductsHandler) UnpublishProduct(c *gin.Context) {
	tenantID := tenantFromContext(c)
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	product, err := h.repo.SetPublished(tenantID, productID, false)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ProductResponse{
		Success: true,
		Data:    product,
		Message: stringPtr("Product unpublished successfully"),
	})
}

// GetCatalogOverview returns product counts for dashboards
// @Summary Catalog overview
// @Tags products
// @Produce json
// @Success 200 {object} models.SuccessResponse
// @Router /products/overview [get]
func (h *ProductsHandler) GetCatalogOverview(c *gin.Context) {
	tenantID := tenantFromContext(c)

	overview, err := h.repo.GetCatalogOverview(tenantID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    overview,
	})
}
