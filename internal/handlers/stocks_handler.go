package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalog-service/internal/events"
	"catalog-service/internal/models"
	"catalog-service/internal/services"
)

// StocksHandler serves stock combinations for product variations.
type StocksHandler struct {
	service         *services.StockService
	eventsPublisher *events.Publisher
}

func NewStocksHandler(service *services.StockService, eventsPublisher *events.Publisher) *StocksHandler {
	return &StocksHandler{service: service, eventsPublisher: eventsPublisher}
}

// CreateStock creates a stock entry for an option combination
// @Summary Create stock entry
// @Description Creates a stock entry for a specific combination of variation options
// @Tags stocks
// @Accept json
// @Produce json
// @Param request body models.CreateStockRequest true "Stock data"
// @Success 201 {object} models.StockResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /stocks [post]
func (h *StocksHandler) CreateStock(c *gin.Context) {
	tenantID := tenantFromContext(c)

	var req models.CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	stock, err := h.service.CreateStock(tenantID, &req)
	if err != nil {
		respondError(c, wrapReferenceError(err, "product"))
		return
	}

	c.JSON(http.StatusCreated, models.StockResponse{Success: true, Data: stock})
}

// GetStocks lists stock entries
// @Summary List stock entries
// @Tags stocks
// @Produce json
// @Param productId query string false "Product ID"
// @Param status query string false "Stock status" Enums(available, reserved, sold_out)
// @Param sku query string false "SKU search"
// @Param availableOnly query bool false "Only entries with status available"
// @Param lowStock query bool false "Only entries at or below their threshold"
// @Success 200 {object} models.StockListResponse
// @Router /stocks [get]
func (h *StocksHandler) GetStocks(c *gin.Context) {
	tenantID := tenantFromContext(c)
	page, limit := parsePagination(c)

	filter := &models.StockFilter{Page: page, Limit: limit}
	if v := c.Query("productId"); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			respondInvalidID(c, "productId")
			return
		}
		filter.ProductID = &v
	}
	if v := c.Query("status"); v != "" {
		status := models.StockStatus(v)
		filter.Status = &status
	}
	if v := c.Query("sku"); v != "" {
		filter.SKU = &v
	}
	if v := c.Query("availableOnly"); v == "true" {
		availableOnly := true
		filter.AvailableOnly = &availableOnly
	}
	if v := c.Query("lowStock"); v == "true" {
		lowStock := true
		filter.LowStock = &lowStock
	}

	stocks, total, err := h.service.ListStocks(tenantID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StockListResponse{
		Success:    true,
		Data:       stocks,
		Pagination: buildPagination(filter.Page, filter.Limit, total),
	})
}

// GetStock retrieves a stock entry with its options
// @Summary Get stock entry
// @Tags stocks
// @Produce json
// @Param id path string true "Stock ID"
// @Success 200 {object} models.StockResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stocks/{id} [get]
func (h *StocksHandler) GetStock(c *gin.Context) {
	tenantID := tenantFromContext(c)
	stockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	stock, err := h.service.GetStock(tenantID, stockID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StockResponse{Success: true, Data: stock})
}

// UpdateStock updates a stock entry
// @Summary Update stock entry
// @Tags stocks
// @Accept json
// @Produce json
// @Param id path string true "Stock ID"
// @Param request body models.UpdateStockRequest true "Fields to update"
// @Success 200 {object} models.StockResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /stocks/{id} [put]
func (h *StocksHandler) UpdateStock(c *gin.Context) {
	tenantID := tenantFromContext(c)
	stockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	var req models.UpdateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	stock, err := h.service.UpdateStock(tenantID, stockID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StockResponse{Success: true, Data: stock})
}

// UpdateStockQuantity adjusts a stock quantity atomically
// @Summary Adjust stock quantity
// @Description Sets, increments or decrements the quantity of a stock entry
// @Tags stocks
// @Accept json
// @Produce json
// @Param id path string true "Stock ID"
// @Param request body models.UpdateStockQuantityRequest true "Quantity operation"
// @Success 200 {object} models.StockResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stocks/{id}/quantity [patch]
func (h *StocksHandler) UpdateStockQuantity(c *gin.Context) {
	tenantID := tenantFromContext(c)
	stockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	var req models.UpdateStockQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	change, err := h.service.UpdateQuantity(tenantID, stockID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.eventsPublisher != nil {
		reason := "manual adjustment"
		if req.Reason != nil {
			reason = *req.Reason
		}
		actor := actorFromContext(c)
		_ = h.eventsPublisher.PublishStockAdjusted(c.Request.Context(), change.Stock, change.PreviousQuantity, reason, tenantID, actor)
		if change.Stock.Status != change.PreviousStatus {
			_ = h.eventsPublisher.PublishStockAlert(c.Request.Context(), change.Stock, change.PreviousQuantity, tenantID)
		}
	}

	c.JSON(http.StatusOK, models.StockResponse{Success: true, Data: change.Stock})
}

// DeleteStock deletes a stock entry
// @Summary Delete stock entry
// @Tags stocks
// @Produce json
// @Param id path string true "Stock ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /stocks/{id} [delete]
func (h *StocksHandler) DeleteStock(c *gin.Context) {
	tenantID := tenantFromContext(c)
	stockID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	if err := h.service.DeleteStock(tenantID, stockID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Stock entry deleted successfully"),
	})
}

// GenerateStocks seeds stock entries from the product's option combinations
// @Summary Generate stock entries
// @Description Creates stock entries for the cartesian product of the product's variation options
// @Tags stocks
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body models.GenerateStocksRequest true "Generation defaults"
// @Success 201 {object} models.StockListResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id}/stocks/generate [post]
func (h *StocksHandler) GenerateStocks(c *gin.Context) {
	tenantID := tenantFromContext(c)
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	var req models.GenerateStocksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	stocks, err := h.service.GenerateStocks(tenantID, productID, &req)
	if err != nil {
		respondError(c, wrapReferenceError(err, "product"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    stocks,
		"count":   len(stocks),
	})
}
