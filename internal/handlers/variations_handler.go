package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"catalog-service/internal/models"
	"catalog-service/internal/services"
)

// VariationsHandler serves product variations and their options.
type VariationsHandler struct {
	service *services.VariationService
}

func NewVariationsHandler(service *services.VariationService) *VariationsHandler {
	return &VariationsHandler{service: service}
}

// CreateVariation creates a variation for a product
// @Summary Create variation
// @Tags variations
// @Accept json
// @Produce json
// @Success 201 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /variations [post]
func (h *VariationsHandler) CreateVariation(c *gin.Context) {
	tenantID := tenantFromContext(c)

	var req models.CreateVariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	variation, err := h.service.CreateVariation(tenantID, &req)
	if err != nil {
		respondError(c, wrapReferenceError(err, "product"))
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    variation,
		Message: stringPtr("Variation created successfully"),
	})
}

// GetVariations lists variations, optionally filtered by product
// @Summary List variations
// @Tags variations
// @Produce json
// @Param productId query string false "Product ID"
// @Success 200 {object} models.SuccessResponse
// @Router /variations [get]
func (h *VariationsHandler) GetVariations(c *gin.Context) {
	tenantID := tenantFromContext(c)
	page, limit := parsePagination(c)

	var productID *uuid.UUID
	if v := c.Query("productId"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			respondInvalidID(c, "productId")
			return
		}
		productID = &parsed
	}

	variations, total, err := h.service.ListVariations(tenantID, productID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       variations,
		"pagination": buildPagination(page, limit, total),
	})
}

// GetVariation retrieves a variation with its options
func (h *VariationsHandler) GetVariation(c *gin.Context) {
	tenantID := tenantFromContext(c)
	variationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	variation, err := h.service.GetVariation(tenantID, variationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: variation})
}

// UpdateVariation updates a variation
func (h *VariationsHandler) UpdateVariation(c *gin.Context) {
	tenantID := tenantFromContext(c)
	variationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	var req models.UpdateVariationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	variation, err := h.service.UpdateVariation(tenantID, variationID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    variation,
		Message: stringPtr("Variation updated successfully"),
	})
}

// DeleteVariation deletes a variation that has no options
func (h *VariationsHandler) DeleteVariation(c *gin.Context) {
	tenantID := tenantFromContext(c)
	variationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	if err := h.service.DeleteVariation(tenantID, variationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Variation deleted successfully"),
	})
}

// CreateOption creates an option under a variation
// @Summary Create variation option
// @Tags variations
// @Accept json
// @Produce json
// @Success 201 {object} models.SuccessResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Router /variation-options [post]
func (h *VariationsHandler) CreateOption(c *gin.Context) {
	tenantID := tenantFromContext(c)

	var req models.CreateVariationOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	option, err := h.service.CreateOption(tenantID, &req)
	if err != nil {
		respondError(c, wrapReferenceError(err, "variation"))
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse{
		Success: true,
		Data:    option,
		Message: stringPtr("Variation option created successfully"),
	})
}

// GetOptions lists options, optionally filtered by variation
func (h *VariationsHandler) GetOptions(c *gin.Context) {
	tenantID := tenantFromContext(c)
	page, limit := parsePagination(c)

	var variationID *uuid.UUID
	if v := c.Query("variationId"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			respondInvalidID(c, "variationId")
			return
		}
		variationID = &parsed
	}

	options, total, err := h.service.ListOptions(tenantID, variationID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       options,
		"pagination": buildPagination(page, limit, total),
	})
}

// GetOption retrieves a single option
func (h *VariationsHandler) GetOption(c *gin.Context) {
	tenantID := tenantFromContext(c)
	optionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	option, err := h.service.GetOption(tenantID, optionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Data: option})
}

// UpdateOption updates an option. Promoting an option to default demotes
// its siblings in the same transaction.
func (h *VariationsHandler) UpdateOption(c *gin.Context) {
	tenantID := tenantFromContext(c)
	optionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	var req models.UpdateVariationOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	option, err := h.service.UpdateOption(tenantID, optionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Data:    option,
		Message: stringPtr("Variation option updated successfully"),
	})
}

// DeleteOption deletes an option not referenced by any stock entry
func (h *VariationsHandler) DeleteOption(c *gin.Context) {
	tenantID := tenantFromContext(c)
	optionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondInvalidID(c, "id")
		return
	}

	if err := h.service.DeleteOption(tenantID, optionID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: stringPtr("Variation option deleted successfully"),
	})
}
