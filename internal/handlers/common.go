package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"

	"catalog-service/internal/events"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

func stringPtr(s string) *string {
	return &s
}

// tenantFromContext returns the tenant resolved by the tenant middleware
func tenantFromContext(c *gin.Context) string {
	tenantID, _ := c.Get("tenant_id")
	if s, ok := tenantID.(string); ok {
		return s
	}
	return ""
}

// actorFromContext builds event attribution from the authenticated request
func actorFromContext(c *gin.Context) events.ActorContext {
	actor := gosharedmw.GetActorInfo(c)
	return events.ActorContext{
		ActorID:    actor.ActorID,
		ActorName:  actor.ActorName,
		ActorEmail: actor.ActorEmail,
		ClientIP:   c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}
}

// respondError maps repository sentinel errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, repository.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, repository.ErrDuplicateSKU):
		status, code = http.StatusConflict, "DUPLICATE_SKU"
	case errors.Is(err, repository.ErrDuplicateSlug):
		status, code = http.StatusConflict, "DUPLICATE_SLUG"
	case errors.Is(err, repository.ErrDuplicateOptions):
		status, code = http.StatusConflict, "DUPLICATE_COMBINATION"
	case errors.Is(err, repository.ErrInvalidReference):
		status, code = http.StatusBadRequest, "INVALID_REFERENCE"
	case errors.Is(err, repository.ErrOptionNotOfProduct):
		status, code = http.StatusBadRequest, "OPTION_NOT_OF_PRODUCT"
	case errors.Is(err, repository.ErrVariationHasOptions):
		status, code = http.StatusBadRequest, "VARIATION_HAS_OPTIONS"
	case errors.Is(err, repository.ErrOptionInUse):
		status, code = http.StatusBadRequest, "REFERENCED_BY_OTHERS"
	case errors.Is(err, repository.ErrInsufficientStock):
		status, code = http.StatusBadRequest, "INSUFFICIENT_STOCK"
	default:
		status, code = http.StatusInternalServerError, "INTERNAL_ERROR"
	}

	c.JSON(status, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    code,
			Message: err.Error(),
		},
	})
}

// wrapReferenceError converts a missing referenced record into an invalid
// reference error so lookups inside a write surface as 400, not 404.
func wrapReferenceError(err error, entity string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: %s", repository.ErrInvalidReference, entity)
	}
	return err
}

// respondValidationError returns a 422 for request payloads that fail
// validation. Malformed path and query IDs stay 400 via respondInvalidID.
func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		},
	})
}

// respondInvalidID returns a 400 for a malformed path ID
func respondInvalidID(c *gin.Context, field string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Success: false,
		Error: models.Error{
			Code:    "INVALID_ID",
			Message: "Invalid " + field + " format",
			Field:   field,
		},
	})
}

// parsePagination reads page/limit query parameters with defaults
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// buildPagination computes paging metadata for list responses
func buildPagination(page, limit int, total int64) *models.PaginationInfo {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &models.PaginationInfo{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
	}
}
