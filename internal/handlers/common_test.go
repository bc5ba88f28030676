package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

func newTestContext(t *testing.T, target string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, recorder
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var response models.ErrorResponse
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", repository.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"duplicate sku", repository.ErrDuplicateSKU, http.StatusConflict, "DUPLICATE_SKU"},
		{"duplicate combination", repository.ErrDuplicateOptions, http.StatusConflict, "DUPLICATE_COMBINATION"},
		{"invalid reference", repository.ErrInvalidReference, http.StatusBadRequest, "INVALID_REFERENCE"},
		{"option not of product", repository.ErrOptionNotOfProduct, http.StatusBadRequest, "OPTION_NOT_OF_PRODUCT"},
		{"variation has options", repository.ErrVariationHasOptions, http.StatusBadRequest, "VARIATION_HAS_OPTIONS"},
		{"insufficient stock", repository.ErrInsufficientStock, http.StatusBadRequest, "INSUFFICIENT_STOCK"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, recorder := newTestContext(t, "/")

			respondError(c, tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			response := decodeError(t, recorder)
			assert.False(t, response.Success)
			assert.Equal(t, tt.wantCode, response.Error.Code)
		})
	}
}

func TestRespondError_WrappedSentinel(t *testing.T) {
	c, recorder := newTestContext(t, "/")

	wrapped := errors.Join(errors.New("stock 42"), repository.ErrInsufficientStock)
	respondError(c, wrapped)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "INSUFFICIENT_STOCK", decodeError(t, recorder).Error.Code)
}

func TestRespondValidationError_Unprocessable(t *testing.T) {
	c, recorder := newTestContext(t, "/")

	respondValidationError(c, errors.New("Field validation for 'Name' failed on the 'required' tag"))

	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, recorder).Error.Code)
}

func TestRespondInvalidID_BadRequest(t *testing.T) {
	c, recorder := newTestContext(t, "/")

	respondInvalidID(c, "productId")

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	response := decodeError(t, recorder)
	assert.Equal(t, "INVALID_ID", response.Error.Code)
	assert.Equal(t, "productId", response.Error.Field)
}

func TestWrapReferenceError(t *testing.T) {
	err := wrapReferenceError(repository.ErrNotFound, "category")
	assert.ErrorIs(t, err, repository.ErrInvalidReference)

	other := errors.New("connection refused")
	assert.Equal(t, other, wrapReferenceError(other, "category"))
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/", 1, 20},
		{"explicit values", "/?page=3&limit=50", 3, 50},
		{"zero page clamps", "/?page=0&limit=10", 1, 10},
		{"limit over cap resets", "/?page=2&limit=500", 2, 20},
		{"garbage input", "/?page=abc&limit=xyz", 1, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(t, tt.target)

			page, limit := parsePagination(c)

			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestBuildPagination(t *testing.T) {
	info := buildPagination(2, 20, 45)

	assert.Equal(t, 3, info.TotalPages)
	assert.True(t, info.HasNext)
	assert.True(t, info.HasPrevious)

	last := buildPagination(3, 20, 45)
	assert.False(t, last.HasNext)
}
