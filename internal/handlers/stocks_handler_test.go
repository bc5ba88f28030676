package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
	"catalog-service/internal/services"
)

// missingProductReader simulates a dangling product reference.
type missingProductReader struct{}

func (missingProductReader) GetProductByID(tenantID string, productID uuid.UUID, includeStocks bool) (*models.Product, error) {
	return nil, repository.ErrNotFound
}

func newStocksHandlerWithMissingProduct() *StocksHandler {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	service := services.NewStockService(nil, nil, missingProductReader{}, logger)
	return NewStocksHandler(service, nil)
}

func newJSONContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("tenant_id", "tenant-123")
	return c, recorder
}

func TestCreateStock_MissingProductIsInvalidReference(t *testing.T) {
	handler := newStocksHandlerWithMissingProduct()

	body := `{"productId":"` + uuid.NewString() + `","variationOptionIds":["` + uuid.NewString() + `"],"sku":"WH-RED-S"}`
	c, recorder := newJSONContext(t, body)

	handler.CreateStock(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "INVALID_REFERENCE", decodeError(t, recorder).Error.Code)
}

func TestGenerateStocks_MissingProductIsInvalidReference(t *testing.T) {
	handler := newStocksHandlerWithMissingProduct()

	c, recorder := newJSONContext(t, `{}`)
	c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}

	handler.GenerateStocks(c)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "INVALID_REFERENCE", decodeError(t, recorder).Error.Code)
}
