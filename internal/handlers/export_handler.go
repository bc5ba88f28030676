package handlers

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/models"
	"catalog-service/internal/services"
)

// ExportHandler streams stock data as CSV or XLSX downloads.
type ExportHandler struct {
	service *services.StockService
}

func NewExportHandler(service *services.StockService) *ExportHandler {
	return &ExportHandler{service: service}
}

var stockExportColumns = []string{
	"SKU", "Product ID", "Options", "Price", "Quantity",
	"Reserved", "Available", "Low Stock Threshold", "Status",
}

// ExportStocks downloads all stock entries of the tenant
// @Summary Export stock entries
// @Description Exports stock entries as CSV or XLSX, optionally filtered by product
// @Tags stocks
// @Produce json
// @Param format query string false "Export format" Enums(csv, xlsx) default(xlsx)
// @Param productId query string false "Product ID"
// @Success 200 {file} binary
// @Failure 400 {object} models.ErrorResponse
// @Router /stocks/export [get]
func (h *ExportHandler) ExportStocks(c *gin.Context) {
	tenantID := tenantFromContext(c)

	var productID *uuid.UUID
	if v := c.Query("productId"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			respondInvalidID(c, "productId")
			return
		}
		productID = &parsed
	}

	stocks, err := h.service.ExportStocks(tenantID, productID)
	if err != nil {
		respondError(c, err)
		return
	}

	switch c.DefaultQuery("format", "xlsx") {
	case "csv":
		h.writeCSV(c, stocks)
	default:
		h.writeXLSX(c, stocks)
	}
}

func stockExportRow(stock *models.VariationStock) []string {
	optionNames := make([]string, len(stock.Options))
	for i, option := range stock.Options {
		optionNames[i] = option.Value
	}

	return []string{
		stock.SKU,
		stock.ProductID.String(),
		strings.Join(optionNames, " / "),
		stock.Price.StringFixed(2),
		strconv.Itoa(stock.Quantity),
		strconv.Itoa(stock.ReservedQuantity),
		strconv.Itoa(stock.AvailableQuantity()),
		strconv.Itoa(stock.LowStockThreshold),
		string(stock.Status),
	}
}

func (h *ExportHandler) writeCSV(c *gin.Context, stocks []models.VariationStock) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=stocks_%s.csv", time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(stockExportColumns)
	for i := range stocks {
		writer.Write(stockExportRow(&stocks[i]))
	}
}

func (h *ExportHandler) writeXLSX(c *gin.Context, stocks []models.VariationStock) {
	const sheetName = "Stocks"

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
	})

	for i, col := range stockExportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, col)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 18)
	}

	for rowIdx := range stocks {
		row := stockExportRow(&stocks[rowIdx])
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=stocks_%s.xlsx", time.Now().Format("20060102")))

	f.Write(c.Writer)
}
