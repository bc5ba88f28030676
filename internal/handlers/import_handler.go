package handlers

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"catalog-service/internal/models"
	"catalog-service/internal/repository"
)

// ImportHandler ingests product data from CSV and Excel uploads.
type ImportHandler struct {
	repo        *repository.ProductsRepository
	catalogRepo *repository.CatalogRepository
}

func NewImportHandler(repo *repository.ProductsRepository, catalogRepo *repository.CatalogRepository) *ImportHandler {
	return &ImportHandler{
		repo:        repo,
		catalogRepo: catalogRepo,
	}
}

// GetImportTemplate returns the import template definition or file
// GET /api/v1/products/import/template
func (h *ImportHandler) GetImportTemplate(c *gin.Context) {
	format := c.DefaultQuery("format", "json")

	template := models.ProductImportTemplate()

	switch format {
	case "csv":
		h.generateCSVTemplate(c, template)
	case "xlsx":
		h.generateXLSXTemplate(c, template)
	default:
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"template": template,
		})
	}
}

// generateCSVTemplate generates and downloads a CSV template (headers only)
func (h *ImportHandler) generateCSVTemplate(c *gin.Context, template models.ImportTemplate) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=products_import_template.csv")

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	headers := make([]string, len(template.Columns))
	for i, col := range template.Columns {
		headers[i] = col.Name
	}
	writer.Write(headers)
}

// generateXLSXTemplate generates and downloads an Excel template
func (h *ImportHandler) generateXLSXTemplate(c *gin.Context, template models.ImportTemplate) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Products"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})

	for i, col := range template.Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		headerText := col.Name
		if col.Required {
			headerText = col.Name + " *"
		}
		f.SetCellValue(sheetName, cell, headerText)

		if col.Required {
			f.SetCellStyle(sheetName, cell, cell, requiredStyle)
		} else {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}

		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	// Add Instructions sheet
	f.NewSheet("Instructions")
	f.SetCellValue("Instructions", "A1", "Product Import Instructions")

	f.SetCellValue("Instructions", "A3", "You can use EITHER UUIDs (sellerId, categoryId) OR names (sellerName, categoryName):")
	f.SetCellValue("Instructions", "A4", "- categoryName: If provided, the system will look up the category by name. If not found, it will auto-create it.")
	f.SetCellValue("Instructions", "A5", "- sellerName: If provided, the system will look up the seller by name. Seller MUST exist (create sellers first).")
	f.SetCellValue("Instructions", "A6", "- You can mix and match: use categoryName for one product and categoryId for another.")

	f.SetCellValue("Instructions", "A8", "Column Definitions:")
	f.SetCellValue("Instructions", "A9", "Column")
	f.SetCellValue("Instructions", "B9", "Description")
	f.SetCellValue("Instructions", "C9", "Required")
	f.SetCellValue("Instructions", "D9", "Type")
	f.SetCellValue("Instructions", "E9", "Example")

	for i, col := range template.Columns {
		row := i + 10
		f.SetCellValue("Instructions", fmt.Sprintf("A%d", row), col.Name)
		f.SetCellValue("Instructions", fmt.Sprintf("B%d", row), col.Description)
		required := "Optional"
		if col.Required {
			required = "Required"
		}
		f.SetCellValue("Instructions", fmt.Sprintf("C%d", row), required)
		f.SetCellValue("Instructions", fmt.Sprintf("D%d", row), col.Type)
		f.SetCellValue("Instructions", fmt.Sprintf("E%d", row), col.Example)
	}

	f.SetColWidth("Instructions", "A", "A", 25)
	f.SetColWidth("Instructions", "B", "B", 60)
	f.SetColWidth("Instructions", "C", "C", 15)
	f.SetColWidth("Instructions", "D", "D", 15)
	f.SetColWidth("Instructions", "E", "E", 40)

	sheetIdx, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIdx)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=products_import_template.xlsx")

	f.Write(c.Writer)
}

// ImportProducts imports products from a CSV or Excel file
// POST /api/v1/products/import
func (h *ImportHandler) ImportProducts(c *gin.Context) {
	tenantID := tenantFromContext(c)
	startTime := time.Now()

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "FILE_REQUIRED",
				Message: "Please upload a CSV or Excel file",
			},
		})
		return
	}
	defer file.Close()

	skipDuplicates := c.DefaultPostForm("skipDuplicates", "false") == "true"
	updateExisting := c.DefaultPostForm("updateExisting", "false") == "true"
	validateOnly := c.DefaultPostForm("validateOnly", "false") == "true"

	filename := strings.ToLower(header.Filename)
	var rows []map[string]string
	var parseErr error

	switch {
	case strings.HasSuffix(filename, ".csv"):
		rows, parseErr = h.parseCSV(file)
	case strings.HasSuffix(filename, ".xlsx"):
		rows, parseErr = h.parseXLSX(file)
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "INVALID_FORMAT",
				Message: "Only CSV and XLSX files are supported",
			},
		})
		return
	}

	if parseErr != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "PARSE_ERROR",
				Message: parseErr.Error(),
			},
		})
		return
	}

	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error: models.Error{
				Code:    "EMPTY_FILE",
				Message: "The file contains no data rows",
			},
		})
		return
	}

	result := h.processImport(tenantID, rows, skipDuplicates, updateExisting, validateOnly)
	result.ProcessingMs = time.Since(startTime).Milliseconds()

	c.JSON(http.StatusOK, result)
}

// processImport validates and persists each row, resolving seller and
// category references by ID or name with per-import lookup caches.
func (h *ImportHandler) processImport(tenantID string, rows []map[string]string, skipDuplicates, updateExisting, validateOnly bool) *models.ImportResult {
	result := &models.ImportResult{
		TotalRows:  len(rows),
		Errors:     make([]models.ImportRowError, 0),
		CreatedIDs: make([]string, 0),
	}

	sellerCache := make(map[string]uuid.UUID)
	categoryCache := make(map[string]uuid.UUID)

	for _, row := range rows {
		rowNum, _ := strconv.Atoi(row["_row"])

		h.validateRequiredFields(row, rowNum, result)
		if h.hasRowErrors(result, rowNum) {
			result.FailedCount++
			continue
		}

		sellerID := h.resolveSeller(tenantID, row, rowNum, result, sellerCache)
		categoryID := h.resolveCategory(tenantID, row, rowNum, result, categoryCache)
		if h.hasRowErrors(result, rowNum) {
			result.FailedCount++
			continue
		}

		exists, err := h.repo.SKUExistsForTenant(tenantID, row["sku"])
		if err != nil {
			h.addError(result, rowNum, "sku", "DB_ERROR", err.Error())
			result.FailedCount++
			continue
		}

		if exists && !updateExisting {
			if skipDuplicates {
				result.SkippedCount++
				continue
			}
			h.addError(result, rowNum, "sku", "DUPLICATE_SKU", fmt.Sprintf("SKU %s already exists", row["sku"]))
			result.FailedCount++
			continue
		}

		if validateOnly {
			continue
		}

		price, _ := decimal.NewFromString(row["price"])

		if exists {
			existing, err := h.repo.GetProductBySKU(tenantID, row["sku"])
			if err != nil {
				h.addError(result, rowNum, "sku", "DB_ERROR", err.Error())
				result.FailedCount++
				continue
			}
			updates := map[string]interface{}{
				"name":        row["name"],
				"price":       price,
				"seller_id":   sellerID,
				"category_id": categoryID,
			}
			if row["description"] != "" {
				updates["description"] = row["description"]
			}
			if salePrice, err := decimal.NewFromString(row["saleprice"]); err == nil && row["saleprice"] != "" {
				updates["sale_price"] = salePrice
			}
			if qty := parseOptionalInt(row["quantity"]); qty != nil {
				updates["stock_quantity"] = *qty
			}
			if _, err := h.repo.UpdateProduct(tenantID, existing.ID, updates); err != nil {
				h.addError(result, rowNum, "", "UPDATE_FAILED", err.Error())
				result.FailedCount++
				continue
			}
			result.UpdatedCount++
			continue
		}

		product := &models.Product{
			SellerID:       sellerID,
			CategoryID:     categoryID,
			Name:           row["name"],
			SKU:            row["sku"],
			Type:           models.ProductTypePhysical,
			Price:          price,
			Currency:       "USD",
			TrackInventory: true,
			Status:         models.ProductStatusDraft,
			Description:    optionalString(row["description"]),
			Brand:          optionalString(row["brand"]),
			Barcode:        optionalString(row["barcode"]),
			Metadata:       parseTags(row["tags"]),
		}
		if row["currency"] != "" {
			product.Currency = strings.ToUpper(row["currency"])
		}
		if salePrice, err := decimal.NewFromString(row["saleprice"]); err == nil && row["saleprice"] != "" {
			product.SalePrice = &salePrice
		}
		if qty := parseOptionalInt(row["quantity"]); qty != nil {
			product.StockQuantity = *qty
		}

		if err := h.repo.CreateProduct(tenantID, product); err != nil {
			h.addError(result, rowNum, "", "CREATE_FAILED", err.Error())
			result.FailedCount++
			continue
		}
		result.CreatedCount++
		result.CreatedIDs = append(result.CreatedIDs, product.ID.String())
	}

	if validateOnly {
		result.SuccessCount = result.TotalRows - result.FailedCount
		result.Success = result.SuccessCount > 0
	} else {
		result.SuccessCount = result.CreatedCount + result.UpdatedCount
		result.Success = result.SuccessCount > 0 || result.SkippedCount > 0
	}

	return result
}

// resolveSeller resolves sellerId or sellerName into a seller UUID.
// Sellers are never auto-created.
func (h *ImportHandler) resolveSeller(tenantID string, row map[string]string, rowNum int, result *models.ImportResult, cache map[string]uuid.UUID) uuid.UUID {
	if raw := row["sellerid"]; raw != "" {
		sellerID, err := uuid.Parse(raw)
		if err != nil {
			h.addError(result, rowNum, "sellerId", "INVALID", "sellerId must be a valid UUID")
			return uuid.Nil
		}
		return sellerID
	}

	name := row["sellername"]
	if name == "" {
		h.addError(result, rowNum, "sellerId", "REQUIRED", "Either sellerId or sellerName is required")
		return uuid.Nil
	}

	if cached, ok := cache[name]; ok {
		return cached
	}

	seller, err := h.catalogRepo.GetSellerByName(tenantID, name)
	if err != nil {
		h.addError(result, rowNum, "sellerName", "NOT_FOUND", fmt.Sprintf("Seller %q does not exist", name))
		return uuid.Nil
	}
	cache[name] = seller.ID
	return seller.ID
}

// resolveCategory resolves categoryId or categoryName into a category UUID,
// auto-creating categories referenced by name.
func (h *ImportHandler) resolveCategory(tenantID string, row map[string]string, rowNum int, result *models.ImportResult, cache map[string]uuid.UUID) uuid.UUID {
	if raw := row["categoryid"]; raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			h.addError(result, rowNum, "categoryId", "INVALID", "categoryId must be a valid UUID")
			return uuid.Nil
		}
		return categoryID
	}

	name := row["categoryname"]
	if name == "" {
		h.addError(result, rowNum, "categoryId", "REQUIRED", "Either categoryId or categoryName is required")
		return uuid.Nil
	}

	if cached, ok := cache[name]; ok {
		return cached
	}

	category, err := h.catalogRepo.FindOrCreateCategoryByName(tenantID, name)
	if err != nil {
		h.addError(result, rowNum, "categoryName", "DB_ERROR", err.Error())
		return uuid.Nil
	}
	cache[name] = category.ID
	return category.ID
}

// parseCSV parses a CSV file into rows keyed by normalized header names
func (h *ImportHandler) parseCSV(file io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(file)

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
		headers[i] = strings.TrimSuffix(headers[i], " *")
	}

	var rows []map[string]string
	lineNum := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading line %d: %w", lineNum+1, err)
		}

		row := make(map[string]string)
		for i, value := range record {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(lineNum + 1) // Track row number for error reporting
		rows = append(rows, row)
		lineNum++
	}

	return rows, nil
}

// parseXLSX parses an Excel file into rows
func (h *ImportHandler) parseXLSX(file io.Reader) ([]map[string]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	sheetName := sheets[0]
	// Prefer "Products" sheet if it exists
	for _, name := range sheets {
		if strings.EqualFold(name, "Products") {
			sheetName = name
			break
		}
	}

	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	headers := excelRows[0]
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.ToLower(headers[i]))
		headers[i] = strings.TrimSuffix(headers[i], " *")
	}

	var rows []map[string]string
	for rowIdx, excelRow := range excelRows[1:] {
		row := make(map[string]string)
		for i, value := range excelRow {
			if i < len(headers) {
				row[headers[i]] = strings.TrimSpace(value)
			}
		}
		row["_row"] = strconv.Itoa(rowIdx + 2) // 1-indexed, +1 for header
		rows = append(rows, row)
	}

	return rows, nil
}

// validateRequiredFields checks that all required fields are present
func (h *ImportHandler) validateRequiredFields(row map[string]string, rowNum int, result *models.ImportResult) {
	if row["name"] == "" {
		h.addError(result, rowNum, "name", "REQUIRED", "Product name is required")
	}
	if row["sku"] == "" {
		h.addError(result, rowNum, "sku", "REQUIRED", "SKU is required")
	}
	if row["price"] == "" {
		h.addError(result, rowNum, "price", "REQUIRED", "Price is required")
	} else if _, err := decimal.NewFromString(row["price"]); err != nil {
		h.addError(result, rowNum, "price", "INVALID", "Price must be a valid number")
	}
}

// addError is a helper to add an error to the result
func (h *ImportHandler) addError(result *models.ImportResult, rowNum int, column, code, message string) {
	result.Errors = append(result.Errors, models.ImportRowError{
		Row:     rowNum,
		Column:  column,
		Code:    code,
		Message: message,
	})
}

// hasRowErrors checks if the given row already has errors
func (h *ImportHandler) hasRowErrors(result *models.ImportResult, rowNum int) bool {
	for _, e := range result.Errors {
		if e.Row == rowNum {
			return true
		}
	}
	return false
}

// optionalString returns nil for empty strings, pointer otherwise
func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// parseOptionalInt parses an optional integer from a row field
func parseOptionalInt(value string) *int {
	if value == "" {
		return nil
	}
	if num, err := strconv.Atoi(value); err == nil {
		return &num
	}
	return nil
}

// parseTags parses comma-separated tags into JSON metadata
func parseTags(value string) *models.JSON {
	if value == "" {
		return nil
	}
	tags := strings.Split(value, ",")
	for i := range tags {
		tags[i] = strings.TrimSpace(tags[i])
	}
	tagsJSON := make(models.JSON)
	tagsJSON["tags"] = tags
	return &tagsJSON
}
