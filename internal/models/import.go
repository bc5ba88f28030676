package models

// ImportFormat represents the file format for import
type ImportFormat string

const (
	ImportFormatCSV  ImportFormat = "csv"
	ImportFormatXLSX ImportFormat = "xlsx"
)

// ImportTemplateColumn defines a column in the import template
type ImportTemplateColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
	Type        string `json:"type"` // string, number, boolean, uuid
	Example     string `json:"example"`
}

// ImportTemplate defines the structure of an import template
type ImportTemplate struct {
	Entity  string                 `json:"entity"`
	Version string                 `json:"version"`
	Columns []ImportTemplateColumn `json:"columns"`
}

// ImportRowError represents an error for a specific row
type ImportRowError struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Success      bool             `json:"success"`
	TotalRows    int              `json:"totalRows"`
	SuccessCount int              `json:"successCount"`
	CreatedCount int              `json:"createdCount"`
	UpdatedCount int              `json:"updatedCount"`
	FailedCount  int              `json:"failedCount"`
	SkippedCount int              `json:"skippedCount"`
	Errors       []ImportRowError `json:"errors,omitempty"`
	CreatedIDs   []string         `json:"createdIds,omitempty"`
	ProcessingMs int64            `json:"processingMs"`
}

// ProductImportColumns returns the column definitions for product import
func ProductImportColumns() []ImportTemplateColumn {
	return []ImportTemplateColumn{
		{Name: "name", Description: "Product name", Required: true, Type: "string", Example: "Blue Cotton T-Shirt"},
		{Name: "sku", Description: "Unique product SKU", Required: true, Type: "string", Example: "TSH-BLU-001"},
		{Name: "price", Description: "Product price", Required: true, Type: "number", Example: "29.99"},
		{Name: "sellerId", Description: "Seller UUID (use this OR sellerName)", Required: false, Type: "uuid", Example: ""},
		{Name: "sellerName", Description: "Seller name - must exist", Required: false, Type: "string", Example: "Demo Store"},
		{Name: "categoryId", Description: "Category UUID (use this OR categoryName)", Required: false, Type: "uuid", Example: ""},
		{Name: "categoryName", Description: "Category name - auto-creates if not exists", Required: false, Type: "string", Example: "Apparel"},
		{Name: "description", Description: "Product description", Required: false, Type: "string", Example: ""},
		{Name: "salePrice", Description: "Discounted sale price", Required: false, Type: "number", Example: ""},
		{Name: "currency", Description: "ISO currency code (defaults to USD)", Required: false, Type: "string", Example: "USD"},
		{Name: "quantity", Description: "Initial stock quantity", Required: false, Type: "number", Example: ""},
		{Name: "brand", Description: "Brand name", Required: false, Type: "string", Example: ""},
		{Name: "barcode", Description: "Product barcode", Required: false, Type: "string", Example: ""},
		{Name: "tags", Description: "Comma-separated tags", Required: false, Type: "string", Example: ""},
	}
}

// ProductImportTemplate returns the template definition for products
func ProductImportTemplate() ImportTemplate {
	return ImportTemplate{
		Entity:  "products",
		Version: "1.0",
		Columns: ProductImportColumns(),
	}
}
