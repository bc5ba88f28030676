package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog-service/internal/models"
)

// TenantMiddleware extracts and validates tenant information.
// Requests without a tenant context are rejected, there is no default tenant.
// IstioAuth may already have set tenant_id from JWT claims; headers are the
// fallback for direct (non-mesh) calls.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetString("tenant_id")
		if tenantID == "" {
			tenantID = c.GetHeader("X-Tenant-ID")
		}
		if tenantID == "" {
			tenantID = c.GetHeader("X-Vendor-ID")
		}

		if tenantID == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "TENANT_REQUIRED",
					Message: "Tenant ID is required. Include X-Tenant-ID header.",
				},
			})
			c.Abort()
			return
		}

		c.Set("tenantId", tenantID)
		c.Set("tenant_id", tenantID)
		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) string {
	if tid := c.GetString("tenant_id"); tid != "" {
		return tid
	}
	return c.GetString("tenantId")
}
