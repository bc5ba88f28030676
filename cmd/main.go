package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"catalog-service/internal/config"
	"catalog-service/internal/events"
	"catalog-service/internal/handlers"
	"catalog-service/internal/middleware"
	"catalog-service/internal/repository"
	"catalog-service/internal/seeders"
	"catalog-service/internal/services"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
	"github.com/Tesseract-Nexus/go-shared/rbac"
	"github.com/Tesseract-Nexus/go-shared/secrets"
	"github.com/Tesseract-Nexus/go-shared/tracing"
)

// @title Catalog Management API
// @version 1.0.0
// @description Multi-vendor catalog and variation stock management service
// @termsOfService http://swagger.io/terms/

// @contact.name Catalog API Support
// @contact.url http://www.example.com/support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8093
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize Redis client
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (continuing without Redis)", err)
		redisOpts = &redis.Options{
			Addr: "localhost:6379",
		}
	}
	// Set Redis password from GCP Secret Manager
	redisOpts.Password = secrets.GetRedisPassword()
	redisClient := redis.NewClient(redisOpts)

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (caching will be disabled)", err)
	} else {
		log.Println("✓ Redis connected successfully")
	}
	cancel()

	// Initialize repositories
	productsRepo := repository.NewProductsRepository(db, redisClient)
	catalogRepo := repository.NewCatalogRepository(db, productsRepo.Cache())
	variationsRepo := repository.NewVariationsRepository(db)
	stocksRepo := repository.NewStocksRepository(db, productsRepo.Cache())

	// Initialize services
	variationService := services.NewVariationService(variationsRepo, productsRepo, logger)
	stockService := services.NewStockService(stocksRepo, variationsRepo, productsRepo, logger)

	// Initialize event publisher only if NATS_URL is set
	var eventsPublisher *events.Publisher
	natsURL := os.Getenv("NATS_URL")
	if natsURL != "" {
		var err error
		eventsPublisher, err = events.NewPublisher(logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (continuing without event publishing)", err)
		} else {
			log.Println("✓ Events publisher initialized (NATS connected)")
		}
	} else {
		log.Println("NATS_URL not set, skipping event publishing initialization")
	}
	defer func() {
		if eventsPublisher != nil {
			eventsPublisher.Close()
		}
	}()

	// Initialize handlers with event publisher (may be nil if NATS not configured)
	productsHandler := handlers.NewProductsHandler(productsRepo, catalogRepo, eventsPublisher)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo)
	variationsHandler := handlers.NewVariationsHandler(variationService)
	stocksHandler := handlers.NewStocksHandler(stockService, eventsPublisher)
	exportHandler := handlers.NewExportHandler(stockService)
	importHandler := handlers.NewImportHandler(productsRepo, catalogRepo)

	// Seed demo catalog when enabled
	if cfg.SeedDemoData {
		if err := seeders.SeedDemoCatalog(db, stockService); err != nil {
			log.Printf("WARNING: Failed to seed demo catalog: %v", err)
		}
	}

	// Initialize OpenTelemetry tracing
	var tracerProvider *tracing.TracerProvider
	if cfg.Environment == "production" {
		tracerProvider, err = tracing.InitTracer(tracing.ProductionConfig("catalog-service"))
	} else {
		tracerProvider, err = tracing.InitTracer(tracing.DefaultConfig("catalog-service"))
	}
	if err != nil {
		log.Printf("WARNING: Failed to initialize tracing: %v (continuing without tracing)", err)
	} else {
		log.Println("✓ OpenTelemetry tracing initialized")
	}

	// Initialize Prometheus metrics
	metrics := gosharedmw.InitGlobalMetrics("tesseract", "catalog_service")
	log.Println("✓ Prometheus metrics initialized")

	// Initialize RBAC middleware
	staffServiceURL := os.Getenv("STAFF_SERVICE_URL")
	if staffServiceURL == "" {
		staffServiceURL = "http://staff-service:8080"
	}
	rbacMw := rbac.NewMiddlewareWithURL(staffServiceURL, nil)
	log.Println("✓ RBAC middleware initialized")

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Add observability middleware (metrics + tracing)
	router.Use(metrics.Middleware())
	router.Use(tracing.GinMiddleware("catalog-service"))
	router.Use(gosharedmw.CompressionMiddleware())

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.HealthCheck)
	router.GET("/metrics", gosharedmw.Handler())

	// Protected API routes
	api := router.Group("/api/v1")

	// Initialize Istio auth middleware for Keycloak JWT validation
	// During migration, AllowLegacyHeaders enables fallback to X-* headers from auth-bff
	istioAuthLogger := logrus.NewEntry(logger).WithField("component", "istio_auth")
	istioAuth := gosharedmw.IstioAuth(gosharedmw.IstioAuthConfig{
		RequireAuth:        true,
		AllowLegacyHeaders: true, // Allow X-User-ID, X-Tenant-ID during migration
		Logger:             istioAuthLogger,
	})

	// Authentication middleware
	// In development: use DevelopmentAuthMiddleware for local testing
	// In production: use IstioAuth which reads x-jwt-claim-* headers from Istio
	if cfg.Environment == "development" {
		api.Use(middleware.DevelopmentAuthMiddleware())
		api.Use(middleware.TenantMiddleware()) // Still needed in dev mode
	} else {
		api.Use(istioAuth)
		// Vendor-scoped users can only see products from their vendor
		api.Use(gosharedmw.VendorScopeFilter())
	}

	// API routes
	v1 := api.Group("")
	{
		products := v1.Group("/products")
		{
			// Read operations - require products:read permission
			products.GET("", rbacMw.RequirePermission(rbac.PermissionProductsRead), productsHandler.GetProducts)
			products.GET("/overview", rbacMw.RequirePermission(rbac.PermissionProductsRead), productsHandler.GetCatalogOverview)
			products.GET("/:id", rbacMw.RequirePermission(rbac.PermissionProductsRead), productsHandler.GetProduct)

			// Create operations - require products:create permission
			products.POST("", rbacMw.RequirePermission(rbac.PermissionProductsCreate), productsHandler.CreateProduct)
			products.POST("/:id/stocks/generate", rbacMw.RequirePermission(rbac.PermissionProductsCreate), stocksHandler.GenerateStocks)

			// Update operations - require products:update permission
			products.PUT("/:id", rbacMw.RequirePermission(rbac.PermissionProductsUpdate), productsHandler.UpdateProduct)
			products.POST("/:id/publish", rbacMw.RequirePermission(rbac.PermissionProductsUpdate), productsHandler.PublishProduct)
			products.POST("/:id/unpublish", rbacMw.RequirePermission(rbac.PermissionProductsUpdate), productsHandler.UnpublishProduct)

			// Delete operations - require products:delete permission
			products.DELETE("/:id", rbacMw.RequirePermission(rbac.PermissionProductsDelete), productsHandler.DeleteProduct)

			// Import - require products:import permission
			products.GET("/import/template", rbacMw.RequirePermission(rbac.PermissionProductsImport), importHandler.GetImportTemplate)
			products.POST("/import", rbacMw.RequirePermission(rbac.PermissionProductsImport), importHandler.ImportProducts)
		}

		variations := v1.Group("/variations")
		{
			variations.GET("", rbacMw.RequirePermission(rbac.PermissionProductsRead), variationsHandler.GetVariations)
			variations.GET("/:id", rbacMw.RequirePermission(rbac.PermissionProductsRead), variationsHandler.GetVariation)
			variations.POST("", rbacMw.RequirePermission(rbac.PermissionProductsCreate), variationsHandler.CreateVariation)
			variations.PUT("/:id", rbacMw.RequirePermission(rbac.PermissionProductsUpdate), variationsHandler.UpdateVariation)
			variations.DELETE("/:id", rbacMw.RequirePermission(rbac.PermissionProductsDelete), variationsHandler.DeleteVariation)
		}

		variationOptions := v1.Group("/variation-options")
		{
			variationOptions.GET("", rbacMw.RequirePermission(rbac.PermissionProductsRead), variationsHandler.GetOptions)
			variationOptions.GET("/:id", rbacMw.RequirePermission(rbac.PermissionProductsRead), variationsHandler.GetOption)
			variationOptions.POST("", rbacMw.RequirePermission(rbac.PermissionProductsCreate), variationsHandler.CreateOption)
			variationOptions.PUT("/:id", rbacMw.RequirePermission(rbac.PermissionProductsUpdate), variationsHandler.UpdateOption)
			variationOptions.DELETE("/:id", rbacMw.RequirePermission(rbac.PermissionProductsDelete), variationsHandler.DeleteOption)
		}

		stocks := v1.Group("/stocks")
		{
			// Read operations - require inventory:read permission
			stocks.GET("", rbacMw.RequirePermission(rbac.PermissionInventoryRead), stocksHandler.GetStocks)
			stocks.GET("/export", rbacMw.RequirePermission(rbac.PermissionInventoryRead), exportHandler.ExportStocks)
			stocks.GET("/:id", rbacMw.RequirePermission(rbac.PermissionInventoryRead), stocksHandler.GetStock)

			// Write operations - require inventory:update / inventory:adjust permissions
			stocks.POST("", rbacMw.RequirePermission(rbac.PermissionInventoryUpdate), stocksHandler.CreateStock)
			stocks.PUT("/:id", rbacMw.RequirePermission(rbac.PermissionInventoryUpdate), stocksHandler.UpdateStock)
			stocks.PATCH("/:id/quantity", rbacMw.RequirePermission(rbac.PermissionInventoryAdjust), stocksHandler.UpdateStockQuantity)
			stocks.DELETE("/:id", rbacMw.RequirePermission(rbac.PermissionInventoryUpdate), stocksHandler.DeleteStock)
		}

		sellers := v1.Group("/sellers")
		{
			sellers.GET("", rbacMw.RequirePermission(rbac.PermissionProductsRead), catalogHandler.GetSellers)
			sellers.GET("/:id", rbacMw.RequirePermission(rbac.PermissionProductsRead), catalogHandler.GetSeller)
			sellers.POST("", rbacMw.RequirePermission(rbac.PermissionProductsCreate), catalogHandler.CreateSeller)
			sellers.PUT("/:id", rbacMw.RequirePermission(rbac.PermissionProductsUpdate), catalogHandler.UpdateSeller)
			sellers.DELETE("/:id", rbacMw.RequirePermission(rbac.PermissionProductsDelete), catalogHandler.DeleteSeller)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", rbacMw.RequirePermission(rbac.PermissionCategoriesRead), catalogHandler.GetCategories)
			categories.GET("/:id", rbacMw.RequirePermission(rbac.PermissionCategoriesRead), catalogHandler.GetCategory)
			categories.POST("", rbacMw.RequirePermission(rbac.PermissionCategoriesCreate), catalogHandler.CreateCategory)
			categories.PUT("/:id", rbacMw.RequirePermission(rbac.PermissionCategoriesUpdate), catalogHandler.UpdateCategory)
			categories.DELETE("/:id", rbacMw.RequirePermission(rbac.PermissionCategoriesDelete), catalogHandler.DeleteCategory)
		}

		subCategories := v1.Group("/sub-categories")
		{
			subCategories.GET("", rbacMw.RequirePermission(rbac.PermissionCategoriesRead), catalogHandler.GetSubCategories)
			subCategories.GET("/:id", rbacMw.RequirePermission(rbac.PermissionCategoriesRead), catalogHandler.GetSubCategory)
			subCategories.POST("", rbacMw.RequirePermission(rbac.PermissionCategoriesCreate), catalogHandler.CreateSubCategory)
			subCategories.PUT("/:id", rbacMw.RequirePermission(rbac.PermissionCategoriesUpdate), catalogHandler.UpdateSubCategory)
			subCategories.DELETE("/:id", rbacMw.RequirePermission(rbac.PermissionCategoriesDelete), catalogHandler.DeleteSubCategory)
		}
	}

	// =============================================================================
	// PUBLIC STOREFRONT ENDPOINTS (no auth required, only tenant context)
	// These endpoints are for public storefronts to browse the catalog
	// =============================================================================
	storefront := router.Group("/api/v1/storefront")
	storefront.Use(middleware.TenantMiddleware()) // Require tenant context only
	{
		// Public product browsing
		storefront.GET("/products", productsHandler.GetProducts)
		storefront.GET("/products/:id", productsHandler.GetProduct)
		storefront.GET("/products/slug/:slug", productsHandler.GetProductBySlug)

		// Public category browsing
		storefront.GET("/categories", catalogHandler.GetCategories)
		storefront.GET("/categories/:id", catalogHandler.GetCategory)
		storefront.GET("/sellers/:id", catalogHandler.GetSeller)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Catalog service starting on port %s", port)
		if err := router.Run(":" + port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down catalog-service...")

	// Shutdown tracer provider
	if tracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		} else {
			log.Println("✓ Tracer provider shut down")
		}
	}

	log.Println("Catalog service stopped")
}
