// @title           PropShot Backend API
// @version         1.0.0
// @description     Backend API for the real estate photo editing marketplace. Handles order creation, photo uploads, price quoting, image analysis driven upsell suggestions, discount codes, and the admin workflow for editor assignment and order review.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"log"
	"net/http"
	"net/url"

	"propshot-backend/docs"
	"propshot-backend/internal/analysis"
	"propshot-backend/internal/analytics"
	"propshot-backend/internal/config"
	"propshot-backend/internal/database"
	"propshot-backend/internal/handlers"
	"propshot-backend/internal/middleware"
	"propshot-backend/internal/services"
	"propshot-backend/internal/suggest"
	"propshot-backend/internal/supabase"
	"propshot-backend/internal/validation"
	"propshot-backend/internal/vision"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	dbURL := cfg.DatabaseURL
	if dbURL == "" {
		log.Println("Warning: DATABASE_URL not set. Migrations will be skipped.")
		log.Println("Please set DATABASE_URL environment variable with your Supabase PostgreSQL connection string")
	}

	// Initialize Vision API client
	visionClient := vision.NewClient(cfg.VisionAPIBaseURL, cfg.VisionAPIKey)

	// Initialize Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Supabase client: %v", err)
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage client: %v", err)
	}

	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)

	// Create database client for direct queries
	var dbClient *supabase.DatabaseClient
	if dbURL != "" {
		var err error
		dbClient, err = supabase.NewDatabaseClient(dbURL)
		if err != nil {
			log.Printf("Warning: Failed to initialize database client: %v", err)
			log.Println("Database operations will be limited. Please configure DATABASE_URL properly.")
		} else {
			defer dbClient.Close()

			// Run migrations
			migrator, err := database.NewMigrator(dbURL)
			if err != nil {
				log.Printf("Warning: Failed to initialize migrator: %v", err)
			} else {
				defer migrator.Close()
				if err := migrator.Run(); err != nil {
					log.Printf("Warning: Migration failed: %v", err)
				} else {
					log.Println("Migrations completed successfully")
				}
			}
		}
	}

	// Analysis gateway and suggestion engine. The typed nil checks keep the
	// interfaces truly nil when no database is configured.
	var analysisStore analysis.Store
	var sink analytics.Sink = analytics.LogSink{}
	var ruleStore suggest.RuleStore
	var segmentStore suggest.SegmentStore
	var interactionStore suggest.InteractionStore
	if dbClient != nil {
		analysisStore = dbClient
		sink = analytics.NewStoreSink(dbClient)
		ruleStore = dbClient
		segmentStore = dbClient
		interactionStore = dbClient
	}
	gateway := analysis.NewGateway(visionClient, analysisStore)
	engine := suggest.NewEngine(gateway, ruleStore, segmentStore, interactionStore, sink)

	// Domain services
	var assigner *services.Assigner
	var lifecycle *services.LifecycleService
	if dbClient != nil {
		assigner = services.NewAssigner(dbClient)
		lifecycle = services.NewLifecycleService(dbClient, realtimeClient)
	}

	validate := validation.New()

	// Initialize handlers (dbClient might be nil, handlers should handle this)
	ordersHandler := handlers.NewOrdersHandler(dbClient, realtimeClient, validate)
	photosHandler := handlers.NewPhotosHandler(dbClient, storageClient, realtimeClient)
	quotesHandler := handlers.NewQuotesHandler(validate)
	suggestionsHandler := handlers.NewSuggestionsHandler(engine, validate)
	discountsHandler := handlers.NewDiscountsHandler(dbClient, validate)
	adminHandler := handlers.NewAdminHandler(dbClient, assigner, lifecycle, validate)
	reportsHandler := handlers.NewReportsHandler(dbClient)
	rulesHandler := handlers.NewRulesHandler(dbClient, validate)
	webhooksHandler := handlers.NewWebhooksHandler(cfg, lifecycle)

	// Setup router
	router := gin.Default()

	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	// API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg))

	// Orders
	api.POST("/orders", ordersHandler.CreateOrder)
	api.GET("/orders", ordersHandler.ListOrders)
	api.GET("/orders/:order_id", ordersHandler.GetOrder)
	api.GET("/orders/:order_id/status", ordersHandler.GetStatus)

	// Photos
	api.POST("/orders/:order_id/photos", photosHandler.Upload)
	api.GET("/orders/:order_id/photos", photosHandler.List)

	// Quotes and discounts
	api.POST("/quotes", quotesHandler.Quote)
	api.POST("/discounts/validate", discountsHandler.Validate)

	// Suggestions
	api.POST("/suggestions", suggestionsHandler.GetSuggestions)
	api.POST("/suggestions/interactions", suggestionsHandler.TrackInteraction)

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AdminMiddleware(dbClient))
	admin.GET("/orders", adminHandler.ListOrders)
	admin.POST("/orders/:order_id/assign", adminHandler.AssignEditor)
	admin.POST("/orders/auto-assign", adminHandler.AutoAssign)
	admin.POST("/orders/:order_id/approve", adminHandler.Approve)
	admin.POST("/orders/:order_id/revision", adminHandler.RequestRevision)
	admin.POST("/discounts", discountsHandler.Create)
	admin.GET("/discounts", discountsHandler.List)
	admin.DELETE("/discounts/:code", discountsHandler.Deactivate)
	admin.GET("/reports/summary", reportsHandler.Summary)
	admin.GET("/rules", rulesHandler.List)
	admin.POST("/rules", rulesHandler.Create)
	admin.PUT("/rules/:rule_id", rulesHandler.Update)
	admin.DELETE("/rules/:rule_id", rulesHandler.Delete)

	// Webhooks (no auth, shared-secret tokens)
	router.POST("/api/v1/webhooks/payments", webhooksHandler.HandlePayment)
	router.POST("/api/v1/webhooks/editing", webhooksHandler.HandleEditing)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
