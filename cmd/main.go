package main

import (
	"daleel-service/internal/handler"
	"daleel-service/internal/middleware"
	"daleel-service/internal/search"
	"daleel-service/internal/store"
	"daleel-service/internal/store/gormstore"
	"daleel-service/internal/store/memstore"
	"daleel-service/internal/trust"
	"daleel-service/pkg/config"
	"daleel-service/pkg/database"
	"daleel-service/pkg/jwtutil"
	"daleel-service/pkg/logger"
	"daleel-service/pkg/metrics"
	"daleel-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

const serviceVersion = "1.0.0"

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("daleel")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting directory service...", cfg.LogConfig()...)

	// Select the storage backend once at startup
	var st store.Store
	if cfg.StorageBackend == "memory" {
		st = memstore.New()
		log.Info("Using in-memory storage backend")
	} else {
		if _, err := database.InitDB(&cfg.DB); err != nil {
			log.Fatal("Failed to initialize database", zap.Error(err))
		}
		gs := gormstore.New(database.GetDB())
		if err := gs.Migrate(); err != nil {
			log.Fatal("Failed to run database migrations", zap.Error(err))
		}
		st = gs
		log.Info("Database connection established and migrations completed")
	}

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	httpMetrics := metrics.NewHTTPMetrics(cfg.ServiceName)
	log.Info("Prometheus metrics initialized")

	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      cfg.JWT.SigningKey,
		ExpirationHours: cfg.JWT.ExpirationHours,
	})

	// Domain services
	resolver := search.NewResolver(st, st, st, log)
	ledger := trust.NewLedger(st, log)

	// Handlers
	authHandler := handler.NewAuthHandler(st, jwtUtil)
	userHandler := handler.NewUserHandler(st)
	searchHandler := handler.NewSearchHandler(resolver, st)
	contactHandler := handler.NewContactHandler(st, st, ledger)
	reviewHandler := handler.NewReviewHandler(st)
	catalogHandler := handler.NewCatalogHandler(st, st)
	favoriteHandler := handler.NewFavoriteHandler(st)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(httpMetrics.Middleware())

	// Public routes - no authentication required
	e.GET("/health", handler.Health(cfg.ServiceName, serviceVersion))
	e.GET("/metrics", echo.WrapHandler(metrics.GetPrometheusHandler()))

	api := e.Group("/api")
	auth := middleware.JWTAuthMiddleware(jwtUtil)

	// Authentication
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/user", authHandler.Me, auth)

	// User profiles and the business directory
	api.GET("/users", userHandler.ListUsers)
	api.GET("/users/:id", userHandler.GetUser)
	api.GET("/users/phone/:phone", userHandler.GetUserByPhone)
	api.PUT("/users/profile", userHandler.UpdateProfile, auth)
	api.GET("/admin/export/users", userHandler.ExportUsers, auth)
	api.POST("/admin/import/users", userHandler.ImportUsers, auth)

	// Search: unified, grouped phone, grouped name, legacy user-only
	api.GET("/search", searchHandler.UnifiedSearch)
	api.GET("/phone/search/:phoneNumber", searchHandler.SearchByPhone)
	api.GET("/contacts/search", searchHandler.SearchByName)
	api.GET("/search/phone/:phone", searchHandler.SearchUsersByPhone)
	api.GET("/search/name/:name", searchHandler.SearchUsersByName)
	api.GET("/search/history", searchHandler.RecentSearches, auth)

	// Crowd-sourced phone contacts and their trust workflows
	api.POST("/contacts", contactHandler.AddContact, auth)
	api.POST("/contacts/bulk", contactHandler.BulkAddContacts, auth)
	api.GET("/contacts/user/:userId", contactHandler.ContactsByUser, auth)
	api.PUT("/contacts/:id", contactHandler.UpdateContact, auth)
	api.DELETE("/contacts/:id", contactHandler.DeleteContact, auth)
	api.POST("/contacts/:id/verify", contactHandler.VerifyContact, auth)
	api.POST("/contacts/:id/report", contactHandler.ReportContact, auth)
	api.GET("/contacts/:id/reports", contactHandler.ContactReports, auth)

	// Reviews
	api.POST("/users/:userId/reviews", reviewHandler.CreateReview)
	api.GET("/users/:userId/reviews", reviewHandler.ListReviews)
	api.GET("/users/:userId/rating", reviewHandler.RatingSummary)

	// Business catalog: services and products
	api.POST("/services", catalogHandler.CreateService, auth)
	api.GET("/services", catalogHandler.ListServices)
	api.GET("/services/search", catalogHandler.SearchServices)
	api.GET("/services/:id", catalogHandler.GetService)
	api.PUT("/services/:id", catalogHandler.UpdateService, auth)
	api.DELETE("/services/:id", catalogHandler.DeleteService, auth)

	api.POST("/products", catalogHandler.CreateProduct, auth)
	api.GET("/products", catalogHandler.ListProducts)
	api.GET("/products/search", catalogHandler.SearchProducts)
	api.GET("/products/:id", catalogHandler.GetProduct)
	api.PUT("/products/:id", catalogHandler.UpdateProduct, auth)
	api.DELETE("/products/:id", catalogHandler.DeleteProduct, auth)

	// Favorites
	api.GET("/favorites", favoriteHandler.ListFavorites, auth)
	api.POST("/favorites/:itemId", favoriteHandler.AddFavorite, auth)
	api.DELETE("/favorites/:itemId", favoriteHandler.RemoveFavorite, auth)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
