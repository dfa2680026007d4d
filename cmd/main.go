package main

import (
	"storefront/internal/handler"
	mid "storefront/internal/middleware"
	"storefront/internal/session"
	"storefront/internal/store"
	"storefront/pkg/config"
	"storefront/pkg/logger"
	"storefront/prometheus"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Just log a warning, don't fail if .env file is not found
		// This allows the service to run in environments where env vars are set differently
		// such as production environments with proper environment configuration
		// The fallback values will be used in case env vars are not set
	}

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting storefront",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize the document store
	if err := store.Init(appConfig); err != nil {
		log.Fatal("Failed to initialize document store", zap.Error(err))
	}
	log.Info("Document store initialized", zap.String("path", appConfig.Store.Path))

	// Initialize cookie sessions
	session.Init(appConfig)
	log.Info("Session store initialized",
		zap.Duration("max_age", appConfig.Session.MaxAge))

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Routes
	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public catalog API
	e.GET("/api/products", handler.ListProducts)
	e.GET("/api/categories", handler.ListCategories)
	e.GET("/api/settings", handler.GetSettings)

	// Customer account API
	e.POST("/api/user/register", handler.RegisterUser)
	e.POST("/api/user/login", handler.LoginUser)
	e.POST("/api/user/logout", handler.LogoutUser)
	e.GET("/api/user/check", handler.CheckUser)

	// Admin authentication (unguarded by design)
	e.POST("/api/admin/login", handler.AdminLogin)
	e.GET("/api/admin/check", handler.AdminCheck)

	// Admin console API - guarded by the admin session middleware
	adminAPI := e.Group("/api/admin", mid.RequireAdmin)
	adminAPI.POST("/logout", handler.AdminLogout)
	adminAPI.GET("/products", handler.AdminListProducts)
	adminAPI.GET("/users", handler.AdminListUsers)
	adminAPI.POST("/products", handler.AdminCreateProduct)
	adminAPI.PUT("/products/:id", handler.AdminUpdateProduct)
	adminAPI.DELETE("/products/:id", handler.AdminDeleteProduct)
	adminAPI.POST("/settings", handler.AdminUpdateSettings)
	adminAPI.POST("/change-password", handler.AdminChangePassword)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
