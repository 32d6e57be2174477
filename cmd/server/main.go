package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yuvan-fsdev/billing-system/internal/handler"
	"github.com/yuvan-fsdev/billing-system/internal/mailer"
	mid "github.com/yuvan-fsdev/billing-system/internal/middleware"
	"github.com/yuvan-fsdev/billing-system/pkg/config"
	"github.com/yuvan-fsdev/billing-system/pkg/database"
	"github.com/yuvan-fsdev/billing-system/pkg/jwtutil"
	"github.com/yuvan-fsdev/billing-system/pkg/logger"
	"github.com/yuvan-fsdev/billing-system/prometheus"
)

func main() {
	// Load configuration (reads .env when present)
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(appConfig); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting billing-service", appConfig.LogConfig()...)

	// Initialize JWT utility for the back-office routes
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database and run migrations
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Wire the post-commit invoice mailer
	handler.Initialize(mailer.New(appConfig.SMTP))

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.Health)

	// Billing API routes
	e.POST("/api/billing/generate", handler.GenerateBill)
	e.GET("/api/purchases/history", handler.ListPurchaseHistory)
	e.GET("/api/purchases/:id", handler.GetPurchase)

	// Back-office routes - Apply auth middleware to validate the admin JWT
	productAPI := e.Group("/api/products", mid.AuthMiddleware)
	productAPI.GET("", handler.ListProducts)
	productAPI.GET("/:id", handler.GetProduct)
	productAPI.POST("", handler.CreateProduct)
	productAPI.PUT("/:id", handler.UpdateProduct)
	productAPI.DELETE("/:id", handler.DeleteProduct)

	e.GET("/api/denominations", handler.ListDenominations, mid.AuthMiddleware)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
