package main

import (
	"inventory-service/internal/handler"
	"inventory-service/internal/history"
	mid "inventory-service/internal/middleware"
	"inventory-service/internal/model"
	"inventory-service/internal/service"
	"inventory-service/internal/store"
	"inventory-service/pkg/config"
	"inventory-service/pkg/database"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("inventory-service")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting inventory-service", appConfig.LogFields()...)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close()
	log.Info("Database connection established")

	db := database.GetDB()

	// Stores and change history
	productStore := store.NewProductStore(db)
	orderStore := store.NewOrderStore(db)
	recorder := history.NewRecorder(db)
	query := history.NewQuery(db, map[model.EntityKind]history.LabelSource{
		model.KindProduct: productStore,
		model.KindOrder:   orderStore,
	}, appConfig.History.DefaultLimit)

	opts := []service.Option{
		service.WithLowStockThreshold(appConfig.Inventory.LowStockThreshold),
		service.WithDashboardLimit(appConfig.History.DashboardLimit),
	}
	h := handler.New(
		service.NewProductService(productStore, recorder, query, opts...),
		service.NewOrderService(orderStore, recorder, query, opts...),
		service.NewDirectory(store.NewRepository[model.Category](db, "category", "name ASC"), "category"),
		service.NewDirectory(store.NewRepository[model.Supplier](db, "supplier", "name ASC"), "supplier"),
		service.NewCustomerService(store.NewRepository[model.Customer](db, "customer", "name ASC"), orderStore),
	)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API routes
	h.Register(e)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
