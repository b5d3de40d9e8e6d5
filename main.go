package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vendorpanel/internal/cache"
	"vendorpanel/internal/catalog"
	"vendorpanel/internal/config"
	"vendorpanel/internal/handlers"
	"vendorpanel/internal/middleware"
)

func main() {
	config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	var redisClient *redis.Client
	if config.AppEnv.RedisAddr != "" {
		redisClient, err = cache.InitRedis(config.AppEnv.RedisAddr, config.AppEnv.RedisPassword, logger)
		if err != nil {
			logger.Warn("Redis unavailable, running without cache", zap.Error(err))
			redisClient = nil
		}
	}

	client := catalog.NewClient(
		config.AppEnv.CatalogAPIBase,
		config.AppEnv.AssetOrigin,
		catalog.StaticToken(config.AppEnv.ServiceToken),
		&http.Client{Timeout: config.AppEnv.HTTPTimeout},
		logger,
	)

	productHandler := handlers.NewProductHandler(
		client,
		redisClient,
		logger,
		config.AppEnv.CacheTTL,
		config.AppEnv.DefaultPageSize,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.MetricsMiddleware())

	r.GET("/metrics", middleware.PrometheusHandler())
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	panel := r.Group("/panel/api")
	panel.Use(middleware.VendorAuth(config.AppEnv.JWTSecret, "vendor"))
	{
		panel.GET("/products", productHandler.List)
		panel.GET("/products/:id", productHandler.Get)
		panel.POST("/products", productHandler.Create)
		panel.PUT("/products/:id", productHandler.Update)
		panel.DELETE("/products/:id", productHandler.Delete)

		panel.GET("/categories", productHandler.Categories)
	}

	logger.Info("vendor panel listening", zap.String("port", config.AppEnv.Port))
	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
