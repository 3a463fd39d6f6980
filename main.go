package main

import (
	"log"
	"time"

	"marketplace-api/cache"
	"marketplace-api/controllers"
	"marketplace-api/database"
	"marketplace-api/kafka"
	"marketplace-api/logger"
	"marketplace-api/middleware"
	"marketplace-api/models"
	repositories "marketplace-api/repository"
	"marketplace-api/routes"
	"marketplace-api/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Could not load config: %v", err)
	}

	zapLogger := logger.Initialize(cfg.Env)
	defer zapLogger.Sync()

	// Connect to the database
	db, err := database.Connect(database.Config{
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DBName:   cfg.PostgresDB,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		SSLMode:  cfg.PostgresSSLMode,
		TimeZone: cfg.PostgresTimeZone,
	})
	if err != nil {
		zapLogger.Fatal("could not connect to PostgreSQL", zap.Error(err))
	}

	// Run migrations
	if err := models.Migrate(db); err != nil {
		zapLogger.Fatal("migration failed", zap.Error(err))
	}

	// Redis is optional; without it the product listing is served
	// straight from Postgres.
	var productCache *cache.ProductCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		productCache = cache.NewProductCache(redisClient, zapLogger)
		zapLogger.Info("redis product cache enabled", zap.String("addr", cfg.RedisAddr))
	}

	// Kafka is optional; without it order events are not emitted.
	var orderEvents *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		orderEvents = kafka.NewProducer(cfg.KafkaBrokers, cfg.OrderEventsTopic, zapLogger)
		defer orderEvents.Close()
	}

	userRepo := repositories.NewGormUserRepository(db)
	productRepo := repositories.NewGormProductRepository(db)
	orderStore := repositories.NewGormOrderStore(db)

	tokenService := services.NewTokenService(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, tokenService, zapLogger)
	productService := services.NewProductService(productRepo, cacheInvalidator(productCache), zapLogger)
	orderService := services.NewOrderService(orderStore, eventPublisher(orderEvents), cacheInvalidator(productCache), zapLogger)

	authController := controllers.NewAuthController(authService, zapLogger)
	productController := controllers.NewProductController(productService, productCache, zapLogger)
	orderController := controllers.NewOrderController(orderService, zapLogger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.RateLimitMiddleware())
	r.Use(middleware.RequestLogger(zapLogger))

	routes.Register(r, tokenService, authController, productController, orderController)

	zapLogger.Info("marketplace API started", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		zapLogger.Fatal("error starting server", zap.Error(err))
	}
}

// cacheInvalidator keeps a nil *ProductCache from becoming a non-nil
// interface value inside the services.
func cacheInvalidator(c *cache.ProductCache) services.ProductCacheInvalidator {
	if c == nil {
		return nil
	}
	return c
}

func eventPublisher(p *kafka.Producer) services.OrderEventPublisher {
	if p == nil {
		return nil
	}
	return p
}
