package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"ecommerce_api/internal/api"        // Custom package for API handlers
	"ecommerce_api/internal/config"     // Custom package for configuration
	"ecommerce_api/internal/middleware" // Custom package for middleware
	"ecommerce_api/internal/service"    // Order workflow and mailer

	"github.com/gin-contrib/cors"  // CORS middleware
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Injected collaborators (no ambient globals)
	mailer := service.NewSMTPMailer(cfg)
	orders := service.NewOrderService(db, mailer, cfg.DeliveryCharge, cfg.DeliveryDays)

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// The frontend is served from a different origin
	r.Use(cors.Default())

	apiGroup := r.Group("/api")

	// Liveness probe
	apiGroup.GET("/health", api.HealthHandler(db, redisClient))

	// Auth routes (public)
	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", api.RegisterHandler(db, mailer))                     // Registration endpoint
	authGroup.POST("/login", api.LoginHandler(db, cfg.JWTSecret))                    // Login endpoint
	authGroup.POST("/forgot-password", api.ForgotPasswordHandler(db, cfg, mailer))   // Reset ticket issuance
	authGroup.POST("/reset-password", api.ResetPasswordHandler(db, cfg))             // Reset ticket consumption

	// Catalog routes (public)
	apiGroup.GET("/products", api.ListProductsHandler(db, redisClient))     // Filtered catalog endpoint
	apiGroup.GET("/products/:id", api.GetProductHandler(db))                // Single product endpoint
	apiGroup.GET("/categories", api.ListCategoriesHandler(db, redisClient)) // Category counts endpoint

	// Cart routes (protected by JWT)
	cartGroup := apiGroup.Group("/cart")
	cartGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	cartGroup.POST("/add", api.AddToCartHandler(db))                    // Add/increment cart line
	cartGroup.GET("", api.GetCartHandler(db))                           // Fetch cart with product data
	cartGroup.PUT("/update", api.UpdateCartHandler(db))                 // Set/remove cart line
	cartGroup.DELETE("/remove/:productId", api.RemoveFromCartHandler(db)) // Remove cart line

	// Order routes (protected by JWT)
	orderGroup := apiGroup.Group("/orders")
	orderGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	orderGroup.POST("", api.PlaceOrderHandler(db, redisClient, orders)) // Checkout endpoint
	orderGroup.GET("", api.ListOrdersHandler(db, redisClient))          // Order history endpoint
	orderGroup.GET("/:id", api.GetOrderHandler(db))                     // Single order endpoint

	// Profile routes (protected by JWT)
	userGroup := apiGroup.Group("/user")
	userGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	userGroup.GET("/profile", api.GetProfileHandler(db))    // Profile endpoint
	userGroup.PUT("/profile", api.UpdateProfileHandler(db)) // Profile update endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
