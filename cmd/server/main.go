package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/hifcm/internal/config"
	"github.com/quocanhngo/hifcm/internal/handler"
	"github.com/quocanhngo/hifcm/internal/middleware"
	"github.com/quocanhngo/hifcm/internal/model"
	"github.com/quocanhngo/hifcm/internal/repository"
	"github.com/quocanhngo/hifcm/internal/service"
	"github.com/quocanhngo/hifcm/migrations"
	"github.com/quocanhngo/hifcm/pkg/auth"
	"github.com/quocanhngo/hifcm/pkg/notification"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// @title           HiFCM Push Subscription API
// @version         1.0
// @description     Device token registration and push delivery over Firebase Cloud Messaging.

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @BasePath  /hifcm/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	migrateDown := flag.Bool("migrate-down", false, "roll back the last migration and exit")
	flag.Parse()

	// ==================== Load Config ====================
	cfg := config.Load()

	if *migrateDown {
		if err := migrations.Rollback(cfg.DB.URL()); err != nil {
			log.Fatalf("❌ %v", err)
		}
		return
	}
	log.Printf("🚀 Starting HiFCM API Server [env=%s]", cfg.App.Env)

	// ==================== Database (PostgreSQL) ====================
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.App.Env == "production" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormLogger,
		// Unique violations surface as gorm.ErrDuplicatedKey
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ==================== Run Migrations ====================
	if err := migrations.Run(cfg.DB.URL()); err != nil {
		log.Printf("⚠️  Migration warning: %v", err)
		log.Println("📦 Falling back to GORM AutoMigrate...")
		if err := db.AutoMigrate(
			&model.User{},
			&model.SubscriptionTerm{},
			&model.Device{},
			&model.DeviceToken{},
			&model.Notification{},
		); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	log.Println("✅ Database migrated successfully")

	// ==================== Redis ====================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	// ==================== Initialize Layers ====================
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	deviceRepo := repository.NewDeviceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	termRepo := repository.NewTermRepository(db)

	// Push delivery (FCM)
	sender := notification.NewSender(ctx, cfg.Firebase.CredentialsFile, deviceRepo, notificationRepo)

	// Services
	subscriptionService := service.NewSubscriptionService(deviceRepo, userRepo, sender, notificationRepo)
	termProvider := service.NewTermProvider(termRepo, rdb, cfg.FCM.TermsTTL, cfg.FCM.DefaultTerms)

	// Handlers
	requireAuth := middleware.AuthMiddleware(jwtManager, middleware.NewRedisRevocationList(rdb))
	fcmHandler := handler.NewFCMHandler(subscriptionService, termProvider, requireAuth)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")
	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "hifcm-api",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// ==================== API Routes ====================
	fcmHandler.RegisterRoutes(router.Group(cfg.FCM.Namespace), nil)

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 HiFCM API running on http://0.0.0.0:%s%s", cfg.App.Port, cfg.FCM.Namespace)
	log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	if err := rdb.Close(); err != nil {
		log.Printf("⚠️  Redis close: %v", err)
	}
	log.Println("✅ Server exited gracefully")
}
