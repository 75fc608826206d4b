package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/portalhomehub/portal-backend/internal/config"
	"github.com/portalhomehub/portal-backend/internal/handler"
	"github.com/portalhomehub/portal-backend/internal/middleware"
	"github.com/portalhomehub/portal-backend/internal/migration"
	"github.com/portalhomehub/portal-backend/internal/repository"
	"github.com/portalhomehub/portal-backend/internal/routes"
	"github.com/portalhomehub/portal-backend/internal/service"
	pkgcache "github.com/portalhomehub/portal-backend/pkg/cache"
	pkgjwt "github.com/portalhomehub/portal-backend/pkg/jwt"
	pkglogger "github.com/portalhomehub/portal-backend/pkg/logger"
	pkgredis "github.com/portalhomehub/portal-backend/pkg/redis"
)

// @title           Portal Home Hub API
// @version         1.0
// @description     Real-estate listing platform - draft autosave, publish and listing API
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	pkglogger.Init()
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)

	// MySQL
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	pkglogger.Info("Connected to MySQL")
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	// Redis (optional; the service degrades to cache misses without it)
	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		pkglogger.Warn("Failed to connect to Redis: %v (continuing without cache)", err)
		redisClient = nil
	} else {
		pkglogger.Info("Connected to Redis")
	}

	var cacheService pkgcache.Service
	if redisClient != nil {
		cacheService = pkgcache.NewService(redisClient)
		pkglogger.Info("Cache service initialized")
	}

	// Repositories
	draftRepo := repository.NewDraftRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Services
	dedupPolicy := service.NewDedupPolicy(
		time.Duration(cfg.Drafts.DedupWindowMinutes)*time.Minute,
		cfg.Drafts.DedupMaxCandidates,
		cfg.Drafts.GenericTitleMarkers,
	)
	draftTTL := time.Duration(cfg.Drafts.TTLDays) * 24 * time.Hour
	draftService := service.NewDraftService(draftRepo, userRepo, dedupPolicy, draftTTL)
	publishService := service.NewPublishService(draftRepo, propertyRepo, userRepo, cacheService, dedupPolicy)
	propertyService := service.NewPropertyService(propertyRepo, cacheService)

	// Handlers
	draftHandler := handler.NewDraftHandler(draftService, publishService)
	propertyHandler := handler.NewPropertyHandler(propertyService)

	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	// Router
	if env != "local" && env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.Server.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	routes.Setup(router, draftHandler, propertyHandler, jwtManager)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", healthHandler(db, cacheService))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	pkglogger.Info("Starting server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func initDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func healthHandler(db *gorm.DB, cacheService pkgcache.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			dbStatus = "down"
			status = http.StatusServiceUnavailable
		}

		cacheStatus := "disabled"
		if cacheService != nil {
			cacheStatus = "up"
			if err := cacheService.Ping(context.Background()); err != nil {
				cacheStatus = "down"
			}
		}

		c.JSON(status, gin.H{
			"success": status == http.StatusOK,
			"db":      dbStatus,
			"cache":   cacheStatus,
		})
	}
}
