package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/devhub-platform/portal/config"
	"github.com/devhub-platform/portal/internal/handler"
	"github.com/devhub-platform/portal/internal/middleware"
	"github.com/devhub-platform/portal/internal/repository"
	"github.com/devhub-platform/portal/internal/router"
	"github.com/devhub-platform/portal/internal/service"
	"github.com/devhub-platform/portal/pkg/database"
	"github.com/devhub-platform/portal/pkg/logger"
	"github.com/devhub-platform/portal/pkg/pool"
	"github.com/devhub-platform/portal/pkg/redis"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		ConnMaxIdleTime: config.Database.ConnMaxIdleTime,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if err := database.Seed(db); err != nil {
		// Seed data may already exist
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
	} else {
		logger.GetLogger().Info("Database seeded successfully")
	}

	redisClient := redis.NewClient(redis.Config{
		Host:         config.Redis.Host,
		Port:         config.Redis.Port,
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		Enabled:      config.Redis.Enabled,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	}, logger.GetLogger())
	defer redisClient.Close()

	logger.GetLogger().Info("Redis client initialized",
		zap.Bool("enabled", redisClient.IsEnabled()),
	)

	hashPool := pool.New(pool.Config{
		Workers:   config.HashPool.Workers,
		QueueSize: config.HashPool.QueueSize,
	}, logger.GetLogger())
	defer hashPool.Shutdown()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	toolRepo := repository.NewToolRepository(db)

	// Services
	issuer := service.NewTokenIssuer(config.JWT.Secret, config.JWT.ExpirationTime, config.JWT.RefreshDuration)
	authService := service.NewAuthService(userRepo, tokenRepo, issuer, hashPool)
	userService := service.NewUserService(userRepo, tokenRepo)
	catalogService := service.NewCatalogService(serviceRepo, redisClient, config.Redis.CacheTTL)
	toolService := service.NewToolService(toolRepo, redisClient, config.Redis.CacheTTL)

	// Background workers
	sweeper := service.NewSessionSweeper(authService, config.Sweep.Interval, logger.GetLogger())
	sweeper.Start()
	defer sweeper.Stop()

	prober := service.NewHealthProber(catalogService, time.Minute, logger.GetLogger())
	prober.Start()
	defer prober.Stop()

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	serviceHandler := handler.NewServiceHandler(catalogService)
	toolHandler := handler.NewToolHandler(toolService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	authGate := middleware.NewAuthenticationGate(issuer, userRepo)

	r := router.NewRouter(
		authHandler,
		userHandler,
		serviceHandler,
		toolHandler,
		healthHandler,
		authGate,
		config,
	).SetupRoutes()

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := r.Run(":" + config.App.Port); err != nil {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")
}
