package main

// @title Route Planner API
// @version 1.0.0
// @description Сервис сохранённых маршрутов и прокси к OpenRouteService.
// @description
// @description Основные возможности:
// @description - Сохранение, просмотр и удаление маршрутов
// @description - Подсказки адресов и геокодирование через ORS
// @description - Построение маршрута между двумя точками через ORS

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8000
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/route-planner/docs/swagger"
	"github.com/route-planner/internal/config"
	httpDelivery "github.com/route-planner/internal/delivery/http"
	"github.com/route-planner/internal/delivery/http/handler"
	"github.com/route-planner/internal/domain/repository"
	"github.com/route-planner/internal/infrastructure/ors"
	"github.com/route-planner/internal/pkg/logger"
	"github.com/route-planner/internal/repository/cache"
	redisRepo "github.com/route-planner/internal/repository/redis"
	"github.com/route-planner/internal/repository/sqlstore"
	"github.com/route-planner/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Route Planner")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("store_driver", cfg.Store.Driver),
		zap.Bool("redis_enabled", cfg.Redis.Enabled),
	)

	// 3. Open route store. Ошибка открытия (нет доступа, повреждённый файл) фатальна.
	db, err := sqlstore.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to open route store", zap.Error(err))
	}

	// 4. Connect to Redis (optional)
	var (
		redisClient *cache.Redis
		cacheRepo   repository.CacheRepository
		cacheHealth repository.HealthChecker
	)
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		cacheRepo = cache.NewCacheRepository(redisClient)
		cacheHealth = redisClient
		log.Info("Redis connected")
	}

	// 5. Initialize provider client
	provider := ors.NewORSClient(&cfg.ORS, log)
	if !provider.Configured() {
		log.Warn("ORS_API_KEY not configured, provider endpoints will fail")
	}

	// 6. Initialize Use Cases
	routeOpts := []usecase.RouteUseCaseOption{}
	if cfg.Events.Enabled {
		routeOpts = append(routeOpts, usecase.WithRouteEvents(
			redisRepo.NewStreamRepository(redisClient.Client(), log),
			cfg.Events.Stream,
		))
		log.Info("Route events enabled", zap.String("stream", cfg.Events.Stream))
	}

	routeUC := usecase.NewRouteUseCase(sqlstore.NewRouteRepository(db), log, routeOpts...)
	providerUC := usecase.NewProviderUseCase(provider, cacheRepo, log, cfg.Cache.ProviderCacheTTL)
	healthUC := usecase.NewHealthUseCase(db, provider, cacheHealth, log)

	log.Info("Use cases initialized")

	// 7. Initialize HTTP Handlers
	routeHandler := handler.NewRouteHandler(routeUC, log)
	providerHandler := handler.NewProviderHandler(providerUC, log)
	healthHandler := handler.NewHealthHandler(healthUC, log)

	// 8. Initialize HTTP Server
	server := httpDelivery.NewServer(
		cfg,
		log,
		routeHandler,
		providerHandler,
		healthHandler,
	)

	// 9. Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 10. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	// Close route store
	if err := db.Close(); err != nil {
		log.Error("Failed to close route store", zap.Error(err))
	}

	// Close Redis connection
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
