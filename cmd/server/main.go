package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"house-price-gateway/internal/client"
	"house-price-gateway/internal/config"
	"house-price-gateway/internal/database"
	"house-price-gateway/internal/feature"
	"house-price-gateway/internal/handler"
	"house-price-gateway/internal/health"
	"house-price-gateway/internal/location"
	"house-price-gateway/internal/metrics"
	"house-price-gateway/internal/repository"
	"house-price-gateway/internal/scoreboard"
	"house-price-gateway/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()

	// Инициализируем логгер
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.Info("Запуск House Price Gateway")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Справочник локаций
	hierarchy, err := loadHierarchy(cfg.Locations.File)
	if err != nil {
		logger.Fatalf("Ошибка загрузки справочника локаций: %v", err)
	}
	logger.Infof("Справочник локаций загружен: %d городов", len(hierarchy.ListCities()))

	// История оценок в PostgreSQL (опционально)
	var db *gorm.DB
	var predictionRepo repository.PredictionRepository
	if cfg.Database.Enabled {
		db, err = database.Connect(database.Config{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			Database: cfg.Database.Name,
			Username: cfg.Database.User,
			Password: cfg.Database.Password,
			SSLMode:  cfg.Database.SSLMode,
		}, logger)
		if err != nil {
			logger.Fatalf("Ошибка подключения к базе данных: %v", err)
		}
		defer database.Close(db)

		if err := database.Migrate(db); err != nil {
			logger.Fatalf("Ошибка выполнения миграций: %v", err)
		}
		if err := database.HealthCheck(ctx, db); err != nil {
			logger.Fatalf("База данных недоступна: %v", err)
		}
		predictionRepo = repository.NewPredictionRepository(db)
		logger.Info("История оценок включена")
	}

	m := metrics.New()

	// Клиент движка оценки
	engine := client.NewEngineClient(cfg.Engine.BaseURL, client.Options{
		Timeout:          cfg.EngineTimeout(),
		DefaultCurrency:  cfg.Engine.DefaultCurrency,
		SendNeighborhood: cfg.Prediction.IncludeNeighborhood,
		Observer:         m,
	}, logger)

	// Инициализируем сервисы
	historyService := service.NewHistoryService(predictionRepo, logger)
	predictionService := service.NewPredictionService(
		hierarchy,
		engine,
		scoreboard.NewFetcher(engine, logger),
		historyService,
		feature.Options{RequireNeighborhood: cfg.Prediction.IncludeNeighborhood},
		m,
		logger,
	)

	// Настраиваем Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	handler.NewHousePriceHandler(predictionService, historyService, logger).RegisterRoutes(router)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "House Price Gateway",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	// gRPC health (опционально)
	var grpcServer *health.Server
	if cfg.GRPC.Enabled {
		lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.GRPC.Port))
		if err != nil {
			logger.Fatalf("Ошибка открытия порта gRPC: %v", err)
		}
		grpcServer = health.NewServer(engine, cfg.HealthInterval(), logger)
		go grpcServer.Watch(ctx)
		go func() {
			if err := grpcServer.Serve(lis); err != nil {
				logger.Errorf("gRPC сервер остановлен с ошибкой: %v", err)
			}
		}()
	}

	// Запускаем сервер
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}
	go func() {
		logger.Infof("API доступно по адресу: http://%s/api/houseprice", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Ошибка запуска сервера: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Остановка сервера")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Ошибка остановки HTTP сервера: %v", err)
	}
	if grpcServer != nil {
		grpcServer.Stop()
	}
}

// loadHierarchy читает справочник из файла или берет встроенный
func loadHierarchy(path string) (*location.Hierarchy, error) {
	if path == "" {
		return location.LoadDefault()
	}
	return location.LoadFile(path)
}

// corsMiddleware добавляет заголовки CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
