package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/wonderlic-api/internal/config"
	"github.com/yourusername/wonderlic-api/internal/handler"
	"github.com/yourusername/wonderlic-api/internal/middleware"
	pgRepo "github.com/yourusername/wonderlic-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/wonderlic-api/internal/repository/redis"
	"github.com/yourusername/wonderlic-api/internal/service"
	"github.com/yourusername/wonderlic-api/internal/stream"
	"github.com/yourusername/wonderlic-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	attemptRepo := pgRepo.NewAttemptRepo(db)
	userRepo := pgRepo.NewUserRepo(db)
	groupRepo := pgRepo.NewGroupRepo(db)
	playerRepo := pgRepo.NewPlayerRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	leaderboardService := service.NewLeaderboardService(
		attemptRepo,
		userRepo,
		groupRepo,
		cacheRepo,
		cfg.Leaderboard.DefaultLimit,
		cfg.Leaderboard.RankCacheTTL,
	)

	// Эталонный набор загружается один раз и далее неизменяем
	comparisonService, err := service.NewComparisonService(playerRepo)
	if err != nil {
		log.Printf("Failed to initialize ComparisonService: %v", err)
		os.Exit(1)
	}

	// Раздатчик снапшотов: независимый цикл пересчета на каждого подписчика
	streamer := stream.NewStreamer(leaderboardService, cfg.Stream.Interval, cfg.Stream.Limit)

	// Инициализируем обработчики
	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
	comparisonHandler := handler.NewComparisonHandler(comparisonService)
	streamHandler := handler.NewStreamHandler(streamer)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)
	streamLimit := middleware.StreamRateLimitConfig(cfg.Stream.RateLimitPerMinute)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	if isProduction {
		// Production: не доверять прокси-заголовкам.
		// Если используете load balancer, замените nil на его адреса.
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		// Development: доверяем localhost
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://wonderlictest.vercel.app", "http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Лидерборды (публичные маршруты)
		api.GET("/leaderboard", leaderboardHandler.GetGlobalLeaderboard)

		groups := api.Group("/groups/:id")
		groups.Use(middleware.ExtractUUIDParam("id", "groupID"))
		{
			groups.GET("/leaderboard", leaderboardHandler.GetGroupLeaderboard)
		}

		// Ранги и история попыток
		users := api.Group("/users")
		{
			users.GET("/me/rank", authMiddleware.RequireAuth(), leaderboardHandler.GetMyRank)

			userWithID := users.Group("/:id")
			userWithID.Use(middleware.ExtractUUIDParam("id", "userID"))
			{
				userWithID.GET("/rank", leaderboardHandler.GetUserRank)
				userWithID.GET("/attempts", leaderboardHandler.GetUserAttempts)
			}
		}

		// Сравнение с эталонным набором
		api.GET("/compare", comparisonHandler.GetComparison)
		api.GET("/players/match", comparisonHandler.GetPlayerMatch)

		// SSE-подписка на снапшоты лидерборда
		api.GET("/sse/leaderboard", rateLimiter.Limit(streamLimit), streamHandler.HandleSSE)

		// Метрики стриминга
		api.GET("/stream/stats", streamHandler.GetStats)
	}

	// WebSocket-подписка на снапшоты лидерборда
	router.GET("/ws/leaderboard", rateLimiter.Limit(streamLimit), streamHandler.HandleWebSocket)

	// Настраиваем HTTP сервер с тайм-аутами.
	// ВНИМАНИЕ: WriteTimeout сервера оборвал бы долгоживущие SSE/WS-соединения,
	// поэтому для них тайм-аут записи контролируется на уровне соединения,
	// а серверный WriteTimeout отключен.
	// Корневой контекст приложения: его отмена завершает контексты всех
	// активных запросов, включая долгоживущие стриминговые
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: time.Duration(cfg.Server.ReadTimeout) * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ожидаем сигнал остановки
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Отменяем корневой контекст: циклы стриминговых подписчиков завершаются
	cancel()

	// Graceful shutdown: закрываем слушатель и ждем завершения
	// активных запросов с таймаутом
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
