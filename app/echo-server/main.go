package main

import (
	"context"
	"fmt"
	"log"
	"mealmind/app/echo-server/router"
	"mealmind/business/content"
	"mealmind/business/experiment"
	"mealmind/business/hybrid"
	"mealmind/business/profile"
	"mealmind/business/recommend"
	"mealmind/business/similarity"
	"mealmind/business/trend"
	"mealmind/internal/middleware"
	psqlRepo "mealmind/internal/repository/postgres"
	redisRepo "mealmind/internal/repository/redis"
	"mealmind/internal/rest"
	"mealmind/pkg/config"
	"mealmind/pkg/database"
	redisdb "mealmind/pkg/database/redis"
	"mealmind/pkg/logger"
	"mealmind/pkg/metrics"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ratingSource pairs the profile builder's rating maps with the interaction
// log's user listing for the offline trainer.
type ratingSource struct {
	*profile.Builder
	*psqlRepo.InteractionRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Mealmind", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}

	metrics.Init()

	// Init repo
	itemRepo := psqlRepo.NewItemRepository(db)
	interactionRepo := psqlRepo.NewInteractionRepository(db)
	experimentRepo := psqlRepo.NewExperimentRepository(db)
	assignmentRepo := psqlRepo.NewAssignmentRepository(db)
	modelRepo := psqlRepo.NewModelRepository(db)
	cacheStore := redisRepo.NewStore(redisClient)

	// Init service
	profileBuilder := profile.NewBuilder(interactionRepo, itemRepo, cacheStore, profile.DefaultConfig())
	simEngine := similarity.NewEngine(profileBuilder, interactionRepo, cacheStore, similarity.DefaultConfig())
	trainer := similarity.NewTrainer(
		ratingSource{profileBuilder, interactionRepo},
		modelRepo,
		similarity.DefaultConfig(),
	)
	contentProfiler := content.NewProfiler(content.DefaultConfig())
	trendAnalyzer := trend.NewAnalyzer(interactionRepo, cacheStore, trend.DefaultConfig())
	expManager := experiment.NewManager(experimentRepo, assignmentRepo, interactionRepo, cacheStore)
	combiner := hybrid.NewCombiner(hybrid.DefaultConfig())

	orchestrator := recommend.NewOrchestrator(
		itemRepo,
		profileBuilder,
		expManager,
		combiner,
		cacheStore,
		hybrid.StaticWeatherProvider{},
		hybrid.StaticDemandProvider{},
		recommend.NewCollaborativeScorer(simEngine, interactionRepo, similarity.MethodCosine),
		recommend.NewContentScorer(contentProfiler),
		recommend.NewTrendingScorer(trendAnalyzer),
		recommend.NewPopularityScorer(),
		recommend.NewNeuralScorer(recommend.NewFactorNeuralModel(modelRepo)),
		recommend.Config{
			DefaultAlgorithm: cfg.Engine.DefaultAlgorithm,
			DefaultLimit:     cfg.Engine.DefaultLimit,
			MaxLimit:         50,
			ResultTTL:        10 * time.Minute,
		},
	)

	// Init handler
	recommendHandler := rest.NewRecommendationHandler(orchestrator)
	interactionHandler := rest.NewInteractionHandler(expManager)
	trendHandler := rest.NewTrendHandler(trendAnalyzer)
	experimentHandler := rest.NewExperimentHandler(expManager)
	batchHandler := rest.NewBatchHandler(trendAnalyzer, simEngine, trainer)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	adminOnly := middleware.AdminOnly()
	api := e.Group("/api/v1")
	router.SetRecommendationRoutes(api, recommendHandler)
	router.SetInteractionRoutes(api, interactionHandler)
	router.SetTrendRoutes(api, trendHandler, adminOnly)
	router.SetExperimentRoutes(api, experimentHandler, adminOnly)
	router.SetBatchRoutes(api, batchHandler, adminOnly)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("Redis close error", "error", err)
	}

	logger.Info("Server stopped")
}
