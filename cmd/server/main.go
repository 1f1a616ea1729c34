package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/gamenight/trivia-backend/internal/config"
	"github.com/gamenight/trivia-backend/internal/database"
	"github.com/gamenight/trivia-backend/internal/events"
	"github.com/gamenight/trivia-backend/internal/handler"
	"github.com/gamenight/trivia-backend/internal/logger"
	"github.com/gamenight/trivia-backend/internal/repository"
	"github.com/gamenight/trivia-backend/internal/router"
	"github.com/gamenight/trivia-backend/internal/service"
	"github.com/gamenight/trivia-backend/internal/validator"
	"github.com/gamenight/trivia-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Trivia Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	questionRepo := repository.NewQuestionRepository(pool)
	playerRepo := repository.NewPlayerRepository(pool)
	answerRepo := repository.NewAnswerRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	broadcaster := events.NewBroadcaster(rdb, log)
	authService := service.NewAuthService(cfg, settingRepo)
	leaderboardService := service.NewLeaderboardService(playerRepo, questionRepo, rdb, cfg.LeaderboardTTL, log)
	questionService := service.NewQuestionService(questionRepo, answerRepo, broadcaster)
	playerService := service.NewPlayerService(playerRepo, broadcaster)
	answerService := service.NewAnswerService(answerRepo, questionRepo, broadcaster)
	scoringService := service.NewScoringService(answerRepo, questionRepo, broadcaster, leaderboardService, log)
	gameService := service.NewGameService(questionRepo, playerRepo, broadcaster, leaderboardService, log)
	settingService := service.NewSettingService(settingRepo, authService)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Player:   handler.NewPlayerHandler(playerService, questionService, answerService, authService),
		Question: handler.NewQuestionHandler(questionService, answerService),
		Scoring:  handler.NewScoringHandler(scoringService),
		Game:     handler.NewGameHandler(gameService, leaderboardService),
		Setting:  handler.NewSettingHandler(settingService),
		WS:       handler.NewWSHandler(broadcaster, leaderboardService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	reconcileWorker := worker.NewReconcileWorker(pool, broadcaster, leaderboardService, cfg.ReconcileInterval, log)
	go reconcileWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the background worker.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
