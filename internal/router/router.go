package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gamenight/trivia-backend/internal/config"
	"github.com/gamenight/trivia-backend/internal/handler"
	"github.com/gamenight/trivia-backend/internal/middleware"
	"github.com/gamenight/trivia-backend/internal/response"
	"github.com/gamenight/trivia-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Player   *handler.PlayerHandler
	Question *handler.QuestionHandler
	Scoring  *handler.ScoringHandler
	Game     *handler.GameHandler
	Setting  *handler.SettingHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter shared by the guessable public endpoints: the admin
	// password and join codes must not be brute-forceable.
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/admin/login", handlers.Auth.AdminLogin)
	}

	// ─── 2. Public Game Group ──────────────────────────────────────────
	game := router.Group("/api/v1/game")
	{
		game.GET("/leaderboard", handlers.Game.Leaderboard)
		game.GET("/share-code", handlers.Setting.ShareCode)
		game.POST("/join", authLimiter.Middleware(), handlers.Player.Join)
		game.POST("/rejoin", authLimiter.Middleware(), handlers.Player.Rejoin)
	}

	// ─── 3. Player Group (Player JWT) ──────────────────────────────────
	playerAPI := router.Group("/api/v1/player")
	playerAPI.Use(middleware.RequirePlayerJWT(authService))
	{
		playerAPI.GET("/me", handlers.Player.Me)
		playerAPI.GET("/questions", handlers.Player.ListQuestions)
		playerAPI.PUT("/questions/:question_id/answer", handlers.Player.SubmitAnswer)
	}

	// ─── 4. WebSocket Group ────────────────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.OptionalWSAuth(authService))
	{
		ws.GET("/stream", handlers.WS.Stream)
	}

	// ─── 5. Admin Group (Admin JWT) ────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdminJWT(authService))
	{
		// Question management. The static /order route must be registered
		// before the :question_id wildcard ones.
		adminAPI.GET("/questions", handlers.Question.List)
		adminAPI.POST("/questions", handlers.Question.Create)
		adminAPI.PUT("/questions/order", handlers.Question.Reorder)
		adminAPI.GET("/questions/:question_id", handlers.Question.Get)
		adminAPI.PUT("/questions/:question_id", handlers.Question.Update)
		adminAPI.DELETE("/questions/:question_id", handlers.Question.Delete)
		adminAPI.POST("/questions/:question_id/reveal", handlers.Question.Reveal)
		adminAPI.GET("/questions/:question_id/answers", handlers.Question.ListAnswers)

		// Grading
		adminAPI.POST("/answers/:answer_id/correct", handlers.Scoring.MarkCorrect)
		adminAPI.POST("/answers/:answer_id/incorrect", handlers.Scoring.MarkIncorrect)

		// Player roster
		adminAPI.GET("/players", handlers.Player.List)
		adminAPI.DELETE("/players/:player_id", handlers.Player.Delete)

		// Game control
		adminAPI.POST("/game/reset", handlers.Game.Reset)

		// Settings
		adminAPI.GET("/settings", handlers.Setting.List)
		adminAPI.PUT("/settings", handlers.Setting.Update)
	}

	return router
}
