package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gamenight/trivia-backend/internal/model"
	"github.com/gamenight/trivia-backend/internal/response"
	"github.com/gamenight/trivia-backend/internal/service"
	"github.com/gamenight/trivia-backend/internal/validator"
)

// GameHandler handles the public leaderboard and the admin reset.
type GameHandler struct {
	gameService        *service.GameService
	leaderboardService *service.LeaderboardService
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameService *service.GameService, leaderboardService *service.LeaderboardService) *GameHandler {
	return &GameHandler{gameService: gameService, leaderboardService: leaderboardService}
}

// Leaderboard godoc
// GET /api/v1/game/leaderboard
// Public standings: ranked players plus the revealed questions.
func (h *GameHandler) Leaderboard(c *gin.Context) {
	lb, err := h.leaderboardService.Get(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"leaderboard": lb})
}

// Reset godoc
// POST /api/v1/admin/game/reset
// Wipes players and answers; optionally the questions too.
func (h *GameHandler) Reset(c *gin.Context) {
	req := model.ResetGameRequest{}
	if c.Request.ContentLength > 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	if err := h.gameService.Reset(c.Request.Context(), req.DeleteQuestions); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reset": true})
}
