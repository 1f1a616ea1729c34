package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gamenight/trivia-backend/internal/middleware"
	"github.com/gamenight/trivia-backend/internal/model"
	"github.com/gamenight/trivia-backend/internal/response"
	"github.com/gamenight/trivia-backend/internal/service"
	"github.com/gamenight/trivia-backend/internal/validator"
)

// PlayerHandler handles the player-facing game surface (join, rejoin, the
// question view, submissions) and the admin player roster.
type PlayerHandler struct {
	playerService   *service.PlayerService
	questionService *service.QuestionService
	answerService   *service.AnswerService
	authService     *service.AuthService
}

// NewPlayerHandler creates a new PlayerHandler.
func NewPlayerHandler(playerService *service.PlayerService, questionService *service.QuestionService, answerService *service.AnswerService, authService *service.AuthService) *PlayerHandler {
	return &PlayerHandler{
		playerService:   playerService,
		questionService: questionService,
		answerService:   answerService,
		authService:     authService,
	}
}

// Join godoc
// POST /api/v1/game/join
// Registers a new player and returns their rejoin code plus a player JWT.
func (h *PlayerHandler) Join(c *gin.Context) {
	var req model.JoinGameRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	player, err := h.playerService.Join(c.Request.Context(), req.Name)
	if err != nil {
		failFromService(c, err)
		return
	}

	token, err := h.authService.GeneratePlayerToken(player.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"player": player, "token": token})
}

// Rejoin godoc
// POST /api/v1/game/rejoin
// Resumes a session from a previously issued join code.
func (h *PlayerHandler) Rejoin(c *gin.Context) {
	var req model.RejoinGameRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	player, err := h.playerService.Rejoin(c.Request.Context(), req.JoinCode)
	if err != nil {
		failFromService(c, err)
		return
	}

	token, err := h.authService.GeneratePlayerToken(player.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"player": player, "token": token})
}

// Me godoc
// GET /api/v1/player/me
// Returns the authenticated player's own record.
func (h *PlayerHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	player, err := h.playerService.Get(c.Request.Context(), claims.PlayerID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"player": player})
}

// ListQuestions godoc
// GET /api/v1/player/questions
// Returns active questions paired with the player's own answers. Correct
// answers stay hidden until revealed.
func (h *PlayerHandler) ListQuestions(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	questions, err := h.questionService.ListForPlayer(c.Request.Context(), claims.PlayerID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// SubmitAnswer godoc
// PUT /api/v1/player/questions/:question_id/answer
// Upserts the player's answer for a question. Resubmission overwrites the
// previous text until the question is revealed.
func (h *PlayerHandler) SubmitAnswer(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	answer, err := h.answerService.Submit(c.Request.Context(), claims.PlayerID, questionID, req.AnswerText)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answer": answer})
}

// List godoc
// GET /api/v1/admin/players
// Lists all players in leaderboard order, join codes included.
func (h *PlayerHandler) List(c *gin.Context) {
	players, err := h.playerService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"players": players})
}

// Delete godoc
// DELETE /api/v1/admin/players/:player_id
// Removes a player; their answers cascade.
func (h *PlayerHandler) Delete(c *gin.Context) {
	playerID, err := uuid.Parse(c.Param("player_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.playerService.Delete(c.Request.Context(), playerID); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
