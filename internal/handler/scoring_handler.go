package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gamenight/trivia-backend/internal/model"
	"github.com/gamenight/trivia-backend/internal/response"
	"github.com/gamenight/trivia-backend/internal/service"
	"github.com/gamenight/trivia-backend/internal/validator"
)

// ScoringHandler handles the admin grading endpoints.
type ScoringHandler struct {
	scoringService *service.ScoringService
}

// NewScoringHandler creates a new ScoringHandler.
func NewScoringHandler(scoringService *service.ScoringService) *ScoringHandler {
	return &ScoringHandler{scoringService: scoringService}
}

// MarkCorrect godoc
// POST /api/v1/admin/answers/:answer_id/correct
// Credits the question's points (or an override) to the answer's player.
// Safe to call twice: an already correct answer is left untouched.
func (h *ScoringHandler) MarkCorrect(c *gin.Context) {
	answerID, err := uuid.Parse(c.Param("answer_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	req := model.MarkAnswerRequest{}
	if c.Request.ContentLength > 0 {
		if fields := validator.Bind(c, &req); fields != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
			return
		}
	}

	answer, err := h.scoringService.MarkCorrect(c.Request.Context(), answerID, req.Points)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answer": answer})
}

// MarkIncorrect godoc
// POST /api/v1/admin/answers/:answer_id/incorrect
// Reverts a grade, debiting previously earned points.
func (h *ScoringHandler) MarkIncorrect(c *gin.Context) {
	answerID, err := uuid.Parse(c.Param("answer_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	answer, err := h.scoringService.MarkIncorrect(c.Request.Context(), answerID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answer": answer})
}
