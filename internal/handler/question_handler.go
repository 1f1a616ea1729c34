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

// QuestionHandler handles the admin question management endpoints.
type QuestionHandler struct {
	questionService *service.QuestionService
	answerService   *service.AnswerService
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService, answerService *service.AnswerService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService, answerService: answerService}
}

// List godoc
// GET /api/v1/admin/questions
// Lists every question in play order, inactive ones included.
func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.questionService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if questions == nil {
		questions = []model.Question{}
	}

	response.Success(c, http.StatusOK, gin.H{"questions": questions})
}

// Get godoc
// GET /api/v1/admin/questions/:question_id
func (h *QuestionHandler) Get(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	question, err := h.questionService.Get(c.Request.Context(), questionID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// Create godoc
// POST /api/v1/admin/questions
// Adds a question at the end of the current ordering.
func (h *QuestionHandler) Create(c *gin.Context) {
	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": question})
}

// Update godoc
// PUT /api/v1/admin/questions/:question_id
// Applies a partial edit, including reveal state transitions.
func (h *QuestionHandler) Update(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), questionID, req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// Delete godoc
// DELETE /api/v1/admin/questions/:question_id
// Removes a question; its answers cascade.
func (h *QuestionHandler) Delete(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), questionID); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Reveal godoc
// POST /api/v1/admin/questions/:question_id/reveal
// Publishes the correct answer and locks further submissions.
func (h *QuestionHandler) Reveal(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.RevealQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Reveal(c.Request.Context(), questionID, req.CorrectAnswer)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// Reorder godoc
// PUT /api/v1/admin/questions/order
// Rewrites the play order from the full list of question IDs.
func (h *QuestionHandler) Reorder(c *gin.Context) {
	var req model.ReorderQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.questionService.Reorder(c.Request.Context(), req.QuestionIDs); err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reordered": true})
}

// ListAnswers godoc
// GET /api/v1/admin/questions/:question_id/answers
// The grading view: every submission for one question with player names.
func (h *QuestionHandler) ListAnswers(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("question_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	answers, err := h.answerService.ListByQuestion(c.Request.Context(), questionID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"answers": answers})
}
