package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gamenight/trivia-backend/internal/response"
	"github.com/gamenight/trivia-backend/internal/service"
)

// failFromService maps domain errors onto the response envelope. Anything
// unrecognized is an internal error.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrPlayerNotFound),
		errors.Is(err, service.ErrAnswerNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrEmptyAnswerText):
		response.Fail(c, http.StatusBadRequest, response.ErrEmptyAnswer)
	case errors.Is(err, service.ErrTooFewOptions):
		response.Fail(c, http.StatusBadRequest, response.ErrTooFewOptions)
	case errors.Is(err, service.ErrEmptyCorrectAnswer):
		response.Fail(c, http.StatusBadRequest, response.ErrValidation)
	case errors.Is(err, service.ErrInvalidOrderSet):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidOrderSet)
	case errors.Is(err, service.ErrAnswersLocked):
		response.Fail(c, http.StatusConflict, response.ErrAnswersLocked)
	case errors.Is(err, service.ErrInvalidJoinCode):
		response.Fail(c, http.StatusNotFound, response.ErrInvalidJoinCode)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
