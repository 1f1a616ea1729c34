package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gamenight/trivia-backend/internal/model"
	"github.com/gamenight/trivia-backend/internal/response"
	"github.com/gamenight/trivia-backend/internal/service"
	"github.com/gamenight/trivia-backend/internal/validator"
)

// AuthHandler handles the admin login endpoint.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// AdminLogin godoc
// POST /api/v1/auth/admin/login
// Exchanges the shared admin password for an admin JWT.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	token, err := h.authService.AdminLogin(c.Request.Context(), req.Password)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"token": token})
}
