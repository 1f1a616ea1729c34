package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gamenight/trivia-backend/internal/model"
	"github.com/gamenight/trivia-backend/internal/response"
	"github.com/gamenight/trivia-backend/internal/service"
	"github.com/gamenight/trivia-backend/internal/validator"
)

// SettingHandler handles game settings, admin-managed with one public read.
type SettingHandler struct {
	settingService *service.SettingService
}

// NewSettingHandler creates a new SettingHandler.
func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// ShareCode godoc
// GET /api/v1/game/share-code
// Public: the code displayed on the join screen.
func (h *SettingHandler) ShareCode(c *gin.Context) {
	code, err := h.settingService.ShareCode(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"share_code": code})
}

// List godoc
// GET /api/v1/admin/settings
// All settings except the admin password hash.
func (h *SettingHandler) List(c *gin.Context) {
	settings, err := h.settingService.GetAll(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if settings == nil {
		settings = []model.GameSetting{}
	}

	response.Success(c, http.StatusOK, gin.H{"settings": settings})
}

// Update godoc
// PUT /api/v1/admin/settings
// Bulk upsert. The admin_password key is hashed server-side.
func (h *SettingHandler) Update(c *gin.Context) {
	var req model.UpdateSettingsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.settingService.Update(c.Request.Context(), req.Settings); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"updated": true})
}
