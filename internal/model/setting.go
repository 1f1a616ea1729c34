package model

import "time"

// Setting keys used by the game.
const (
	SettingShareCode         = "share_code"
	SettingAdminPasswordHash = "admin_password_hash"
)

// GameSetting represents a key-value pair for global game configuration.
type GameSetting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UpdateSettingsRequest is the payload for bulk updating settings.
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}

// AdminLoginRequest is the payload for the shared-password admin login.
type AdminLoginRequest struct {
	Password string `json:"password" binding:"required,min=1,max=200"`
}
