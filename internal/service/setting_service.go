package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gamenight/trivia-backend/internal/model"
)

// SettingAdminPassword is the write-only settings key: a plaintext value sent
// by the admin UI that is hashed before it lands in game_settings.
const SettingAdminPassword = "admin_password"

// SettingService manages the game_settings key-value table.
type SettingService struct {
	settings SettingStore
	auth     *AuthService
}

// NewSettingService creates a new SettingService.
func NewSettingService(settings SettingStore, auth *AuthService) *SettingService {
	return &SettingService{settings: settings, auth: auth}
}

// GetAll returns every setting except the admin password hash, which never
// leaves the server.
func (s *SettingService) GetAll(ctx context.Context) ([]model.GameSetting, error) {
	all, err := s.settings.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	visible := make([]model.GameSetting, 0, len(all))
	for _, setting := range all {
		if setting.Key == model.SettingAdminPasswordHash {
			continue
		}
		visible = append(visible, setting)
	}
	return visible, nil
}

// Update upserts the given settings. The admin_password key is hashed and
// stored under admin_password_hash; writing the hash key directly is refused.
// Share codes are normalized to upper case.
func (s *SettingService) Update(ctx context.Context, settings map[string]string) error {
	for key, value := range settings {
		switch key {
		case SettingAdminPassword:
			hash, err := s.auth.HashPassword(value)
			if err != nil {
				return err
			}
			key, value = model.SettingAdminPasswordHash, hash
		case model.SettingAdminPasswordHash:
			continue
		case model.SettingShareCode:
			value = strings.ToUpper(strings.TrimSpace(value))
		}

		if err := s.settings.Upsert(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}

// ShareCode returns the public game join code, or empty when none is set.
func (s *SettingService) ShareCode(ctx context.Context) (string, error) {
	setting, err := s.settings.GetByKey(ctx, model.SettingShareCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return setting.Value, nil
}
