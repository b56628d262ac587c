package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jotpad_go/models"
)

const appSettingsKey = "app"

// GetSettings возвращает сохраненные настройки. Отсутствующие ключи берутся из значений по умолчанию.
func (s *Store) GetSettings(ctx context.Context) (*models.Settings, error) {
	settings := models.DefaultSettings()

	var raw string
	err := s.db.GetContext(ctx, &raw, `SELECT value FROM app_settings WHERE key = ?`, appSettingsKey)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &settings, nil
		}
		return nil, fmt.Errorf("GetSettings: ошибка чтения настроек: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		s.log.Warn(storeModule, "Broken settings JSON, using defaults", map[string]interface{}{"error": err.Error()})
		defaults := models.DefaultSettings()
		return &defaults, nil
	}
	return &settings, nil
}

// SaveSettings сохраняет настройки одним JSON blob.
func (s *Store) SaveSettings(ctx context.Context, settings *models.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("SaveSettings: ошибка сериализации настроек: %w", err)
	}
	query := `INSERT INTO app_settings (key, value, updated_at) VALUES (?, ?, ?)
	          ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := s.db.ExecContext(ctx, query, appSettingsKey, string(raw), time.Now().UTC()); err != nil {
		return fmt.Errorf("SaveSettings: ошибка сохранения настроек: %w", err)
	}
	return nil
}
