package models

// Порядок сортировки списка заметок. Закрепленные заметки всегда идут первыми.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortTitle  = "title"
)

// Settings - пользовательские настройки, хранятся одним JSON blob.
// Большинство ключей только сохраняются: тема, язык и т.п. применяет клиент.
type Settings struct {
	Language             string `json:"language" validate:"required,min=2,max=16"`
	Theme                string `json:"theme" validate:"required,oneof=light dark system"`
	ColorTheme           string `json:"colorTheme" validate:"required,max=32"`
	BackgroundAppearance string `json:"backgroundAppearance" validate:"required,max=32"`
	ExportFormat         string `json:"exportFormat" validate:"required,oneof=json txt md"`
	SortOrder            string `json:"sortOrder" validate:"required,oneof=newest oldest title"`
	AutoUpdateCheck      bool   `json:"autoUpdateCheck"`
	LinkPreview          bool   `json:"linkPreview"`
}

// DefaultSettings возвращает настройки по умолчанию.
func DefaultSettings() Settings {
	return Settings{
		Language:             "en",
		Theme:                "system",
		ColorTheme:           "default",
		BackgroundAppearance: "solid",
		ExportFormat:         "json",
		SortOrder:            SortNewest,
		AutoUpdateCheck:      true,
		LinkPreview:          true,
	}
}
