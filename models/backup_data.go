package models

import "time"

// BackupData представляет полную резервную копию локальной БД.
// Эта структура используется для выгрузки и восстановления всех заметок.
type BackupData struct {
	Notes     []Note      `json:"notes"`
	Entries   []NoteEntry `json:"entries"`
	Settings  *Settings   `json:"settings,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// RestoreResult - итог восстановления из бэкапа.
type RestoreResult struct {
	Notes        int `json:"notes"`
	Entries      int `json:"entries"`
	SkippedNotes int `json:"skippedNotes"`
}
