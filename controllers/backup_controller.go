package controllers

import (
	"encoding/json"
	"net/http"
	"time"

	"jotpad_go/models"
)

const maxBackupSize = 50 * 1024 * 1024 // 50 MB

// DownloadBackup отдает полную копию БД (заметки, записи, настройки) в JSON.
func (a *App) DownloadBackup(w http.ResponseWriter, r *http.Request) {
	backup, err := a.store.ExportAll(r.Context())
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	fileName := "jotpad-backup-" + backup.CreatedAt.Format("20060102-150405") + ".json"

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+fileName+"\"")
	w.WriteHeader(http.StatusOK)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(backup)
}

// RestoreBackup восстанавливает данные из бэкапа и перечитывает состояние приложения.
func (a *App) RestoreBackup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBackupSize)
	defer r.Body.Close()

	var backup models.BackupData
	if err := json.NewDecoder(r.Body).Decode(&backup); err != nil {
		respondError(w, http.StatusBadRequest, "Неверный формат бэкапа: "+err.Error())
		return
	}
	if backup.Settings != nil {
		if err := a.validate.Struct(backup.Settings); err != nil {
			respondError(w, http.StatusBadRequest, "Неверные настройки в бэкапе: "+err.Error())
			return
		}
	}

	start := time.Now()
	result, err := a.store.ImportAll(r.Context(), &backup)
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}

	a.dropAllViews()
	if backup.Settings != nil {
		a.notes.SetSortOrder(backup.Settings.SortOrder)
	}
	if err := a.notes.Load(r.Context()); err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	a.log.Info(httpModule, "Backup restored", map[string]interface{}{
		"notes": result.Notes, "entries": result.Entries, "duration": time.Since(start).String(),
	})
	respondJSON(w, http.StatusOK, result)
}
