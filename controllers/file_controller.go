package controllers

import (
	"context"
	"net/http"

	"jotpad_go/export"
	"jotpad_go/models"
	"jotpad_go/repository"

	"github.com/gorilla/mux"
)

// exportInput собирает заметку, ее записи и формат (?format=, иначе из настроек).
func (a *App) exportInput(ctx context.Context, r *http.Request) (models.Note, []models.NoteEntry, export.Format, error) {
	id := mux.Vars(r)["id"]
	v, err := a.view(ctx, id)
	if err != nil {
		return models.Note{}, nil, "", err
	}
	note, err := a.store.GetNoteByID(ctx, id)
	if err != nil {
		return models.Note{}, nil, "", err
	}
	if note == nil {
		return models.Note{}, nil, "", repository.ErrNoteNotFound
	}

	raw := r.URL.Query().Get("format")
	if raw == "" {
		settings, err := a.store.GetSettings(ctx)
		if err != nil {
			return models.Note{}, nil, "", err
		}
		raw = settings.ExportFormat
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		return models.Note{}, nil, "", err
	}
	return *note, v.entries.List(), format, nil
}

// ExportNote отдает экспорт заметки как вложение. Имя файла строится из заголовка.
func (a *App) ExportNote(w http.ResponseWriter, r *http.Request) {
	note, entries, format, err := a.exportInput(r.Context(), r)
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	content, err := export.Render(note, entries, format)
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", "attachment; filename=\""+export.FileName(note.Title, format)+"\"")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// SaveExport сохраняет экспорт в каталог экспорта на диске.
func (a *App) SaveExport(w http.ResponseWriter, r *http.Request) {
	note, entries, format, err := a.exportInput(r.Context(), r)
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	path, err := export.WriteFile(a.exportDir, note, entries, format)
	if err != nil {
		a.log.Error(httpModule, "Export failed", map[string]interface{}{"note_id": note.ID, "error": err})
		respondError(w, http.StatusInternalServerError, "Не удалось сохранить экспорт.")
		return
	}
	a.log.Info(httpModule, "Note exported", map[string]interface{}{"note_id": note.ID, "path": path})
	respondJSON(w, http.StatusCreated, map[string]string{"path": path})
}
