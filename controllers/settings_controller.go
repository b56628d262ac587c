package controllers

import (
	"net/http"

	"jotpad_go/linkpreview"
	"jotpad_go/models"
)

func (a *App) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.store.GetSettings(r.Context())
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// UpdateSettings сохраняет настройки целиком. Порядок сортировки сразу применяется к списку заметок.
func (a *App) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	settings := models.DefaultSettings()
	if !a.decodeJSON(w, r, &settings) {
		return
	}
	if err := a.store.SaveSettings(r.Context(), &settings); err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	a.notes.SetSortOrder(settings.SortOrder)
	respondJSON(w, http.StatusOK, settings)
}

// LinkPreview возвращает превью ссылки. 204, если превью выключено в настройках
// или сервис не ответил.
func (a *App) LinkPreview(w http.ResponseWriter, r *http.Request) {
	link := r.URL.Query().Get("url")
	if isBlank(link) {
		respondError(w, http.StatusBadRequest, "Параметр url обязателен.")
		return
	}
	settings, err := a.store.GetSettings(r.Context())
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	if !settings.LinkPreview || a.links == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if found := linkpreview.FirstURL(link); found != "" {
		link = found
	}
	preview := a.links.Fetch(r.Context(), link)
	if preview == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	respondJSON(w, http.StatusOK, preview)
}
