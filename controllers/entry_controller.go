package controllers

import (
	"net/http"

	"jotpad_go/models"
	"jotpad_go/search"

	"github.com/gorilla/mux"
)

// ListEntries возвращает записи заметки по возрастанию времени. ?q= фильтрует по тексту.
func (a *App) ListEntries(w http.ResponseWriter, r *http.Request) {
	v, err := a.view(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	if q := r.URL.Query().Get("q"); !isBlank(q) {
		respondJSON(w, http.StatusOK, search.Filter(v.entries.List(), q))
		return
	}
	respondJSON(w, http.StatusOK, v.entries.List())
}

func (a *App) PinnedEntries(w http.ResponseWriter, r *http.Request) {
	v, err := a.view(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, v.entries.Pinned())
}

// AddEntry добавляет запись. Поиск в заметке после изменения сбрасывается.
func (a *App) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req models.EntryRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	v, err := a.view(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	entry, err := v.entries.Add(r.Context(), req.Text)
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	v.nav.Reset()
	respondJSON(w, http.StatusCreated, entry)
}

func (a *App) EditEntry(w http.ResponseWriter, r *http.Request) {
	var req models.EntryRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	v, err := a.view(r.Context(), vars["id"])
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	if err := v.entries.Edit(r.Context(), vars["entryId"], req.Text); err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	v.nav.Reset()
	respondJSON(w, http.StatusOK, findEntry(v.entries.List(), vars["entryId"]))
}

func (a *App) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	v, err := a.view(r.Context(), vars["id"])
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	if err := v.entries.Delete(r.Context(), vars["entryId"]); err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	v.nav.Reset()
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) PinEntry(w http.ResponseWriter, r *http.Request) {
	var req models.PinRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	v, err := a.view(r.Context(), vars["id"])
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	if err := v.entries.TogglePin(r.Context(), vars["entryId"], *req.Pinned); err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, findEntry(v.entries.List(), vars["entryId"]))
}

func findEntry(entries []models.NoteEntry, id string) *models.NoteEntry {
	for i := range entries {
		if entries[i].ID == id {
			return &entries[i]
		}
	}
	return nil
}
