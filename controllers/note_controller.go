package controllers

import (
	"net/http"

	"jotpad_go/models"

	"github.com/gorilla/mux"
)

// ListNotes возвращает список заметок: закрепленные первыми.
// ?tag= фильтрует по тегу, ?pinned=true оставляет только закрепленные.
func (a *App) ListNotes(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("pinned") == "true" {
		pinned := a.notes.Pinned()
		if pinned == nil {
			pinned = []models.Note{}
		}
		respondJSON(w, http.StatusOK, pinned)
		return
	}
	respondJSON(w, http.StatusOK, a.notes.Filter(r.URL.Query().Get("tag")))
}

func (a *App) GetNote(w http.ResponseWriter, r *http.Request) {
	note, ok := a.notes.Get(mux.Vars(r)["id"])
	if !ok {
		respondError(w, http.StatusNotFound, "Заметка не найдена.")
		return
	}
	respondJSON(w, http.StatusOK, note)
}

func (a *App) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req models.NoteRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	note, err := a.notes.Create(r.Context(), req.Title, req.Tags)
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	if fresh, ok := a.notes.Get(note.ID); ok {
		note = &fresh
	}
	respondJSON(w, http.StatusCreated, note)
}

func (a *App) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req models.NoteRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	id := mux.Vars(r)["id"]
	if _, err := a.notes.Update(r.Context(), id, req.Title, req.Tags); err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	note, _ := a.notes.Get(id)
	respondJSON(w, http.StatusOK, note)
}

// DeleteNote удаляет заметку вместе с записями и закрывает ее просмотр.
func (a *App) DeleteNote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.notes.Delete(r.Context(), id); err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	a.dropView(id)
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) PinNote(w http.ResponseWriter, r *http.Request) {
	var req models.PinRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	id := mux.Vars(r)["id"]
	if err := a.notes.TogglePin(r.Context(), id, *req.Pinned); err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	note, _ := a.notes.Get(id)
	respondJSON(w, http.StatusOK, note)
}

// ListTags возвращает глобальный набор тегов.
func (a *App) ListTags(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, a.notes.Tags())
}

func (a *App) RenameTag(w http.ResponseWriter, r *http.Request) {
	var req models.TagRenameRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	touched, err := a.notes.RenameTag(r.Context(), mux.Vars(r)["name"], req.Name)
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"notes": touched})
}

func (a *App) DeleteTag(w http.ResponseWriter, r *http.Request) {
	touched, err := a.notes.DeleteTag(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"notes": touched})
}
