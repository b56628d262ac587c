package controllers

import (
	"net/http"

	"jotpad_go/models"
	"jotpad_go/search"

	"github.com/gorilla/mux"
)

type highlightedEntry struct {
	models.NoteEntry
	Segments []search.Segment `json:"segments"`
	HTML     string           `json:"html"`
}

// searchState - ответ поиска: число совпадений, индекс активного и его позиция.
type searchState struct {
	Query   string             `json:"query"`
	Total   int                `json:"total"`
	Index   int                `json:"index"`
	Current *search.Match      `json:"current,omitempty"`
	Entries []highlightedEntry `json:"entries,omitempty"`
}

func stateOf(nav *search.Navigator) searchState {
	st := searchState{Query: nav.Query(), Total: nav.Len(), Index: nav.Index()}
	if m, ok := nav.Current(); ok {
		st.Current = &m
	}
	return st
}

// Search запускает поиск по записям заметки и возвращает подсвеченные совпадения.
// Пустой запрос выключает поиск.
func (a *App) Search(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}
	v, err := a.view(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}

	entries := v.entries.List()
	v.nav.Search(entries, req.Query)
	st := stateOf(v.nav)
	st.Entries = []highlightedEntry{}
	for _, e := range search.Filter(entries, req.Query) {
		st.Entries = append(st.Entries, highlightedEntry{
			NoteEntry: e,
			Segments:  search.Highlight(e.Text, req.Query),
			HTML:      search.HighlightHTML(e.Text, req.Query),
		})
	}
	respondJSON(w, http.StatusOK, st)
}

func (a *App) SearchNext(w http.ResponseWriter, r *http.Request) {
	a.step(w, r, (*search.Navigator).Next)
}

func (a *App) SearchPrev(w http.ResponseWriter, r *http.Request) {
	a.step(w, r, (*search.Navigator).Prev)
}

func (a *App) step(w http.ResponseWriter, r *http.Request, move func(*search.Navigator) (search.Match, bool)) {
	v, err := a.view(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	move(v.nav)
	respondJSON(w, http.StatusOK, stateOf(v.nav))
}

func (a *App) ClearSearch(w http.ResponseWriter, r *http.Request) {
	v, err := a.view(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.respondStoreError(w, r, err)
		return
	}
	v.nav.Reset()
	w.WriteHeader(http.StatusNoContent)
}
