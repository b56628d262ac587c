// Package controllers - HTTP API поверх репозиториев: боковая панель (заметки, теги),
// просмотр заметки (записи, поиск), настройки, экспорт и бэкап.
package controllers

import (
	"context"
	"net/http"
	"sync"

	"jotpad_go/auth"
	"jotpad_go/data"
	"jotpad_go/linkpreview"
	"jotpad_go/logger"
	"jotpad_go/middleware"
	"jotpad_go/repository"
	"jotpad_go/search"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const httpModule = "http"

// noteView - состояние открытой заметки: ее записи и текущий поиск.
type noteView struct {
	entries *repository.EntryRepository
	nav     *search.Navigator
}

// App - состояние приложения, общее для всех обработчиков.
type App struct {
	store     *data.Store
	notes     *repository.NoteRepository
	auth      *auth.Service
	links     *linkpreview.Client
	log       logger.ILogger
	exportDir string
	validate  *validator.Validate

	mu    sync.Mutex
	views map[string]*noteView
}

func NewApp(store *data.Store, notes *repository.NoteRepository, authSvc *auth.Service,
	links *linkpreview.Client, log logger.ILogger, exportDir string) *App {
	return &App{
		store:     store,
		notes:     notes,
		auth:      authSvc,
		links:     links,
		log:       log,
		exportDir: exportDir,
		validate:  validator.New(),
		views:     make(map[string]*noteView),
	}
}

// Routes регистрирует маршруты API. Все, кроме /api/health и /api/auth/token, закрыты JWT.
func (a *App) Routes(router *mux.Router) {
	router.Use(middleware.RequestLogger(a.log))

	router.HandleFunc("/api/health", a.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/token", a.IssueToken).Methods(http.MethodPost)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.JWTMiddleware(a.auth, a.log))

	api.HandleFunc("/notes", a.ListNotes).Methods(http.MethodGet)
	api.HandleFunc("/notes", a.CreateNote).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}", a.GetNote).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}", a.UpdateNote).Methods(http.MethodPut)
	api.HandleFunc("/notes/{id}", a.DeleteNote).Methods(http.MethodDelete)
	api.HandleFunc("/notes/{id}/pin", a.PinNote).Methods(http.MethodPut)

	api.HandleFunc("/tags", a.ListTags).Methods(http.MethodGet)
	api.HandleFunc("/tags/{name}", a.RenameTag).Methods(http.MethodPut)
	api.HandleFunc("/tags/{name}", a.DeleteTag).Methods(http.MethodDelete)

	api.HandleFunc("/notes/{id}/entries", a.ListEntries).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}/entries", a.AddEntry).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}/entries/pinned", a.PinnedEntries).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}/entries/{entryId}", a.EditEntry).Methods(http.MethodPut)
	api.HandleFunc("/notes/{id}/entries/{entryId}", a.DeleteEntry).Methods(http.MethodDelete)
	api.HandleFunc("/notes/{id}/entries/{entryId}/pin", a.PinEntry).Methods(http.MethodPut)

	api.HandleFunc("/notes/{id}/search", a.Search).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}/search", a.ClearSearch).Methods(http.MethodDelete)
	api.HandleFunc("/notes/{id}/search/next", a.SearchNext).Methods(http.MethodPost)
	api.HandleFunc("/notes/{id}/search/prev", a.SearchPrev).Methods(http.MethodPost)

	api.HandleFunc("/notes/{id}/export", a.ExportNote).Methods(http.MethodGet)
	api.HandleFunc("/notes/{id}/export", a.SaveExport).Methods(http.MethodPost)

	api.HandleFunc("/settings", a.GetSettings).Methods(http.MethodGet)
	api.HandleFunc("/settings", a.UpdateSettings).Methods(http.MethodPut)

	api.HandleFunc("/link-preview", a.LinkPreview).Methods(http.MethodGet)

	api.HandleFunc("/backup", a.DownloadBackup).Methods(http.MethodGet)
	api.HandleFunc("/backup", a.RestoreBackup).Methods(http.MethodPost)
}

// view открывает заметку: записи перечитываются из БД при каждом обращении.
func (a *App) view(ctx context.Context, noteID string) (*noteView, error) {
	a.mu.Lock()
	v, ok := a.views[noteID]
	if !ok {
		v = &noteView{
			entries: repository.NewEntryRepository(a.store, a.notes, a.log),
			nav:     search.NewNavigator(),
		}
		a.views[noteID] = v
	}
	a.mu.Unlock()

	if err := v.entries.Load(ctx, noteID); err != nil {
		a.dropView(noteID)
		return nil, err
	}
	return v, nil
}

func (a *App) dropView(noteID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.views, noteID)
}

func (a *App) dropAllViews() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.views = make(map[string]*noteView)
}
