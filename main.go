package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jotpad_go/auth"
	"jotpad_go/config"
	"jotpad_go/controllers"
	"jotpad_go/data"
	"jotpad_go/linkpreview"
	"jotpad_go/logger"
	"jotpad_go/repository"

	"github.com/gorilla/mux"
)

const mainModule = "main"

func main() {
	cfg := config.Load()

	appLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer appLogger.Sync()

	// Инициализация базы данных
	store, err := data.Open(cfg.Database.Path, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	notes := repository.NewNoteRepository(store, appLogger)
	if settings, err := store.GetSettings(ctx); err == nil {
		notes.SetSortOrder(settings.SortOrder)
	}
	if err := notes.Load(ctx); err != nil {
		log.Fatalf("Failed to load notes: %v", err)
	}

	authSvc, err := auth.NewService(cfg.Auth.Password, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize auth: %v", err)
	}
	if !authSvc.Enabled() {
		appLogger.Warn(mainModule, "JOTPAD_API_PASSWORD is not set, API is open", nil)
	}

	links := linkpreview.NewClient(cfg.LinkPreview.BaseURL, cfg.LinkPreview.Timeout, cfg.LinkPreview.CacheTTL, appLogger)

	app := controllers.NewApp(store, notes, authSvc, links, appLogger, cfg.App.ExportDir)
	router := mux.NewRouter()
	app.Routes(router)

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "JotPad API запущен. Заметок: %d", len(notes.List()))
	}).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		appLogger.Info(mainModule, "Server started", map[string]interface{}{"port": cfg.App.Port, "env": cfg.App.Environment})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error(mainModule, "Server failed", map[string]interface{}{"error": err})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(mainModule, "Graceful shutdown failed", map[string]interface{}{"error": err})
	}
	appLogger.Info(mainModule, "Server stopped", nil)
}
