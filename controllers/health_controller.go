package controllers

import (
	"context"
	"net/http"
	"time"
)

// HealthCheck возвращает статус "OK", если сервер работает и БД отвечает.
func (a *App) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := a.store.Ping(ctx); err != nil {
		a.log.Error(httpModule, "Database ping failed", map[string]interface{}{"error": err})
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN", "database": err.Error()})
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"status": "OK", "notes": len(a.notes.List())})
}
