package controllers

import (
	"errors"
	"net/http"

	"jotpad_go/auth"
	"jotpad_go/models"
)

// IssueToken обменивает пароль локального API на JWT.
// Пример URL: POST /api/auth/token
func (a *App) IssueToken(w http.ResponseWriter, r *http.Request) {
	if !a.auth.Enabled() {
		respondError(w, http.StatusNotFound, "Авторизация выключена: пароль API не задан.")
		return
	}

	var req models.TokenRequest
	if !a.decodeJSON(w, r, &req) {
		return
	}

	token, expiresAt, err := a.auth.IssueToken(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidPassword) {
			a.log.Warn(httpModule, "Wrong API password", map[string]interface{}{"remote": r.RemoteAddr})
			respondError(w, http.StatusUnauthorized, "Неверный пароль.")
			return
		}
		a.respondStoreError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, models.TokenResponse{Token: token, ExpiresAt: expiresAt})
}
