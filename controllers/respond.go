package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"jotpad_go/export"
	"jotpad_go/repository"

	"github.com/go-playground/validator/v10"
)

// maxBodySize ограничивает тело обычных JSON запросов.
const maxBodySize = 1 << 20

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// decodeJSON читает тело запроса в dst и проверяет его по тегам validate.
func (a *App) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "Неверный формат запроса: "+err.Error())
		return false
	}
	if err := a.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, fmt.Sprintf("%s: %s", fe.Namespace(), fe.Tag()))
			}
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: "Ошибка валидации", Details: details})
			return false
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// respondStoreError переводит ошибки репозиториев в HTTP статусы. Неизвестные ошибки логируются как 500.
func (a *App) respondStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicateTitle):
		respondError(w, http.StatusConflict, "Заметка с таким заголовком уже существует.")
	case errors.Is(err, repository.ErrNoteNotFound):
		respondError(w, http.StatusNotFound, "Заметка не найдена.")
	case errors.Is(err, repository.ErrEntryNotFound):
		respondError(w, http.StatusNotFound, "Запись не найдена.")
	case errors.Is(err, repository.ErrEmptyTitle),
		errors.Is(err, repository.ErrEmptyEntry),
		errors.Is(err, repository.ErrInvalidTag),
		errors.Is(err, export.ErrUnknownFormat):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		a.log.Error(httpModule, "Request failed", map[string]interface{}{
			"method": r.Method, "path": r.URL.Path, "error": err,
		})
		respondError(w, http.StatusInternalServerError, "Внутренняя ошибка сервера.")
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
