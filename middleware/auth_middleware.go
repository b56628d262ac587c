package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"jotpad_go/auth"
	"jotpad_go/logger"
)

const httpModule = "http"

type contextKey string

// TokenIDKey - ключ для хранения ID токена в контексте запроса.
const TokenIDKey contextKey = "tokenID"

// JWTMiddleware проверяет наличие и валидность JWT в заголовке Authorization.
// Если авторизация выключена (пароль не задан), запрос пропускается как есть.
func JWTMiddleware(svc *auth.Service, log logger.ILogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !svc.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Warn(httpModule, "Missing Authorization header", map[string]interface{}{"method": r.Method, "path": r.URL.Path})
				http.Error(w, "Отсутствует заголовок Authorization", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn(httpModule, "Malformed Authorization header", map[string]interface{}{"method": r.Method, "path": r.URL.Path})
				http.Error(w, "Неверный формат заголовка Authorization (ожидается Bearer {token})", http.StatusUnauthorized)
				return
			}

			claims, err := svc.ValidateToken(parts[1])
			if err != nil {
				log.Warn(httpModule, "Invalid token", map[string]interface{}{"method": r.Method, "path": r.URL.Path, "error": err.Error()})
				http.Error(w, "Невалидный токен: "+err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), TokenIDKey, claims.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger пишет метод, путь, статус и длительность каждого запроса.
func RequestLogger(log logger.ILogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Info(httpModule, "Request handled", map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
			})
		})
	}
}
