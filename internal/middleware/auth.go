package middleware

import (
	"net/http"

	"github.com/aista/magic-console/internal/api/response"
	"github.com/aista/magic-console/internal/contextkeys"
	"github.com/aista/magic-console/internal/logger"
)

// RequireAuthMiddleware проверяет наличие логина в контексте.
func RequireAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		login, ok := r.Context().Value(contextkeys.Login).(string)
		if !ok || login == "" {
			logger.Log.Error("Не удалось получить логин из контекста")
			response.ErrorJSON(w, http.StatusInternalServerError, "Ошибка сервера")
			return
		}

		next.ServeHTTP(w, r)
	})
}
