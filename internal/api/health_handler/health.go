package health_handler

import (
	"encoding/json"
	"net/http"

	"github.com/aista/magic-console/internal/api/response"
	"github.com/aista/magic-console/internal/health_storage"
	"github.com/aista/magic-console/internal/logger"
)

// HealthHandler обрабатывает HTTP-запросы для проверки состояния сервиса
// и отдачи сетевых статусов бэкендов.
type HealthHandler struct {
	statusCache health_storage.StatusCacheStorage
}

// NewHealthHandler Конструктор HealthHandler.
func NewHealthHandler(statusCache health_storage.StatusCacheStorage) *HealthHandler {
	return &HealthHandler{
		statusCache: statusCache,
	}
}

// GetHealth обрабатывает health-check запрос и возвращает статус готовности сервиса.
func (h *HealthHandler) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// GetStatuses Снимок сетевых статусов всех бэкендов из in-memory хранилища.
func (h *HealthHandler) GetStatuses(w http.ResponseWriter, r *http.Request) {
	statuses := h.statusCache.All()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(statuses); err != nil {
		logger.Log.Error("Ошибка кодирования JSON", logger.String("err", err.Error()))
		response.ErrorJSON(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		return
	}
}
