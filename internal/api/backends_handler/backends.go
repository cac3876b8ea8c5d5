package backends_handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aista/magic-console/internal/api/response"
	"github.com/aista/magic-console/internal/errs"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/models"
	"github.com/aista/magic-console/internal/session"
)

// BackendsHandler Обработчик CRUD-операций над списком бэкендов.
type BackendsHandler struct {
	sess *session.Manager
}

// NewBackendsHandler Конструктор BackendsHandler.
func NewBackendsHandler(sess *session.Manager) *BackendsHandler {
	return &BackendsHandler{
		sess: sess,
	}
}

// activateRequest Тело запроса переключения активного бэкенда.
type activateRequest struct {
	URL string `json:"url"`
}

// GetBackends Список сконфигурированных бэкендов (пароли не отдаются).
func (h *BackendsHandler) GetBackends(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.sess.List())
}

// AddBackend Добавление нового бэкенда. Повторное добавление того же URL - конфликт.
func (h *BackendsHandler) AddBackend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	backend, ok := h.decodeBackend(w, r)
	if !ok {
		return
	}

	// идентичность бэкенда - нормализованный URL
	normalized := models.NormalizeURL(backend.URL)
	for _, existing := range h.sess.List() {
		if existing.URL == normalized {
			logger.Log.Warn("Бэкенд уже был добавлен", logger.String("url", normalized))
			response.FromError(w, errs.NewErrDuplicatedBackend(normalized, errors.New("duplicate")))
			return
		}
	}

	created, err := h.sess.Upsert(ctx, backend)
	if err != nil {
		logger.Log.Error("Ошибка добавления бэкенда", logger.String("err", err.Error()))
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, created)
}

// EditBackend Обновление существующего бэкенда (логин, пароль).
func (h *BackendsHandler) EditBackend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	backend, ok := h.decodeBackend(w, r)
	if !ok {
		return
	}

	normalized := models.NormalizeURL(backend.URL)

	found := false
	for _, existing := range h.sess.List() {
		if existing.URL == normalized {
			found = true
			break
		}
	}

	if !found {
		response.FromError(w, errs.NewErrBackendNotFound(normalized, nil))
		return
	}

	updated, err := h.sess.Upsert(ctx, backend)
	if err != nil {
		logger.Log.Error("Ошибка обновления бэкенда", logger.String("err", err.Error()))
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, updated)
}

// ActivateBackend Переключение активного бэкенда.
func (h *BackendsHandler) ActivateBackend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Log.Error("Ошибка чтения тела запроса", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusInternalServerError, "Ошибка чтения тела запроса")
		return
	}

	var req activateRequest
	if err = json.Unmarshal(body, &req); err != nil {
		logger.Log.Error("Ошибка анмаршаллинга запроса активации", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if req.URL == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать url бэкенда")
		return
	}

	if err = h.sess.Activate(ctx, req.URL); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Бэкенд активирован")
}

// DelBackend Удаление бэкенда. URL передаётся query-параметром.
func (h *BackendsHandler) DelBackend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	url := r.URL.Query().Get("url")
	if url == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать url бэкенда")
		return
	}

	if err := h.sess.Remove(ctx, url); err != nil {
		response.FromError(w, err)
		return
	}

	logger.Log.Debug("Бэкенд удалён", logger.String("url", models.NormalizeURL(url)))

	response.SuccessJSON(w, http.StatusOK, "Бэкенд удалён")
}

// Чтение и валидация модели бэкенда из тела запроса.
func (h *BackendsHandler) decodeBackend(w http.ResponseWriter, r *http.Request) (models.Backend, bool) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Log.Error("Ошибка чтения тела запроса", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusInternalServerError, "Ошибка чтения тела запроса")
		return models.Backend{}, false
	}

	var backend models.Backend
	if err = json.Unmarshal(body, &backend); err != nil {
		logger.Log.Error("Ошибка анмаршаллинга данных в модель Backend", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return models.Backend{}, false
	}

	backend.URL = models.NormalizeURL(backend.URL)

	if err = backend.CreateValidation(); err != nil {
		logger.Log.Error("Ошибка при валидации данных бэкенда", logger.String("err", err.Error()))
		response.ErrorJSON(w, http.StatusBadRequest, err.Error())
		return models.Backend{}, false
	}

	return backend, true
}
