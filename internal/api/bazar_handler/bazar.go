package bazar_handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/aista/magic-console/internal/api/response"
	"github.com/aista/magic-console/internal/authz"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/magic"
)

// BazarHandler Обработчик маркетплейса (Bazar).
type BazarHandler struct {
	bazarService *magic.BazarService
	authorizer   *authz.Authorizer
}

// NewBazarHandler Конструктор BazarHandler.
func NewBazarHandler(bazarService *magic.BazarService, authorizer *authz.Authorizer) *BazarHandler {
	return &BazarHandler{
		bazarService: bazarService,
		authorizer:   authorizer,
	}
}

// installRequest Тело запроса установки приложения.
type installRequest struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// GetApps Список приложений маркетплейса. Сам список публичен: права нужны
// только на установку.
func (h *BazarHandler) GetApps(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	apps, err := h.bazarService.ListApps(ctx, r.URL.Query().Get("filter"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, apps)
}

// InstallApp Установка приложения на активный бэкенд. О прогрессе бэкенд
// сообщает по каналу сокетов, консоль транслирует его во фронтенд через SSE.
func (h *BazarHandler) InstallApp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Bazar.DownloadFromURL {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Log.Error("Ошибка чтения тела запроса", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusInternalServerError, "Ошибка чтения тела запроса")
		return
	}

	var req installRequest
	if err = json.Unmarshal(body, &req); err != nil {
		logger.Log.Error("Ошибка анмаршаллинга запроса установки", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if err = h.bazarService.Install(ctx, req.URL, req.Name); err != nil {
		response.FromError(w, err)
		return
	}

	logger.Log.Info("Запущена установка приложения",
		logger.String("name", req.Name),
		logger.String("url", req.URL))

	response.SuccessJSON(w, http.StatusAccepted, "Установка запущена")
}

// GetManifests Манифесты приложений, установленных на активном бэкенде.
func (h *BazarHandler) GetManifests(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Bazar.GetManifests {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	manifests, err := h.bazarService.Manifests(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, manifests)
}
