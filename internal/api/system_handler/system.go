package system_handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/aista/magic-console/internal/api/response"
	"github.com/aista/magic-console/internal/authz"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/magic"
)

// SystemHandler Обработчик системных разделов консоли: серверный кэш, лог,
// конфигурация, криптография и диагностика активного бэкенда.
type SystemHandler struct {
	cacheService  *magic.CacheService
	logService    *magic.LogService
	configService *magic.ConfigService
	cryptoService *magic.CryptoService
	diagService   *magic.DiagnosticsService
	authorizer    *authz.Authorizer
}

// NewSystemHandler Конструктор SystemHandler.
func NewSystemHandler(cacheService *magic.CacheService, logService *magic.LogService, configService *magic.ConfigService, cryptoService *magic.CryptoService, diagService *magic.DiagnosticsService, authorizer *authz.Authorizer) *SystemHandler {
	return &SystemHandler{
		cacheService:  cacheService,
		logService:    logService,
		configService: configService,
		cryptoService: cryptoService,
		diagService:   diagService,
		authorizer:    authorizer,
	}
}

// Постраничные параметры из query-строки (offset=0, limit=20 по умолчанию).
func paging(r *http.Request) (int, int) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 20
	}

	return offset, limit
}

// GetCacheItems Постраничный список элементов серверного кэша.
func (h *SystemHandler) GetCacheItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Cache.Read {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	offset, limit := paging(r)

	items, err := h.cacheService.List(ctx, r.URL.Query().Get("filter"), offset, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, items)
}

// GetCacheCount Количество элементов кэша.
func (h *SystemHandler) GetCacheCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Cache.Count {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	count, err := h.cacheService.Count(ctx, r.URL.Query().Get("filter"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]int64{"count": count})
}

// DelCacheItem Удаление элемента кэша по ключу.
func (h *SystemHandler) DelCacheItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Cache.Delete {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	key := r.URL.Query().Get("id")
	if key == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать id")
		return
	}

	if err := h.cacheService.Delete(ctx, key); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Элемент кэша удалён")
}

// ClearCache Полная очистка кэша.
func (h *SystemHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Cache.Clear {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	if err := h.cacheService.Clear(ctx, r.URL.Query().Get("filter")); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Кэш очищен")
}

// GetLogItems Постраничный список записей серверного лога.
func (h *SystemHandler) GetLogItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Log.Read {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	_, limit := paging(r)
	fromID, _ := strconv.ParseInt(r.URL.Query().Get("from"), 10, 64)

	items, err := h.logService.List(ctx, r.URL.Query().Get("filter"), fromID, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, items)
}

// GetLogCount Количество записей лога.
func (h *SystemHandler) GetLogCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Log.Count {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	count, err := h.logService.Count(ctx, r.URL.Query().Get("filter"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]int64{"count": count})
}

// GetLogStatistics Статистика лога по типам за период.
func (h *SystemHandler) GetLogStatistics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Log.Statistics {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	days, err := strconv.Atoi(r.URL.Query().Get("days"))
	if err != nil || days <= 0 {
		days = 14
	}

	stats, err := h.logService.Statistics(ctx, days)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, stats)
}

// GetConfig Текущая конфигурация бэкенда.
func (h *SystemHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Config.Load {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	config, err := h.configService.Load(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, config)
}

// SaveConfig Сохранение конфигурации бэкенда целиком.
func (h *SystemHandler) SaveConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Config.Save {
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

	var config map[string]any
	if err = json.Unmarshal(body, &config); err != nil || len(config) == 0 {
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if err = h.configService.Save(ctx, config); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Конфигурация сохранена")
}

// GetSetupStatus Статус первичной настройки бэкенда.
func (h *SystemHandler) GetSetupStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := h.configService.SetupStatus(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, status)
}

// GetServerPublicKey Публичный ключ сервера.
func (h *SystemHandler) GetServerPublicKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Crypto.ReadServerPublicKey {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	key, err := h.cryptoService.ServerPublicKey(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, key)
}

// generateKeyPairRequest Тело запроса генерации серверной пары ключей.
type generateKeyPairRequest struct {
	Strength int    `json:"strength"`
	Seed     string `json:"seed"`
}

// GenerateServerKeyPair Генерация новой серверной пары ключей.
func (h *SystemHandler) GenerateServerKeyPair(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Crypto.CreateServerKeyPair {
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

	var req generateKeyPairRequest
	if err = json.Unmarshal(body, &req); err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if err = h.cryptoService.GenerateServerKeyPair(ctx, req.Strength, req.Seed); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusCreated, "Серверная пара ключей создана")
}

// ImportPublicKey Импорт чужого публичного ключа.
func (h *SystemHandler) ImportPublicKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Crypto.ImportPublicKey {
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

	var key magic.PublicKey
	if err = json.Unmarshal(body, &key); err != nil || key.Content == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if err = h.cryptoService.ImportPublicKey(ctx, key); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusCreated, "Ключ импортирован")
}

// GetPublicKeys Постраничный список импортированных публичных ключей.
func (h *SystemHandler) GetPublicKeys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Crypto.ListPublicKeys {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	offset, limit := paging(r)

	keys, err := h.cryptoService.ListPublicKeys(ctx, r.URL.Query().Get("filter"), offset, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, keys)
}

// DelPublicKey Удаление импортированного публичного ключа.
func (h *SystemHandler) DelPublicKey(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Crypto.ListPublicKeys {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать id")
		return
	}

	if err = h.cryptoService.DeletePublicKey(ctx, id); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Ключ удалён")
}

// GetReceipts Постраничный список квитанций подписанных вызовов.
func (h *SystemHandler) GetReceipts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Crypto.ListReceipts {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	offset, limit := paging(r)

	receipts, err := h.cryptoService.ListReceipts(ctx, offset, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, receipts)
}

// GetSystemInformation Диагностика активного бэкенда (доступна только root).
func (h *SystemHandler) GetSystemInformation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.IsRoot() {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	info, err := h.diagService.SystemInformation(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, info)
}

// GetVersion Версия активного бэкенда.
func (h *SystemHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	version, err := h.diagService.Version(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"version": version})
}

// GetAssumptions Список тестов-предположений бэкенда (доступен только root).
func (h *SystemHandler) GetAssumptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.IsRoot() {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	assumptions, err := h.diagService.Assumptions(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, assumptions)
}

// ExecuteAssumption Выполнение одного теста-предположения по его файлу.
func (h *SystemHandler) ExecuteAssumption(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.IsRoot() {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	root := r.URL.Query().Get("root")
	if root == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать root")
		return
	}

	ok, err := h.diagService.ExecuteAssumption(ctx, root)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{"success": ok})
}
