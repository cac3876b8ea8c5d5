package terminal_handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/aista/magic-console/internal/api/response"
	"github.com/aista/magic-console/internal/authz"
	"github.com/aista/magic-console/internal/broadcast"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/magic"
	"github.com/aista/magic-console/internal/worker"
)

// BridgeFactory Фабрика мостов сокетов к активному бэкенду.
// Каждая терминальная сессия получает собственный мост.
type BridgeFactory func(ctx context.Context) (magic.SocketBridge, error)

// terminalEntry Живая терминальная сессия и её ресурсы.
type terminalEntry struct {
	session *magic.TerminalSession
	bridge  magic.SocketBridge
	cancel  context.CancelFunc
}

// TerminalHandler Обработчик терминальных сессий. Вывод терминала бэкенд
// шлёт по каналу сокетов; консоль транслирует его во фронтенд через SSE
// в топик, совпадающий с именем канала сессии.
type TerminalHandler struct {
	newBridge   BridgeFactory
	broadcaster broadcast.Broadcaster
	authorizer  *authz.Authorizer

	mu       sync.Mutex
	sessions map[string]*terminalEntry
}

// NewTerminalHandler Конструктор TerminalHandler.
func NewTerminalHandler(newBridge BridgeFactory, broadcaster broadcast.Broadcaster, authorizer *authz.Authorizer) *TerminalHandler {
	return &TerminalHandler{
		newBridge:   newBridge,
		broadcaster: broadcaster,
		authorizer:  authorizer,
		sessions:    make(map[string]*terminalEntry),
	}
}

// startRequest Тело запроса запуска терминала.
type startRequest struct {
	Folder string `json:"folder"`
}

// commandRequest Тело запроса команды терминала.
type commandRequest struct {
	Channel string `json:"channel"`
	Cmd     string `json:"cmd"`
}

// stopRequest Тело запроса остановки терминала.
type stopRequest struct {
	Channel string `json:"channel"`
}

// StartTerminal Запуск терминальной сессии на активном бэкенде.
// Возвращает имя канала: фронтенд подписывается на одноимённый SSE-топик.
func (h *TerminalHandler) StartTerminal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Terminal.Start {
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

	var req startRequest
	if len(body) > 0 {
		if err = json.Unmarshal(body, &req); err != nil {
			response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
			return
		}
	}

	if req.Folder == "" {
		req.Folder = "/"
	}

	bridge, err := h.newBridge(ctx)
	if err != nil {
		logger.Log.Error("Ошибка открытия моста сокетов", logger.String("err", err.Error()))
		response.FromError(w, err)
		return
	}

	session, err := magic.NewTerminalSession(ctx, bridge, req.Folder)
	if err != nil {
		_ = bridge.Close()
		response.FromError(w, err)
		return
	}

	relayCtx, cancel := context.WithCancel(context.Background())
	go worker.SocketRelayWorker(relayCtx, bridge, h.broadcaster)

	h.mu.Lock()
	h.sessions[session.Channel()] = &terminalEntry{
		session: session,
		bridge:  bridge,
		cancel:  cancel,
	}
	h.mu.Unlock()

	logger.Log.Info("Терминальная сессия запущена",
		logger.String("channel", session.Channel()),
		logger.String("folder", req.Folder))

	response.JSON(w, http.StatusCreated, map[string]string{"channel": session.Channel()})
}

// Command Отправка команды в терминальную сессию.
func (h *TerminalHandler) Command(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Terminal.Command {
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

	var req commandRequest
	if err = json.Unmarshal(body, &req); err != nil || req.Channel == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	h.mu.Lock()
	entry, ok := h.sessions[req.Channel]
	h.mu.Unlock()

	if !ok {
		response.ErrorJSON(w, http.StatusNotFound, "Терминальная сессия не найдена")
		return
	}

	if err = entry.session.Command(ctx, req.Cmd); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Команда отправлена")
}

// StopTerminal Остановка терминальной сессии и освобождение ресурсов.
func (h *TerminalHandler) StopTerminal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Terminal.Stop {
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

	var req stopRequest
	if err = json.Unmarshal(body, &req); err != nil || req.Channel == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	h.mu.Lock()
	entry, ok := h.sessions[req.Channel]
	delete(h.sessions, req.Channel)
	h.mu.Unlock()

	if !ok {
		response.ErrorJSON(w, http.StatusNotFound, "Терминальная сессия не найдена")
		return
	}

	if err = entry.session.Stop(ctx); err != nil {
		logger.Log.Warn("Ошибка остановки терминала на бэкенде",
			logger.String("channel", req.Channel),
			logger.String("err", err.Error()))
	}

	entry.cancel()
	_ = entry.bridge.Close()

	logger.Log.Info("Терминальная сессия остановлена", logger.String("channel", req.Channel))

	response.SuccessJSON(w, http.StatusOK, "Терминальная сессия остановлена")
}

// Close Остановка всех живых терминальных сессий (останов приложения).
func (h *TerminalHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for channel, entry := range h.sessions {
		entry.cancel()
		_ = entry.bridge.Close()
		delete(h.sessions, channel)
	}
}
