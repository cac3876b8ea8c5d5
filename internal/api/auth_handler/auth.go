package auth_handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/aista/magic-console/internal/api/response"
	"github.com/aista/magic-console/internal/auth"
	"github.com/aista/magic-console/internal/authz"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/session"
)

// AuthHandler Обработчик входа и выхода на активном бэкенде.
// При успешном входе дополнительно выдаёт куку с JWT-токеном самой консоли:
// ею защищены все остальные маршруты и подписки на события.
type AuthHandler struct {
	sess         *session.Manager
	authorizer   *authz.Authorizer
	tokenBuilder auth.TokenBuilder
	JWTSecretKey string
}

// NewAuthHandler Конструктор AuthHandler.
func NewAuthHandler(sess *session.Manager, authorizer *authz.Authorizer, tokenBuilder auth.TokenBuilder, JWTSecretKey string) *AuthHandler {
	return &AuthHandler{
		sess:         sess,
		authorizer:   authorizer,
		tokenBuilder: tokenBuilder,
		JWTSecretKey: JWTSecretKey,
	}
}

// loginRequest Тело запроса входа.
type loginRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	SavePassword bool   `json:"savePassword"`
}

// logoutRequest Тело запроса выхода.
type logoutRequest struct {
	DestroyPassword bool `json:"destroyPassword"`
}

// sessionResponse Снимок состояния сессии для фронтенда.
type sessionResponse struct {
	Authenticated bool               `json:"authenticated"`
	ActiveURL     string             `json:"activeUrl"`
	Status        string             `json:"status,omitempty"`
	Version       string             `json:"version,omitempty"`
	AccessRights  authz.AccessRights `json:"accessRights"`
}

// Login Вход на активном бэкенде.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Log.Error("Ошибка чтения тела запроса", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusInternalServerError, "Ошибка чтения тела запроса")
		return
	}

	var req loginRequest
	if err = json.Unmarshal(body, &req); err != nil {
		logger.Log.Error("Ошибка анмаршаллинга данных входа", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if req.Username == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать логин")
		return
	}

	if err = h.sess.Login(ctx, req.Username, req.Password, req.SavePassword); err != nil {
		logger.Log.Warn("Неудачный вход на бэкенд",
			logger.String("login", req.Username),
			logger.String("err", err.Error()))
		response.FromError(w, err)
		return
	}

	tokenString, err := h.tokenBuilder.BuildJWTToken(req.Username, h.JWTSecretKey)
	if err != nil {
		logger.Log.Debug("Ошибка при создании JWT-токена", logger.String("jwt-token", err.Error()))
		response.ErrorJSON(w, http.StatusInternalServerError, "Ошибка при создании JWT-токена")
		return
	}

	auth.CreateCookie(w, tokenString)

	activeURL, _, _ := h.sess.Active()

	logger.Log.Debug("Успешный вход на бэкенд",
		logger.String("login", req.Username),
		logger.String("url", activeURL))

	response.JSON(w, http.StatusOK, response.AuthResponse{
		Message: "Вход выполнен",
		Login:   req.Username,
		URL:     activeURL,
	})
}

// Logout Выход с активного бэкенда. Кука консоли также сбрасывается.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req logoutRequest

	defer r.Body.Close()
	if body, err := io.ReadAll(r.Body); err == nil && len(body) > 0 {
		// тело необязательно
		_ = json.Unmarshal(body, &req)
	}

	if err := h.sess.Logout(ctx, req.DestroyPassword); err != nil {
		response.FromError(w, err)
		return
	}

	auth.DeleteCookie(w)

	response.SuccessJSON(w, http.StatusOK, "Выход выполнен")
}

// GetSession Текущее состояние сессии: кто активен, аутентифицированы ли мы
// и какие права доступа действуют.
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{
		Authenticated: h.authorizer.IsAuthenticated(),
		AccessRights:  h.authorizer.AccessRights(),
	}

	if b := h.sess.ActiveBackend(); b != nil {
		resp.ActiveURL = b.URL
		resp.Status = b.Status
		resp.Version = b.Version
	}

	response.JSON(w, http.StatusOK, resp)
}
