package users_handler

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

// UsersHandler Обработчик управления пользователями и ролями активного бэкенда.
type UsersHandler struct {
	usersService *magic.UsersService
	authorizer   *authz.Authorizer
}

// NewUsersHandler Конструктор UsersHandler.
func NewUsersHandler(usersService *magic.UsersService, authorizer *authz.Authorizer) *UsersHandler {
	return &UsersHandler{
		usersService: usersService,
		authorizer:   authorizer,
	}
}

// userRequest Тело запросов создания пользователя и регистрации.
type userRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	FrontendURL string `json:"frontendUrl,omitempty"`
}

// roleRequest Тело запроса создания роли.
type roleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// userRoleRequest Тело запросов добавления/удаления пользователя в роли.
type userRoleRequest struct {
	User string `json:"user"`
	Role string `json:"role"`
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

// GetUsers Постраничный список пользователей бэкенда.
func (h *UsersHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Auth.ViewUsers {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	offset, limit := paging(r)

	users, err := h.usersService.ListUsers(ctx, r.URL.Query().Get("filter"), offset, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, users)
}

// AddUser Создание пользователя на бэкенде.
func (h *UsersHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Auth.CreateUser {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	req, ok := h.decodeUser(w, r)
	if !ok {
		return
	}

	if err := h.usersService.CreateUser(ctx, req.Username, req.Password); err != nil {
		response.FromError(w, err)
		return
	}

	logger.Log.Debug("Пользователь создан", logger.String("login", req.Username))

	response.SuccessJSON(w, http.StatusCreated, "Пользователь создан")
}

// DelUser Удаление пользователя бэкенда.
func (h *UsersHandler) DelUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Auth.DeleteUser {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	username := r.URL.Query().Get("username")
	if username == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать username")
		return
	}

	if err := h.usersService.DeleteUser(ctx, username); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Пользователь удалён")
}

// GetRoles Постраничный список ролей бэкенда.
func (h *UsersHandler) GetRoles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Auth.ViewRoles {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	offset, limit := paging(r)

	roles, err := h.usersService.ListRoles(ctx, r.URL.Query().Get("filter"), offset, limit)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, roles)
}

// AddRole Создание роли на бэкенде.
func (h *UsersHandler) AddRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Auth.CreateRole {
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

	var req roleRequest
	if err = json.Unmarshal(body, &req); err != nil {
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if err = h.usersService.CreateRole(ctx, req.Name, req.Description); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusCreated, "Роль создана")
}

// DelRole Удаление роли бэкенда.
func (h *UsersHandler) DelRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Auth.DeleteRole {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать name")
		return
	}

	if err := h.usersService.DeleteRole(ctx, name); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Роль удалена")
}

// AddUserToRole Добавление пользователя в роль.
func (h *UsersHandler) AddUserToRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Auth.UpdateUser {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	req, ok := h.decodeUserRole(w, r)
	if !ok {
		return
	}

	if err := h.usersService.AddUserToRole(ctx, req.User, req.Role); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Роль назначена")
}

// DelUserFromRole Удаление пользователя из роли.
func (h *UsersHandler) DelUserFromRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Auth.UpdateUser {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	user := r.URL.Query().Get("user")
	role := r.URL.Query().Get("role")

	if user == "" || role == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать user и role")
		return
	}

	if err := h.usersService.RemoveUserFromRole(ctx, user, role); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Роль снята")
}

// Register Самостоятельная регистрация пользователя на бэкенде.
// Право определяется метаданными эндпоинта register: на открытых бэкендах
// он публичен.
func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := h.decodeUser(w, r)
	if !ok {
		return
	}

	if err := h.usersService.Register(ctx, req.Username, req.Password, req.FrontendURL); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusCreated, "Пользователь зарегистрирован")
}

// Чтение тела запроса с данными пользователя.
func (h *UsersHandler) decodeUser(w http.ResponseWriter, r *http.Request) (userRequest, bool) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Log.Error("Ошибка чтения тела запроса", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusInternalServerError, "Ошибка чтения тела запроса")
		return userRequest{}, false
	}

	var req userRequest
	if err = json.Unmarshal(body, &req); err != nil {
		logger.Log.Error("Ошибка анмаршаллинга данных пользователя", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return userRequest{}, false
	}

	if req.Username == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать логин")
		return userRequest{}, false
	}

	return req, true
}

// Чтение тела запроса пары пользователь/роль.
func (h *UsersHandler) decodeUserRole(w http.ResponseWriter, r *http.Request) (userRoleRequest, bool) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Log.Error("Ошибка чтения тела запроса", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusInternalServerError, "Ошибка чтения тела запроса")
		return userRoleRequest{}, false
	}

	var req userRoleRequest
	if err = json.Unmarshal(body, &req); err != nil || req.User == "" || req.Role == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return userRoleRequest{}, false
	}

	return req, true
}
