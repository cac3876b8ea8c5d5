package magic

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/aista/magic-console/internal/errs"
)

// MagicUser Пользователь бэкенда.
type MagicUser struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles,omitempty"`
	Locked   bool     `json:"locked,omitempty"`
	Created  string   `json:"created,omitempty"`
}

// MagicRole Роль бэкенда.
type MagicRole struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UsersService CRUD пользователей и ролей бэкенда плюс самостоятельная
// регистрация.
type UsersService struct {
	c            *Client
	systemPrefix string
}

// NewUsersService Конструктор UsersService.
func NewUsersService(c *Client, systemPrefix string) *UsersService {
	return &UsersService{
		c:            c,
		systemPrefix: systemPrefix,
	}
}

// ListUsers Постраничный список пользователей.
func (s *UsersService) ListUsers(ctx context.Context, filter string, offset, limit int) ([]MagicUser, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))
	if filter != "" {
		query.Set("username.like", "%"+filter+"%")
	}

	var users []MagicUser
	err := s.c.Get(ctx, s.systemPrefix+"/auth/users?"+query.Encode(), &users)

	return users, err
}

// CreateUser Создание пользователя.
func (s *UsersService) CreateUser(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return errs.NewErrInvalidArgument("username", fmt.Errorf("необходимо указать логин"))
	}

	body := map[string]string{
		"username": username,
		"password": password,
	}

	return s.c.Post(ctx, s.systemPrefix+"/auth/users", body, nil)
}

// DeleteUser Удаление пользователя.
func (s *UsersService) DeleteUser(ctx context.Context, username string) error {
	query := url.Values{}
	query.Set("username", username)

	return s.c.Delete(ctx, s.systemPrefix+"/auth/users?"+query.Encode(), nil)
}

// ListRoles Постраничный список ролей.
func (s *UsersService) ListRoles(ctx context.Context, filter string, offset, limit int) ([]MagicRole, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))
	if filter != "" {
		query.Set("name.like", "%"+filter+"%")
	}

	var roles []MagicRole
	err := s.c.Get(ctx, s.systemPrefix+"/auth/roles?"+query.Encode(), &roles)

	return roles, err
}

// CreateRole Создание роли.
func (s *UsersService) CreateRole(ctx context.Context, name, description string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewErrInvalidArgument("name", fmt.Errorf("необходимо указать имя роли"))
	}

	body := map[string]string{
		"name":        name,
		"description": description,
	}

	return s.c.Post(ctx, s.systemPrefix+"/auth/roles", body, nil)
}

// DeleteRole Удаление роли.
func (s *UsersService) DeleteRole(ctx context.Context, name string) error {
	query := url.Values{}
	query.Set("name", name)

	return s.c.Delete(ctx, s.systemPrefix+"/auth/roles?"+query.Encode(), nil)
}

// AddUserToRole Добавление пользователя в роль.
func (s *UsersService) AddUserToRole(ctx context.Context, username, role string) error {
	body := map[string]string{
		"user": username,
		"role": role,
	}

	return s.c.Post(ctx, s.systemPrefix+"/auth/users-roles", body, nil)
}

// RemoveUserFromRole Удаление пользователя из роли.
func (s *UsersService) RemoveUserFromRole(ctx context.Context, username, role string) error {
	query := url.Values{}
	query.Set("user", username)
	query.Set("role", role)

	return s.c.Delete(ctx, s.systemPrefix+"/auth/users-roles?"+query.Encode(), nil)
}

// Register Самостоятельная регистрация пользователя на бэкенде.
func (s *UsersService) Register(ctx context.Context, username, password, frontendURL string) error {
	body := map[string]string{
		"username":    username,
		"password":    password,
		"frontendUrl": frontendURL,
	}

	return s.c.Post(ctx, s.systemPrefix+"/auth/register", body, nil)
}
