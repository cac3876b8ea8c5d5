package magic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/aista/magic-console/internal/errs"
	"github.com/aista/magic-console/internal/models"
)

// AuthAPI Прямые вызовы аутентификации и обнаружения возможностей бэкенда.
// В отличие от Client, работает с явно переданным базовым URL: менеджеру
// сессий нужно обновлять токены и не-активных бэкендов.
type AuthAPI struct {
	httpc        *http.Client
	systemPrefix string
}

// NewAuthAPI Конструктор AuthAPI.
func NewAuthAPI(systemPrefix string) *AuthAPI {
	return &AuthAPI{
		httpc:        &http.Client{Timeout: defaultTimeout},
		systemPrefix: systemPrefix,
	}
}

// ticketResponse Ответ бэкенда на аутентификацию и обновление токена.
type ticketResponse struct {
	Ticket string `json:"ticket"`
}

// Authenticate Аутентификация на бэкенде. Логин и пароль передаются
// query-параметрами - так определён внешний API Magic. Возвращает сырой токен.
func (a *AuthAPI) Authenticate(ctx context.Context, baseURL, username, password string) (string, error) {
	query := url.Values{}
	query.Set("username", username)
	query.Set("password", password)

	target := baseURL + a.systemPrefix + "/authenticate?" + query.Encode()

	var ticket ticketResponse
	if err := a.getJSON(ctx, target, "", &ticket); err != nil {
		return "", errs.NewErrAuthentication(baseURL, err)
	}

	if ticket.Ticket == "" {
		return "", errs.NewErrAuthentication(baseURL, fmt.Errorf("бэкенд вернул пустой ticket"))
	}

	return ticket.Ticket, nil
}

// Refresh Тихое обновление токена. Тело запроса пустое, аутентификация -
// текущим токеном. Возвращает новый сырой токен.
func (a *AuthAPI) Refresh(ctx context.Context, baseURL, rawToken string) (string, error) {
	target := baseURL + a.systemPrefix + "/refresh-ticket"

	var ticket ticketResponse
	if err := a.getJSON(ctx, target, rawToken, &ticket); err != nil {
		return "", errs.NewErrAuthentication(baseURL, err)
	}

	if ticket.Ticket == "" {
		return "", errs.NewErrAuthentication(baseURL, fmt.Errorf("бэкенд вернул пустой ticket"))
	}

	return ticket.Ticket, nil
}

// Endpoints Получение метаданных эндпоинтов бэкенда.
func (a *AuthAPI) Endpoints(ctx context.Context, baseURL, rawToken string) ([]models.Endpoint, error) {
	target := baseURL + a.systemPrefix + "/auth/endpoints"

	var endpoints []models.Endpoint
	if err := a.getJSON(ctx, target, rawToken, &endpoints); err != nil {
		return nil, err
	}

	return endpoints, nil
}

// StatusResponse Статус установки бэкенда.
type StatusResponse struct {
	ConfigDone     bool `json:"config_done"`
	MagicCrudified bool `json:"magic_crudified"`
	ServerKeypair  bool `json:"server_keypair"`
}

// Status Получение статуса установки бэкенда.
func (a *AuthAPI) Status(ctx context.Context, baseURL, rawToken string) (*StatusResponse, error) {
	target := baseURL + a.systemPrefix + "/config/status"

	var status StatusResponse
	if err := a.getJSON(ctx, target, rawToken, &status); err != nil {
		return nil, err
	}

	return &status, nil
}

// versionResponse Ответ бэкенда с версией.
type versionResponse struct {
	Version string `json:"version"`
}

// Version Получение версии бэкенда.
func (a *AuthAPI) Version(ctx context.Context, baseURL, rawToken string) (string, error) {
	target := baseURL + a.systemPrefix + "/version"

	var version versionResponse
	if err := a.getJSON(ctx, target, rawToken, &version); err != nil {
		return "", err
	}

	return version.Version, nil
}

// Общий GET с разбором JSON-ответа.
func (a *AuthAPI) getJSON(ctx context.Context, target, rawToken string, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}

	if rawToken != "" {
		req.Header.Set("Authorization", "Bearer "+rawToken)
	}

	resp, err := a.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения тела ответа: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.NewTransportError(resp.StatusCode, string(raw))
	}

	if err = json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("ошибка разбора тела ответа: %w", err)
	}

	return nil
}

// SetTimeout Переопределение таймаута HTTP-клиента (используется в тестах).
func (a *AuthAPI) SetTimeout(timeout time.Duration) {
	a.httpc.Timeout = timeout
}
