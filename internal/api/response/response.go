package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aista/magic-console/internal/errs"
	"github.com/aista/magic-console/internal/logger"
)

// AuthResponse Успешный ответ при входе на бэкенд.
type AuthResponse struct {
	Message string `json:"message"`
	Login   string `json:"login"`
	URL     string `json:"url"`
}

// APIError Модель возвращаемых ответов при ошибках.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// APISuccess Модель успешного ответа API.
type APISuccess struct {
	Message string `json:"message"`
}

// JSON Пишет в ответ хендлера произвольные данные.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// SuccessJSON Шаблон для успешного ответа в хендлерах.
func SuccessJSON(w http.ResponseWriter, status int, message string) {
	JSON(w, status, APISuccess{Message: message})
}

// ErrorJSON Шаблон для ответа с ошибкой в хендлерах.
func ErrorJSON(w http.ResponseWriter, status int, message string) {
	JSON(w, status, APIError{Code: status, Message: message})
}

// FromError Единое отображение доменных ошибок в HTTP-ответы.
// Ошибка транспорта бэкенда пробрасывается с его кодом, всё неизвестное
// становится 500 без деталей наружу.
func FromError(w http.ResponseWriter, err error) {
	var (
		transportErr   *errs.TransportError
		authErr        *errs.ErrAuthentication
		invalidArgErr  *errs.ErrInvalidArgument
		notFoundErr    *errs.ErrBackendNotFound
		duplicatedErr  *errs.ErrDuplicatedBackend
		malformedToken *errs.ErrMalformedToken
	)

	switch {
	case errors.Is(err, errs.ErrNotConnected):
		ErrorJSON(w, http.StatusServiceUnavailable, "Нет активного бэкенда")
	case errors.As(err, &authErr):
		ErrorJSON(w, http.StatusUnauthorized, "Неверная пара логин/пароль")
	case errors.As(err, &invalidArgErr):
		ErrorJSON(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &notFoundErr):
		ErrorJSON(w, http.StatusNotFound, "Бэкенд не найден")
	case errors.As(err, &duplicatedErr):
		ErrorJSON(w, http.StatusConflict, "Бэкенд уже был добавлен")
	case errors.As(err, &malformedToken):
		ErrorJSON(w, http.StatusBadGateway, "Бэкенд вернул некорректный токен")
	case errors.As(err, &transportErr):
		ErrorJSON(w, transportErr.StatusCode, transportErr.Body)
	default:
		logger.Log.Error("Внутренняя ошибка сервера", logger.String("err", err.Error()))
		ErrorJSON(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
	}
}
