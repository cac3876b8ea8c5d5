package models

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Backend Модель одного бэкенда Magic: адрес, учётные данные и производное
// состояние сессии. URL служит стабильным ключом идентичности бэкенда.
type Backend struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password,omitempty"`
	// Token Сырая строка JWT-токена. Пустая строка - токена нет.
	Token string `json:"token,omitempty"`
	// Endpoints Кэш метаданных эндпоинтов, полученных от бэкенда.
	// nil - метаданные ещё не запрашивались, пустой срез - запрос был,
	// но ничего не доступно (или запрос завершился ошибкой).
	Endpoints []Endpoint `json:"-"`
	Status    string     `json:"-"`
	Version   string     `json:"-"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
}

// NormalizeURL Нормализация URL бэкенда: обрезка пробелов и завершающих слэшей.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)

	for strings.HasSuffix(trimmed, "/") {
		trimmed = strings.TrimSuffix(trimmed, "/")
	}

	return trimmed
}

// CreateValidation Базовая валидация данных при добавлении бэкенда.
func (b Backend) CreateValidation() error {
	if len(b.URL) == 0 {
		return errors.New("необходимо указать URL бэкенда")
	}

	parsed, err := url.Parse(b.URL)
	if err != nil {
		return fmt.Errorf("невалидный URL бэкенда: %s", b.URL)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL бэкенда должен начинаться с http:// или https://: %s", b.URL)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL бэкенда не содержит хост: %s", b.URL)
	}

	return nil
}

// HasToken Есть ли у бэкенда установленный токен.
func (b Backend) HasToken() bool {
	return b.Token != ""
}
