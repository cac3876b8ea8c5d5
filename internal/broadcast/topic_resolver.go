package broadcast

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aista/magic-console/internal/auth"
)

// MakeJWTTopicResolver возвращает resolver, использующий JWT из cookie "JWT".
// Разрешённые потоки: status (сетевые статусы бэкендов), session (состояние
// сессии активного бэкенда) и terminal-<id> (вывод терминальной сессии).
func MakeJWTTopicResolver(JWTSecretKey string, tokenBuilder auth.TokenBuilder) TopicResolver {
	return func(r *http.Request) (string, error) {
		c, err := r.Cookie("JWT")
		if err != nil {
			return "", err
		}
		token := c.Value

		claims, err := tokenBuilder.GetClaims(token, JWTSecretKey)
		if err != nil {
			return "", err
		}
		if claims.Login == "" {
			return "", errors.New("пустой логин в токене консоли")
		}

		// тип потока (status / session / terminal-<id>)
		stream := r.URL.Query().Get("stream")
		if stream == "" {
			return "", errors.New("параметр запроса stream обязателен")
		}

		switch {
		case stream == "status", stream == "session":
			// OK
		case strings.HasPrefix(stream, "terminal-"):
			// OK
		default:
			return "", errors.New("неизвестный тип потока")
		}

		return stream, nil
	}
}
