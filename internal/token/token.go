package token

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/aista/magic-console/internal/errs"
)

// Token Декодированный bearer-токен бэкенда: срок действия и роли.
// Консоль не является издателем токена и не знает ключа подписи, поэтому
// токен разбирается без проверки подписи - проверяет её сам бэкенд.
// Структура неизменяемая: при обновлении токен заменяется целиком.
type Token struct {
	raw       string
	expiresAt time.Time
	roles     []string
}

// Decode Разбор сырой строки токена. Срок действия и роли извлекаются один раз
// при декодировании. При любой структурной ошибке (неверное число сегментов,
// битый base64, нечитаемые claims) возвращается errs.ErrMalformedToken.
func Decode(raw string) (*Token, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errs.NewErrMalformedToken(fmt.Errorf("пустая строка токена"))
	}

	claims := jwt.MapClaims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, errs.NewErrMalformedToken(err)
	}

	t := &Token{raw: raw}

	expiresAt, err := extractExpiry(claims)
	if err != nil {
		return nil, errs.NewErrMalformedToken(err)
	}
	t.expiresAt = expiresAt

	t.roles = extractRoles(claims)

	return t, nil
}

// Разбор claim-а exp. Claim опционален (токен без exp считается истёкшим),
// но если присутствует - обязан быть числом секунд Unix-времени.
func extractExpiry(claims jwt.MapClaims) (time.Time, error) {
	v, ok := claims["exp"]
	if !ok {
		return time.Time{}, nil
	}

	switch exp := v.(type) {
	case float64:
		return time.Unix(int64(exp), 0), nil
	case json.Number:
		sec, err := exp.Int64()
		if err != nil {
			return time.Time{}, fmt.Errorf("нечисловой claim exp: %w", err)
		}
		return time.Unix(sec, 0), nil
	default:
		return time.Time{}, fmt.Errorf("claim exp имеет неожиданный тип %T", v)
	}
}

// Нормализация claim-а с ролями: бэкенд отдаёт либо одну роль строкой,
// либо список ролей. Приводим оба варианта к единому срезу.
func extractRoles(claims jwt.MapClaims) []string {
	v, ok := claims["role"]
	if !ok {
		return nil
	}

	switch role := v.(type) {
	case string:
		return []string{role}
	case []interface{}:
		roles := make([]string, 0, len(role))
		for _, r := range role {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
		return roles
	default:
		return nil
	}
}

// Raw Сырая строка токена.
func (t *Token) Raw() string {
	return t.raw
}

// ExpiresAt Момент истечения срока действия токена.
func (t *Token) ExpiresAt() time.Time {
	return t.expiresAt
}

// IsExpired Истёк ли токен. Граница включается: токен, у которого срок
// наступил ровно сейчас, считается истёкшим. Вычисляется заново при каждом
// вызове, не кэшируется.
func (t *Token) IsExpired() bool {
	return !time.Now().Before(t.expiresAt)
}

// SecondsUntilExpiry Секунд до истечения срока действия. Может быть
// отрицательным, если токен уже истёк.
func (t *Token) SecondsUntilExpiry() float64 {
	return time.Until(t.expiresAt).Seconds()
}

// Roles Роли, заявленные в токене.
func (t *Token) Roles() []string {
	return t.roles
}

// HasRole Есть ли у токена заявленная роль.
func (t *Token) HasRole(name string) bool {
	for _, r := range t.roles {
		if r == name {
			return true
		}
	}

	return false
}
