package auth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Claims Полезная нагрузка JWT-токена консоли.
// Токен консоли не имеет отношения к токенам бэкендов: он лишь подтверждает,
// что браузерная сессия прошла вход в саму консоль.
type Claims struct {
	jwt.RegisteredClaims
	Login string
}

const TokenExp = time.Hour * 24

// JWTTokenBuilder Реализация TokenBuilder поверх golang-jwt.
type JWTTokenBuilder struct{}

// NewJWTTokenBuilder Конструктор JWTTokenBuilder.
func NewJWTTokenBuilder() *JWTTokenBuilder {
	return &JWTTokenBuilder{}
}

// BuildJWTToken Создание JWT-токена консоли.
func (b *JWTTokenBuilder) BuildJWTToken(login, JWTSecretKey string) (string, error) {
	// создаем экземпляр структуры, которую будем записывать в токен
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExp)),
		},
		Login: login,
	}

	// создаем токен с claims
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// подписываем секретным ключом и возвращаем токен в виде строки
	tokenString, err := token.SignedString([]byte(JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("не удалось подписать токен: %w", err)
	}

	return tokenString, nil
}

// GetClaims Распарсивание и проверка JWT-токена консоли.
func (b *JWTTokenBuilder) GetClaims(tokenString, JWTSecretKey string) (*Claims, error) {
	// создаем пустой экземпляр Claims, куда будем распарсивать токен
	claims := &Claims{}

	// распарсиваем токен, проверяя на метод подписи
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return "", fmt.Errorf("неверный метод подписи: %v", t.Header["alg"])
		}

		return []byte(JWTSecretKey), nil
	})

	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга токена: %w", err)
	}

	// проверяем токен на валидность
	if !token.Valid {
		return nil, fmt.Errorf("токен недействителен")
	}

	return claims, nil
}

// CreateCookie Создание и установка куки с JWT-токеном консоли.
func CreateCookie(w http.ResponseWriter, tokenString string) {
	cookie := http.Cookie{
		Name:    "JWT",
		Value:   tokenString,
		Expires: time.Now().Add(TokenExp),
		Path:    "/",
	}

	http.SetCookie(w, &cookie)
}

// DeleteCookie Сброс куки с JWT-токеном консоли (выход).
func DeleteCookie(w http.ResponseWriter) {
	cookie := http.Cookie{
		Name:    "JWT",
		Value:   "",
		Expires: time.Unix(0, 0),
		MaxAge:  -1,
		Path:    "/",
	}

	http.SetCookie(w, &cookie)
}
