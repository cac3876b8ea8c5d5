package middleware

import (
	"context"
	"net/http"

	"github.com/aista/magic-console/internal/api/response"
	"github.com/aista/magic-console/internal/auth"
	"github.com/aista/magic-console/internal/contextkeys"
	"github.com/aista/magic-console/internal/logger"
)

// LoginToContextMiddleware Middleware, который извлекает логин пользователя консоли
// из JWT-токена, проверяет его и добавляет логин в контекст запроса.
// Это позволяет в дальнейшем получить логин из контекста (request.Context) в других обработчиках.
func LoginToContextMiddleware(JWTSecretKey string, tokenBuilder auth.TokenBuilder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenCookie, err := r.Cookie("JWT")
			if err != nil {
				// если cookie не найдена — считаем, что пользователь не аутентифицирован
				logger.Log.Error("Пользователь не аутентифицирован", logger.String("err", err.Error()))
				response.ErrorJSON(w, http.StatusUnauthorized, "Пользователь не аутентифицирован")
				return
			}

			// берем только саму строку токена, без префикса `JWT=`
			tokenString := tokenCookie.Value

			claims, err := tokenBuilder.GetClaims(tokenString, JWTSecretKey)
			if err != nil {
				logger.Log.Error("Ошибка идентификации пользователя", logger.String("err", err.Error()))
				response.ErrorJSON(w, http.StatusUnauthorized, "Пользователь не аутентифицирован")
				return
			}

			// добавляем login в контекст запроса под ключом `contextkeys.Login`
			ctx := context.WithValue(r.Context(), contextkeys.Login, claims.Login)
			r = r.WithContext(ctx)

			// передаём управление следующему обработчику, уже с модифицированным запросом
			next.ServeHTTP(w, r)
		})
	}
}
