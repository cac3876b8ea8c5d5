package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/aista/magic-console/internal/auth"
	authMocks "github.com/aista/magic-console/internal/auth/mocks"
	"github.com/aista/magic-console/internal/contextkeys"
	"github.com/aista/magic-console/internal/logger"
)

func init() {
	logger.InitLogger("error", "stdout")
}

const testSecretKey = "console-secret"

// TestLoginToContextMiddlewareSuccess Проверяет, что логин из куки консоли
// попадает в контекст запроса.
func TestLoginToContextMiddlewareSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTokenBuilder := authMocks.NewMockTokenBuilder(ctrl)
	mockTokenBuilder.EXPECT().
		GetClaims("valid-token", testSecretKey).
		Return(&auth.Claims{Login: "admin"}, nil)

	var gotLogin string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLogin, _ = r.Context().Value(contextkeys.Login).(string)
		w.WriteHeader(http.StatusOK)
	})

	handler := LoginToContextMiddleware(testSecretKey, mockTokenBuilder)(next)

	r := httptest.NewRequest(http.MethodGet, "/api/backends", nil)
	r.AddCookie(&http.Cookie{Name: "JWT", Value: "valid-token"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", gotLogin)
}

// TestLoginToContextMiddlewareRejects Проверяет отказ для запросов без
// валидной куки консоли: next-хендлер не вызывается, ответ 401.
func TestLoginToContextMiddlewareRejects(t *testing.T) {
	tests := []struct {
		name      string
		cookie    *http.Cookie
		setupMock func(m *authMocks.MockTokenBuilder)
	}{
		{
			name:   "кука отсутствует",
			cookie: nil,
			// GetClaims не вызывается вовсе
			setupMock: func(m *authMocks.MockTokenBuilder) {},
		},
		{
			name:   "невалидный токен",
			cookie: &http.Cookie{Name: "JWT", Value: "garbage"},
			setupMock: func(m *authMocks.MockTokenBuilder) {
				m.EXPECT().
					GetClaims("garbage", testSecretKey).
					Return(nil, errors.New("token is invalid"))
			},
		},
		{
			name:   "пустое значение куки",
			cookie: &http.Cookie{Name: "JWT", Value: ""},
			setupMock: func(m *authMocks.MockTokenBuilder) {
				m.EXPECT().
					GetClaims("", testSecretKey).
					Return(nil, errors.New("empty token"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockTokenBuilder := authMocks.NewMockTokenBuilder(ctrl)
			tt.setupMock(mockTokenBuilder)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})

			handler := LoginToContextMiddleware(testSecretKey, mockTokenBuilder)(next)

			r := httptest.NewRequest(http.MethodGet, "/api/backends", nil)
			if tt.cookie != nil {
				r.AddCookie(tt.cookie)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, r)

			assert.False(t, nextCalled)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "не аутентифицирован")
		})
	}
}

// TestLoginToContextMiddlewareOriginalContextUntouched Проверяет, что логин
// добавляется в производный контекст, а исходный остаётся без изменений.
func TestLoginToContextMiddlewareOriginalContextUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTokenBuilder := authMocks.NewMockTokenBuilder(ctrl)
	mockTokenBuilder.EXPECT().
		GetClaims("valid-token", testSecretKey).
		Return(&auth.Claims{Login: "admin"}, nil)

	var handlerCtx context.Context
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCtx = r.Context()
	})

	handler := LoginToContextMiddleware(testSecretKey, mockTokenBuilder)(next)

	r := httptest.NewRequest(http.MethodGet, "/api/console/session", nil)
	r.AddCookie(&http.Cookie{Name: "JWT", Value: "valid-token"})
	originalCtx := r.Context()

	handler.ServeHTTP(httptest.NewRecorder(), r)

	assert.NotEqual(t, originalCtx, handlerCtx)
	assert.Nil(t, originalCtx.Value(contextkeys.Login))
}
