package authz

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authzMocks "github.com/aista/magic-console/internal/authz/mocks"
	"github.com/aista/magic-console/internal/models"
	"github.com/aista/magic-console/internal/token"
)

// makeToken Создаёт декодированный токен с заданным сроком действия и ролями.
func makeToken(t *testing.T, expiresAt time.Time, roles ...string) *token.Token {
	t.Helper()

	claims := jwt.MapClaims{"exp": expiresAt.Unix()}
	if len(roles) > 0 {
		claims["role"] = roles
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)

	decoded, err := token.Decode(raw)
	require.NoError(t, err)

	return decoded
}

// TestAuthorizerIsAuthenticated Проверяет определение аутентифицированности.
func TestAuthorizerIsAuthenticated(t *testing.T) {
	tests := []struct {
		name  string
		token func(t *testing.T) *token.Token
		want  bool
	}{
		{
			name:  "действующий токен",
			token: func(t *testing.T) *token.Token { return makeToken(t, time.Now().Add(time.Hour), "user") },
			want:  true,
		},
		{
			name:  "токена нет",
			token: func(t *testing.T) *token.Token { return nil },
			want:  false,
		},
		{
			name:  "токен истёк",
			token: func(t *testing.T) *token.Token { return makeToken(t, time.Now().Add(-time.Minute), "user") },
			want:  false,
		},
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSession := authzMocks.NewMockSessionState(ctrl)
			mockSession.EXPECT().ActiveToken().Return(tt.token(t))

			a := NewAuthorizer(mockSession, testSystemPrefix)
			assert.Equal(t, tt.want, a.IsAuthenticated())
		})
	}
}

// TestAuthorizerExpiredToken Проверяет, что истёкший токен эквивалентен
// отсутствию токена для всех запросов авторизации.
func TestAuthorizerExpiredToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSession := authzMocks.NewMockSessionState(ctrl)
	mockSession.EXPECT().ActiveToken().Return(makeToken(t, time.Now().Add(-time.Minute), "root")).AnyTimes()
	mockSession.EXPECT().ActiveEndpoints().Return([]models.Endpoint{
		{Path: "/magic/system/log/list", Verb: "get", Auth: []string{"root"}},
	}).AnyTimes()

	a := NewAuthorizer(mockSession, testSystemPrefix)

	assert.False(t, a.IsAuthenticated())
	assert.False(t, a.IsRoot())
	assert.False(t, a.HasRole("root"))
	assert.False(t, a.CanInvoke("get", "/magic/system/log/list"))
	assert.Equal(t, AccessRights{}, a.AccessRights())
}

// TestAuthorizerIsRoot Проверяет определение роли root.
func TestAuthorizerIsRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSession := authzMocks.NewMockSessionState(ctrl)

	gomock.InOrder(
		mockSession.EXPECT().ActiveToken().Return(makeToken(t, time.Now().Add(time.Hour), "root")),
		mockSession.EXPECT().ActiveToken().Return(makeToken(t, time.Now().Add(time.Hour), "guest")),
	)

	a := NewAuthorizer(mockSession, testSystemPrefix)

	assert.True(t, a.IsRoot())
	assert.False(t, a.IsRoot())
}

// TestAuthorizerCanInvoke Проверяет делегирование проверки вызова эндпоинта.
func TestAuthorizerCanInvoke(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSession := authzMocks.NewMockSessionState(ctrl)
	mockSession.EXPECT().ActiveToken().Return(makeToken(t, time.Now().Add(time.Hour), "admin")).AnyTimes()
	mockSession.EXPECT().ActiveEndpoints().Return([]models.Endpoint{
		{Path: "/magic/system/auth/users", Verb: "get", Auth: []string{"admin"}},
	}).AnyTimes()

	a := NewAuthorizer(mockSession, testSystemPrefix)

	assert.True(t, a.CanInvoke("get", "/magic/system/auth/users"))
	assert.False(t, a.CanInvoke("post", "/magic/system/auth/users"))
}

// TestAuthorizerAccessRightsFailClosed Проверяет нулевые права при пустых
// метаданных эндпоинтов: неудачный запрос метаданных деградирует к отказу.
func TestAuthorizerAccessRightsFailClosed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSession := authzMocks.NewMockSessionState(ctrl)
	mockSession.EXPECT().ActiveToken().Return(makeToken(t, time.Now().Add(time.Hour), "root")).AnyTimes()
	mockSession.EXPECT().ActiveEndpoints().Return([]models.Endpoint{}).AnyTimes()

	a := NewAuthorizer(mockSession, testSystemPrefix)

	assert.True(t, a.IsAuthenticated(), "аутентификация не зависит от метаданных")
	assert.Equal(t, AccessRights{}, a.AccessRights(), "без метаданных все права должны быть нулевыми")
}
