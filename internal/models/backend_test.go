package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNormalizeURL Проверяет нормализацию URL бэкенда.
func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "пробелы и завершающие слэши",
			raw:  " http://host:5000/// ",
			want: "http://host:5000",
		},
		{
			name: "уже нормализованный URL",
			raw:  "https://api.example.com",
			want: "https://api.example.com",
		},
		{
			name: "один завершающий слэш",
			raw:  "http://host:5000/",
			want: "http://host:5000",
		},
		{
			name: "пустая строка",
			raw:  "",
			want: "",
		},
		{
			name: "только пробелы",
			raw:  "   ",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.raw))
		})
	}
}

// TestBackendCreateValidation Проверяет валидацию данных бэкенда.
func TestBackendCreateValidation(t *testing.T) {
	tests := []struct {
		name    string
		backend Backend
		wantErr bool
	}{
		{
			name:    "валидный http URL",
			backend: Backend{URL: "http://localhost:5000"},
		},
		{
			name:    "валидный https URL",
			backend: Backend{URL: "https://api.example.com"},
		},
		{
			name:    "пустой URL",
			backend: Backend{},
			wantErr: true,
		},
		{
			name:    "URL без схемы",
			backend: Backend{URL: "localhost:5000"},
			wantErr: true,
		},
		{
			name:    "неподдерживаемая схема",
			backend: Backend{URL: "ftp://host:5000"},
			wantErr: true,
		},
		{
			name:    "URL без хоста",
			backend: Backend{URL: "http://"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.backend.CreateValidation()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestBackendHasToken Проверяет определение наличия токена.
func TestBackendHasToken(t *testing.T) {
	assert.False(t, Backend{}.HasToken())
	assert.True(t, Backend{Token: "raw-token"}.HasToken())
}

// TestEndpointIsPublic Проверяет определение публичного эндпоинта.
func TestEndpointIsPublic(t *testing.T) {
	assert.True(t, Endpoint{Auth: nil}.IsPublic())
	assert.True(t, Endpoint{Auth: []string{}}.IsPublic())
	assert.False(t, Endpoint{Auth: []string{"root"}}.IsPublic())
}

// TestEndpointAnyAuthenticated Проверяет определение эндпоинта для любого
// аутентифицированного пользователя.
func TestEndpointAnyAuthenticated(t *testing.T) {
	assert.True(t, Endpoint{Auth: []string{"*"}}.AnyAuthenticated())
	assert.False(t, Endpoint{Auth: []string{"*", "root"}}.AnyAuthenticated())
	assert.False(t, Endpoint{Auth: []string{"root"}}.AnyAuthenticated())
	assert.False(t, Endpoint{}.AnyAuthenticated())
}

// TestStatusIsValid Проверяет валидацию статуса.
func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusOK, StatusDegraded, StatusUnreachable, StatusUnknown} {
		assert.True(t, s.IsValid())
	}

	assert.False(t, Status("Running").IsValid())
	assert.False(t, Status("").IsValid())
}
