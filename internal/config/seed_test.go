package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aista/magic-console/internal/models"
)

// TestSeedBackends Проверяет разбор списка бэкендов для первичного заполнения.
func TestSeedBackends(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []models.Backend
	}{
		{
			name: "полный формат url|username|password",
			raw:  "http://localhost:5000|admin|secret",
			expected: []models.Backend{
				{URL: "http://localhost:5000", Username: "admin", Password: "secret", Status: models.StatusUnknown.String()},
			},
		},
		{
			name: "несколько бэкендов",
			raw:  "http://localhost:5000|admin|secret,https://api.example.com",
			expected: []models.Backend{
				{URL: "http://localhost:5000", Username: "admin", Password: "secret", Status: models.StatusUnknown.String()},
				{URL: "https://api.example.com", Status: models.StatusUnknown.String()},
			},
		},
		{
			name: "только URL без учётных данных",
			raw:  "http://localhost:5000",
			expected: []models.Backend{
				{URL: "http://localhost:5000", Status: models.StatusUnknown.String()},
			},
		},
		{
			name: "URL и логин без пароля",
			raw:  "http://localhost:5000|admin",
			expected: []models.Backend{
				{URL: "http://localhost:5000", Username: "admin", Status: models.StatusUnknown.String()},
			},
		},
		{
			name: "пробелы и завершающие слэши нормализуются",
			raw:  " http://localhost:5000/// | admin | secret ",
			expected: []models.Backend{
				{URL: "http://localhost:5000", Username: "admin", Password: "secret", Status: models.StatusUnknown.String()},
			},
		},
		{
			name: "некорректные элементы молча пропускаются",
			raw:  "not-a-url,ftp://host:21,http://localhost:5000",
			expected: []models.Backend{
				{URL: "http://localhost:5000", Status: models.StatusUnknown.String()},
			},
		},
		{
			name:     "пустая строка",
			raw:      "",
			expected: nil,
		},
		{
			name:     "только разделители",
			raw:      ",,,",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DefaultBackends: tt.raw}

			backends := cfg.SeedBackends()

			require.Len(t, backends, len(tt.expected))
			assert.Equal(t, tt.expected, backends)
		})
	}
}
