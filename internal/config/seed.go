package config

import (
	"strings"

	"github.com/aista/magic-console/internal/models"
)

// SeedBackends Разбор списка бэкендов для первичного заполнения хранилища.
// Формат DefaultBackends: `url|username|password,url|username|password`;
// логин и пароль необязательны. Некорректные элементы молча пропускаются -
// это удобство локальной разработки, а не пользовательский ввод.
func (c *Config) SeedBackends() []models.Backend {
	if c.DefaultBackends == "" {
		return nil
	}

	var backends []models.Backend

	for _, item := range strings.Split(c.DefaultBackends, ",") {
		parts := strings.Split(strings.TrimSpace(item), "|")

		url := models.NormalizeURL(parts[0])
		if url == "" {
			continue
		}

		backend := models.Backend{
			URL:    url,
			Status: models.StatusUnknown.String(),
		}

		if len(parts) > 1 {
			backend.Username = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			backend.Password = strings.TrimSpace(parts[2])
		}

		if err := backend.CreateValidation(); err != nil {
			continue
		}

		backends = append(backends, backend)
	}

	return backends
}
