package magic

import "context"

// ConfigService Вызовы чтения и сохранения конфигурации бэкенда.
type ConfigService struct {
	c            *Client
	systemPrefix string
}

// NewConfigService Конструктор ConfigService.
func NewConfigService(c *Client, systemPrefix string) *ConfigService {
	return &ConfigService{
		c:            c,
		systemPrefix: systemPrefix,
	}
}

// Load Текущая конфигурация бэкенда (доступна только роли root).
func (s *ConfigService) Load(ctx context.Context) (map[string]any, error) {
	var result map[string]any
	err := s.c.Get(ctx, s.systemPrefix+"/config/load", &result)

	return result, err
}

// Save Сохранение конфигурации бэкенда целиком.
func (s *ConfigService) Save(ctx context.Context, config map[string]any) error {
	return s.c.Post(ctx, s.systemPrefix+"/config/save", config, nil)
}

// SetupStatus Статус первичной настройки бэкенда.
func (s *ConfigService) SetupStatus(ctx context.Context) (map[string]any, error) {
	var result map[string]any
	err := s.c.Get(ctx, s.systemPrefix+"/config/status", &result)

	return result, err
}
