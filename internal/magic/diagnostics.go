package magic

import "context"

// DiagnosticsService Диагностические вызовы бэкенда: версия, статус,
// системная информация.
type DiagnosticsService struct {
	c            *Client
	systemPrefix string
}

// NewDiagnosticsService Конструктор DiagnosticsService.
func NewDiagnosticsService(c *Client, systemPrefix string) *DiagnosticsService {
	return &DiagnosticsService{
		c:            c,
		systemPrefix: systemPrefix,
	}
}

// Version Версия активного бэкенда.
func (s *DiagnosticsService) Version(ctx context.Context) (string, error) {
	var result struct {
		Version string `json:"version"`
	}

	err := s.c.Get(ctx, s.systemPrefix+"/version", &result)

	return result.Version, err
}

// SystemInformation Системная информация бэкенда (аптайм, нагрузка и т.п.).
func (s *DiagnosticsService) SystemInformation(ctx context.Context) (map[string]any, error) {
	var result map[string]any
	err := s.c.Get(ctx, s.systemPrefix+"/diagnostics/system-information", &result)

	return result, err
}

// Assumptions Список тестов-предположений (assumptions) бэкенда.
func (s *DiagnosticsService) Assumptions(ctx context.Context) ([]string, error) {
	var result []string
	err := s.c.Get(ctx, s.systemPrefix+"/diagnostics/assumptions", &result)

	return result, err
}

// ExecuteAssumption Выполнение одного теста-предположения.
func (s *DiagnosticsService) ExecuteAssumption(ctx context.Context, root string) (bool, error) {
	var result struct {
		Result string `json:"result"`
	}

	err := s.c.Get(ctx, s.systemPrefix+"/diagnostics/execute-test?root-test-file="+root, &result)

	return result.Result == "success", err
}
