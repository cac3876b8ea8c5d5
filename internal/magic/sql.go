package magic

import (
	"context"
	"net/url"
)

// SqlService Вызовы SQL-вычислителя бэкенда. Состояния не имеет:
// каждый метод - ровно один HTTP-вызов.
type SqlService struct {
	c            *Client
	systemPrefix string
}

// NewSqlService Конструктор SqlService.
func NewSqlService(c *Client, systemPrefix string) *SqlService {
	return &SqlService{
		c:            c,
		systemPrefix: systemPrefix,
	}
}

// ConnectionStrings Список строк подключения, настроенных на бэкенде,
// для указанного типа БД (mysql, pgsql, mssql...).
func (s *SqlService) ConnectionStrings(ctx context.Context, databaseType string) (map[string]string, error) {
	query := url.Values{}
	query.Set("databaseType", databaseType)

	var result map[string]string
	err := s.c.Get(ctx, s.systemPrefix+"/sql/connection-strings?"+query.Encode(), &result)

	return result, err
}

// Databases Список баз данных, доступных через строку подключения.
func (s *SqlService) Databases(ctx context.Context, databaseType, connectionString string) (map[string]any, error) {
	query := url.Values{}
	query.Set("databaseType", databaseType)
	query.Set("connectionString", connectionString)

	var result map[string]any
	err := s.c.Get(ctx, s.systemPrefix+"/sql/databases?"+query.Encode(), &result)

	return result, err
}

// EvaluateRequest Параметры выполнения SQL.
type EvaluateRequest struct {
	DatabaseType     string `json:"databaseType"`
	Database         string `json:"database"`
	ConnectionString string `json:"connectionString,omitempty"`
	Sql              string `json:"sql"`
	SafeMode         bool   `json:"safeMode"`
	Batch            bool   `json:"batch"`
}

// Evaluate Выполнение SQL на бэкенде. Результат - срез строк результата
// (каждая строка - отображение колонка -> значение).
func (s *SqlService) Evaluate(ctx context.Context, request EvaluateRequest) ([]map[string]any, error) {
	var result []map[string]any
	err := s.c.Post(ctx, s.systemPrefix+"/sql/evaluate", request, &result)

	return result, err
}
