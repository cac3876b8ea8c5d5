package magic

import (
	"context"
	"net/url"
	"strconv"
)

// LogItem Одна запись серверного лога.
type LogItem struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Exception string `json:"exception,omitempty"`
	Created   string `json:"created"`
}

// LogService Вызовы просмотра серверного лога бэкенда.
type LogService struct {
	c            *Client
	systemPrefix string
}

// NewLogService Конструктор LogService.
func NewLogService(c *Client, systemPrefix string) *LogService {
	return &LogService{
		c:            c,
		systemPrefix: systemPrefix,
	}
}

// List Постраничный список записей лога, от новых к старым.
// fromID - отдать записи старше указанного id (для бесконечной прокрутки).
func (s *LogService) List(ctx context.Context, filter string, fromID int64, limit int) ([]LogItem, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	if filter != "" {
		query.Set("filter", filter)
	}
	if fromID > 0 {
		query.Set("from", strconv.FormatInt(fromID, 10))
	}

	var items []LogItem
	err := s.c.Get(ctx, s.systemPrefix+"/log/list?"+query.Encode(), &items)

	return items, err
}

// Count Количество записей лога, подпадающих под фильтр.
func (s *LogService) Count(ctx context.Context, filter string) (int64, error) {
	query := url.Values{}
	if filter != "" {
		query.Set("filter", filter)
	}

	var result struct {
		Count int64 `json:"count"`
	}

	path := s.systemPrefix + "/log/count"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	err := s.c.Get(ctx, path, &result)

	return result.Count, err
}

// Statistics Статистика записей лога по типам за период.
func (s *LogService) Statistics(ctx context.Context, days int) (map[string]int64, error) {
	query := url.Values{}
	query.Set("days", strconv.Itoa(days))

	var result map[string]int64
	err := s.c.Get(ctx, s.systemPrefix+"/log/statistics?"+query.Encode(), &result)

	return result, err
}
