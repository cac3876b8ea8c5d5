package magic

import (
	"context"
	"net/url"
	"strconv"
)

// CacheItem Один элемент серверного кэша.
type CacheItem struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// CacheService Вызовы просмотра и очистки серверного кэша бэкенда.
type CacheService struct {
	c            *Client
	systemPrefix string
}

// NewCacheService Конструктор CacheService.
func NewCacheService(c *Client, systemPrefix string) *CacheService {
	return &CacheService{
		c:            c,
		systemPrefix: systemPrefix,
	}
}

// List Постраничный список элементов кэша. filter - фильтр по префиксу ключа.
func (s *CacheService) List(ctx context.Context, filter string, offset, limit int) ([]CacheItem, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))
	if filter != "" {
		query.Set("filter", filter)
	}

	var items []CacheItem
	err := s.c.Get(ctx, s.systemPrefix+"/cache/list?"+query.Encode(), &items)

	return items, err
}

// Count Количество элементов кэша, подпадающих под фильтр.
func (s *CacheService) Count(ctx context.Context, filter string) (int64, error) {
	query := url.Values{}
	if filter != "" {
		query.Set("filter", filter)
	}

	var result struct {
		Count int64 `json:"count"`
	}

	path := s.systemPrefix + "/cache/count"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	err := s.c.Get(ctx, path, &result)

	return result.Count, err
}

// Delete Удаление одного элемента кэша по ключу.
func (s *CacheService) Delete(ctx context.Context, key string) error {
	query := url.Values{}
	query.Set("id", key)

	return s.c.Delete(ctx, s.systemPrefix+"/cache/delete?"+query.Encode(), nil)
}

// Clear Полная очистка кэша (по необязательному фильтру).
func (s *CacheService) Clear(ctx context.Context, filter string) error {
	query := url.Values{}
	if filter != "" {
		query.Set("filter", filter)
	}

	path := s.systemPrefix + "/cache/empty"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	return s.c.Delete(ctx, path, nil)
}
