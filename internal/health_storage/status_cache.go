package health_storage

import (
	"sort"
	"sync"

	"github.com/aista/magic-console/internal/models"
)

// StatusCache Структура для хранения сетевых статусов бэкендов.
type StatusCache struct {
	mu    sync.RWMutex
	cache map[string]models.BackendStatus
}

// NewStatusCache Конструктор StatusCache.
func NewStatusCache() *StatusCache {
	cache := make(map[string]models.BackendStatus)

	return &StatusCache{
		cache: cache,
	}
}

// Set Метод для сохранения статуса бэкенда в in-memory хранилище.
func (sc *StatusCache) Set(s models.BackendStatus) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	old, ok := sc.cache[s.URL]
	if ok && old.Status == s.Status && old.Version == s.Version {
		return
	}

	sc.cache[s.URL] = s
}

// Get Метод для извлечения статуса бэкенда из in-memory хранилища.
func (sc *StatusCache) Get(url string) (models.BackendStatus, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	v, ok := sc.cache[url]

	return v, ok
}

// Delete Метод для удаления статуса бэкенда из in-memory хранилища.
func (sc *StatusCache) Delete(url string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	delete(sc.cache, url)
}

// All Получение статусов всех бэкендов. Порядок стабильный (по URL),
// чтобы публикуемые снимки не "прыгали" между циклами.
func (sc *StatusCache) All() []models.BackendStatus {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	res := make([]models.BackendStatus, 0, len(sc.cache))

	for _, s := range sc.cache {
		res = append(res, s)
	}

	sort.Slice(res, func(i, j int) bool {
		return res[i].URL < res[j].URL
	})

	return res
}
