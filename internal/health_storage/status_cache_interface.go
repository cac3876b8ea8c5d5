package health_storage

import "github.com/aista/magic-console/internal/models"

//go:generate mockgen -destination=mocks/status_cache_storage_mock.go -package=mocks . StatusCacheStorage

type StatusCacheStorage interface {
	Set(s models.BackendStatus)
	Get(url string) (models.BackendStatus, bool)
	Delete(url string)
	All() []models.BackendStatus
}
