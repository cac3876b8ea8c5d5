package worker

import (
	"context"
	"time"

	"github.com/aista/magic-console/internal/health_storage"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/models"
	"github.com/aista/magic-console/internal/netutils"
)

// BackendLister Источник списка бэкендов для воркера статусов.
type BackendLister interface {
	List() []models.Backend
}

// BackendStatusWorker Периодически проверяет сетевую доступность всех
// сконфигурированных бэкендов и складывает результат в in-memory хранилище
// статусов. Недоступный по TCP бэкенд помечается Unreachable; доступный
// сохраняет статус из последнего опроса самого бэкенда (или OK).
func BackendStatusWorker(ctx context.Context, backends BackendLister, checker netutils.Checker, statusCache health_storage.StatusCacheStorage, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		checkBackends(ctx, backends, checker, statusCache)

		select {
		case <-ctx.Done():
			logger.Log.Info("Завершение работы воркера BackendStatusWorker по контексту", logger.String("info", ctx.Err().Error()))
			return
		case <-ticker.C: // следующий цикл по таймеру
		}
	}
}

// Один цикл проверки всех бэкендов.
func checkBackends(ctx context.Context, backends BackendLister, checker netutils.Checker, statusCache health_storage.StatusCacheStorage) {
	for _, b := range backends.List() {
		host, port, err := netutils.SplitHostPort(b.URL)
		if err != nil {
			logger.Log.Warn("Не удалось разобрать URL бэкенда",
				logger.String("url", b.URL),
				logger.String("err", err.Error()))
			continue
		}

		if !checker.CheckTCP(ctx, host, port, 0) {
			statusCache.Set(models.BackendStatus{URL: b.URL, Status: models.StatusUnreachable, Version: b.Version})
			continue
		}

		status := models.Status(b.Status)
		if !status.IsValid() || status == models.StatusUnreachable || status == models.StatusUnknown {
			status = models.StatusOK
		}

		statusCache.Set(models.BackendStatus{URL: b.URL, Status: status, Version: b.Version})
	}
}
