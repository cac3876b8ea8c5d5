package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aista/magic-console/internal/broadcast"
	"github.com/aista/magic-console/internal/health_storage"
	"github.com/aista/magic-console/internal/logger"
)

// StatusTopic Имя топика, в который публикуются сетевые статусы бэкендов.
const StatusTopic = "status"

// StatusBroadcastWorker Периодически "дергает" in-memory хранилище статусов
// бэкендов и публикует снимок через Publisher.
func StatusBroadcastWorker(ctx context.Context, statusCache health_storage.StatusCacheStorage, publisher broadcast.Broadcaster, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := publishBackendStatuses(statusCache, publisher); err != nil {
			logger.Log.Error("ошибка StatusBroadcastWorker",
				logger.String("err", err.Error()))
		}

		select {
		case <-ctx.Done():
			logger.Log.Info("Завершение работы воркера StatusBroadcastWorker по контексту", logger.String("info", ctx.Err().Error()))
			return
		case <-ticker.C: // следующий цикл по таймеру
		}
	}
}

// Получает текущие статусы всех бэкендов из in-memory хранилища и публикует их через Publisher.
func publishBackendStatuses(statusCache health_storage.StatusCacheStorage, publisher broadcast.Broadcaster) error {
	statuses := statusCache.All()

	b, err := json.Marshal(statuses)
	if err != nil {
		return err
	}

	return publisher.Publish(StatusTopic, b)
}
