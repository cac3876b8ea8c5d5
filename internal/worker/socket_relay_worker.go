package worker

import (
	"context"

	"github.com/aista/magic-console/internal/broadcast"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/magic"
)

// SocketRelayWorker Перекачивает входящие сообщения моста сокетов бэкенда
// в SSE-поток фронтенда: имя канала сообщения становится именем топика.
// Завершается по контексту или при закрытии моста.
func SocketRelayWorker(ctx context.Context, bridge magic.SocketBridge, publisher broadcast.Broadcaster) {
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Завершение работы воркера SocketRelayWorker по контексту", logger.String("info", ctx.Err().Error()))
			return
		case msg, ok := <-bridge.Messages():
			if !ok {
				logger.Log.Info("Мост сокетов закрыт, SocketRelayWorker завершён")
				return
			}

			if err := publisher.Publish(msg.Channel, msg.Data); err != nil {
				logger.Log.Error("ошибка SocketRelayWorker",
					logger.String("channel", msg.Channel),
					logger.String("err", err.Error()))
			}
		}
	}
}
