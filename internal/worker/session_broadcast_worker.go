package worker

import (
	"context"
	"encoding/json"

	"github.com/aista/magic-console/internal/authz"
	"github.com/aista/magic-console/internal/broadcast"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/session"
)

// SessionTopic Имя топика, в который публикуется состояние сессии
// активного бэкенда.
const SessionTopic = "session"

// sessionSnapshot Снимок состояния сессии для фронтенда.
type sessionSnapshot struct {
	Authenticated bool               `json:"authenticated"`
	ActiveURL     string             `json:"activeUrl"`
	AccessRights  authz.AccessRights `json:"accessRights"`
}

// SessionBroadcastWorker Подписывается на сигналы менеджера сессий и после
// каждого изменения (вход/выход, смена активного бэкенда, обновление
// метаданных эндпоинтов) публикует во фронтенд свежий снимок состояния.
func SessionBroadcastWorker(ctx context.Context, sess *session.Manager, authorizer *authz.Authorizer, publisher broadcast.Broadcaster) {
	authCh, unsubAuth := sess.AuthChanged.Subscribe()
	defer unsubAuth()

	activeCh, unsubActive := sess.ActiveChanged.Subscribe()
	defer unsubActive()

	endpointsCh, unsubEndpoints := sess.EndpointsFetched.Subscribe()
	defer unsubEndpoints()

	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Завершение работы воркера SessionBroadcastWorker по контексту", logger.String("info", ctx.Err().Error()))
			return
		case <-authCh:
		case <-activeCh:
		case <-endpointsCh:
		}

		if err := publishSessionSnapshot(sess, authorizer, publisher); err != nil {
			logger.Log.Error("ошибка SessionBroadcastWorker",
				logger.String("err", err.Error()))
		}
	}
}

// Сборка и публикация снимка состояния сессии.
func publishSessionSnapshot(sess *session.Manager, authorizer *authz.Authorizer, publisher broadcast.Broadcaster) error {
	activeURL := ""
	if url, _, ok := sess.Active(); ok {
		activeURL = url
	}

	snapshot := sessionSnapshot{
		Authenticated: authorizer.IsAuthenticated(),
		ActiveURL:     activeURL,
		AccessRights:  authorizer.AccessRights(),
	}

	b, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	return publisher.Publish(SessionTopic, b)
}
