package broadcast

import (
	"context"
	"net/http"
	"sync"

	"github.com/r3labs/sse/v2"

	"github.com/aista/magic-console/internal/logger"
)

// R3labsSSEAdapter — адаптер для библиотеки r3labs/sse.
// Обёртка предоставляет Publisher (Publish/Close) и http.Handler для монтирования.
// Резольвер превращает входящий запрос в имя топика и одновременно служит
// барьером аутентификации для подписок.
type R3labsSSEAdapter struct {
	srv     *sse.Server
	resolve TopicResolver

	mu      sync.Mutex
	streams map[string]struct{}
}

// NewR3labsSSEAdapter создаёт новый экземпляр адаптера (и internal sse.Server).
func NewR3labsSSEAdapter(resolve TopicResolver) *R3labsSSEAdapter {
	srv := sse.New()
	srv.AutoReplay = false

	return &R3labsSSEAdapter{
		srv:     srv,
		resolve: resolve,
		streams: make(map[string]struct{}),
	}
}

// Поток создаётся лениво при первой публикации или подписке.
func (a *R3labsSSEAdapter) ensureStream(topic string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.streams[topic]; ok {
		return
	}

	a.srv.CreateStream(topic)
	a.streams[topic] = struct{}{}
}

// Publish реализует интерфейс Publisher.
// Публикует событие в указанный топик (stream). Данные передаются в поле Event.Data.
func (a *R3labsSSEAdapter) Publish(topic string, data []byte) error {
	a.ensureStream(topic)
	a.srv.Publish(topic, &sse.Event{Data: data})

	return nil
}

// Close Закрывает все EventSource соединения.
func (a *R3labsSSEAdapter) Close() error {
	a.srv.Close()

	return nil
}

// Subscribe r3labs реализует подписки по HTTP, а не через Go-каналы.
// Поэтому вызов Subscribe на этом адаптере не поддерживается и возвращает ErrSubscribeNotSupported.
// Используй HTTPHandler() для обслуживания подключений EventSource.
func (a *R3labsSSEAdapter) Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error) {
	return nil, nil, ErrSubscribeNotSupported
}

// HTTPHandler возвращает http.Handler, который можно примонтировать в маршруты (например, на /events/).
// Имя потока определяется резольвером, а не клиентом напрямую: запрос без
// валидной куки консоли до sse.Server не доходит.
func (a *R3labsSSEAdapter) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		topic, err := a.resolve(r)
		if err != nil {
			logger.Log.Warn("Отказ в подписке на события", logger.String("err", err.Error()))
			http.Error(w, "подписка запрещена", http.StatusUnauthorized)
			return
		}

		a.ensureStream(topic)

		// r3labs ожидает имя потока в query-параметре stream
		q := r.URL.Query()
		q.Set("stream", topic)
		r.URL.RawQuery = q.Encode()

		a.srv.ServeHTTP(w, r)
	})
}
