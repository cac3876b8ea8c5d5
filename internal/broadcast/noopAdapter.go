package broadcast

import (
	"context"
	"net/http"
)

// NoopAdapter Пустая реализация Broadcaster для запуска консоли без
// web-интерфейса: события статусов и сессий просто отбрасываются.
// Резольвер принимается только ради одинаковой сигнатуры конструкторов.
type NoopAdapter struct {
	resolve TopicResolver
}

// NewNoopAdapter Создаёт отбрасывающий адаптер.
func NewNoopAdapter(resolve TopicResolver) *NoopAdapter {
	return &NoopAdapter{resolve: resolve}
}

// Publish Отбрасывает событие без ошибки.
func (n *NoopAdapter) Publish(topic string, data []byte) error {
	return nil
}

// Close Нечего закрывать.
func (n *NoopAdapter) Close() error {
	return nil
}

// Subscribe Возвращает nil-канал и пустую отписку.
func (n *NoopAdapter) Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error) {
	return nil, func() {}, nil
}

// HTTPHandler Отвечает 404: поток событий в этом режиме не поднимается,
// и клиент сразу видит, что подключаться некуда.
func (n *NoopAdapter) HTTPHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
}
