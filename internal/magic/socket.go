package magic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/r3labs/sse/v2"

	"github.com/aista/magic-console/internal/logger"
)

//go:generate mockgen -destination=mocks/mock_socket_bridge.go -package=mocks . SocketBridge

// Message Входящее сообщение канала реального времени.
type Message struct {
	Channel string
	Data    []byte
}

// SocketBridge Узкий интерфейс моста реального времени к бэкенду:
// вызов удалённых процедур start/send/stop и поток входящих сообщений,
// ключованных именем канала. Конкретный протокол хаба - внешний коллаборатор.
type SocketBridge interface {
	Start(ctx context.Context, channel string, args map[string]any) error
	Send(ctx context.Context, channel string, payload map[string]any) error
	Stop(ctx context.Context, channel string) error
	Messages() <-chan Message
	Close() error
}

// SSESocket Мост реального времени поверх EventSource-потока бэкенда.
// Исходящие вызовы идут удалённой процедурой `execute` через обычный HTTP,
// входящие события приходят по SSE-соединению с <backend>/sockets.
type SSESocket struct {
	c         *Client
	sseClient *sse.Client
	events    chan *sse.Event
	messages  chan Message
	done      chan struct{}
}

// NewSSESocket Открывает мост к бэкенду. Поток аутентифицируется текущим
// токеном, переданным фабрикой tokenFn (токен может обновиться за время жизни
// соединения, поэтому именно фабрика, а не снимок значения).
func NewSSESocket(c *Client, baseURL string, tokenFn func() string) (*SSESocket, error) {
	sseClient := sse.NewClient(baseURL + "/sockets")
	sseClient.Headers["Authorization"] = "Bearer " + tokenFn()

	s := &SSESocket{
		c:         c,
		sseClient: sseClient,
		events:    make(chan *sse.Event, 16),
		messages:  make(chan Message, 16),
		done:      make(chan struct{}),
	}

	if err := sseClient.SubscribeChanRaw(s.events); err != nil {
		return nil, fmt.Errorf("ошибка подписки на поток сокетов: %w", err)
	}

	go s.pump()

	return s, nil
}

// Конвертация SSE-событий во входящие сообщения моста.
func (s *SSESocket) pump() {
	defer close(s.messages)

	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.events:
			if !ok {
				return
			}
			if event == nil || len(event.Data) == 0 {
				continue
			}

			// отправка тоже сторожится done: после Close потребителя уже
			// нет, и блокировка на заполненном буфере повисла бы навсегда
			select {
			case s.messages <- Message{Channel: string(event.Event), Data: event.Data}:
			case <-s.done:
				return
			}
		}
	}
}

// Вызов удалённой процедуры `execute` с целевым micro-path и
// JSON-кодированными аргументами.
func (s *SSESocket) execute(ctx context.Context, microPath string, args map[string]any) error {
	encoded, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("ошибка сериализации аргументов: %w", err)
	}

	body := map[string]string{
		"micro-path": microPath,
		"args":       string(encoded),
	}

	return s.c.Post(ctx, "/sockets/execute", body, nil)
}

// Start Запуск удалённой сессии на канале.
func (s *SSESocket) Start(ctx context.Context, channel string, args map[string]any) error {
	merged := map[string]any{"channel": channel}
	for k, v := range args {
		merged[k] = v
	}

	return s.execute(ctx, "start", merged)
}

// Send Отправка полезной нагрузки в канал.
func (s *SSESocket) Send(ctx context.Context, channel string, payload map[string]any) error {
	merged := map[string]any{"channel": channel}
	for k, v := range payload {
		merged[k] = v
	}

	return s.execute(ctx, "send", merged)
}

// Stop Остановка удалённой сессии на канале.
func (s *SSESocket) Stop(ctx context.Context, channel string) error {
	return s.execute(ctx, "stop", map[string]any{"channel": channel})
}

// Messages Поток входящих сообщений. Канал закрывается при Close.
func (s *SSESocket) Messages() <-chan Message {
	return s.messages
}

// Close Закрытие моста и SSE-соединения.
func (s *SSESocket) Close() error {
	select {
	case <-s.done:
		return nil
	default:
	}

	close(s.done)
	s.sseClient.Unsubscribe(s.events)
	logger.Log.Debug("Мост сокетов закрыт")

	return nil
}
