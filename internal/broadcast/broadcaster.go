package broadcast

import (
	"context"
	"errors"
	"net/http"
)

//go:generate mockgen -destination=mocks/broadcast_mock.go -package=mocks . Broadcaster

var (
	ErrSubscribeNotSupported = errors.New("подписка не реализована в данном адаптере; используйте HTTPHandler()")
)

// TopicResolver Отображает входящий HTTP-запрос в имя топика.
// Ошибка означает, что подписка запрещена (нет аутентификации, неверный поток).
type TopicResolver func(r *http.Request) (string, error)

type Broadcaster interface {
	Subscribe(ctx context.Context, topic string) (<-chan []byte, func(), error)
	HTTPHandler() http.Handler
	Publish(topic string, data []byte) error
	Close() error
}
