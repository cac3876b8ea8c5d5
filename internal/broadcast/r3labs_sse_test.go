package broadcast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aista/magic-console/internal/logger"
)

func init() {
	logger.InitLogger("error", "stdout")
}

// TestNewR3labsSSEAdapter Проверяет создание нового экземпляра адаптера.
func TestNewR3labsSSEAdapter(t *testing.T) {
	resolver := func(r *http.Request) (string, error) { return "status", nil }

	adapter := NewR3labsSSEAdapter(resolver)

	require.NotNil(t, adapter, "адаптер не должен быть nil")
	assert.NotNil(t, adapter.srv, "внутренний sse.Server не должен быть nil")
	assert.NotNil(t, adapter.resolve, "резольвер не должен быть nil")
	assert.NotNil(t, adapter.streams, "карта потоков не должна быть nil")
}

// TestBroadcasterInterface Проверяет, что адаптер реализует интерфейс Broadcaster.
func TestBroadcasterInterface(t *testing.T) {
	resolver := func(r *http.Request) (string, error) { return "status", nil }

	var _ Broadcaster = NewR3labsSSEAdapter(resolver)
	var _ Broadcaster = NewNoopAdapter(resolver)
}

// TestPublish Проверяет публикацию событий в топики.
func TestPublish(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		data  []byte
	}{
		{
			name:  "успешная публикация",
			topic: "status",
			data:  []byte(`[{"url":"http://localhost:5000","status":"OK"}]`),
		},
		{
			name:  "публикация снимка сессии",
			topic: "session",
			data:  []byte(`{"authenticated":false}`),
		},
		{
			name:  "публикация в терминальный топик",
			topic: "terminal-42",
			data:  []byte("ls -la"),
		},
		{
			name:  "публикация с пустыми данными",
			topic: "status",
			data:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := NewR3labsSSEAdapter(nil)
			defer adapter.Close()

			err := adapter.Publish(tt.topic, tt.data)

			assert.NoError(t, err)
			assert.Contains(t, adapter.streams, tt.topic, "поток должен быть создан лениво")
		})
	}
}

// TestPublishCreatesStreamOnce Проверяет, что повторная публикация не создаёт
// поток заново.
func TestPublishCreatesStreamOnce(t *testing.T) {
	adapter := NewR3labsSSEAdapter(nil)
	defer adapter.Close()

	require.NoError(t, adapter.Publish("status", []byte("1")))
	require.NoError(t, adapter.Publish("status", []byte("2")))

	assert.Len(t, adapter.streams, 1)
}

// TestSubscribeNotSupported Проверяет, что подписка через Go-канал не
// поддерживается этим адаптером.
func TestSubscribeNotSupported(t *testing.T) {
	adapter := NewR3labsSSEAdapter(nil)
	defer adapter.Close()

	ch, cancel, err := adapter.Subscribe(context.Background(), "status")

	assert.ErrorIs(t, err, ErrSubscribeNotSupported)
	assert.Nil(t, ch)
	assert.Nil(t, cancel)
}

// TestHTTPHandlerRejectsUnresolved Проверяет отказ в подписке, когда резольвер
// возвращает ошибку: до sse.Server запрос не доходит.
func TestHTTPHandlerRejectsUnresolved(t *testing.T) {
	resolver := func(r *http.Request) (string, error) {
		return "", errors.New("нет куки консоли")
	}

	adapter := NewR3labsSSEAdapter(resolver)
	defer adapter.Close()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/events?stream=status", nil)

	adapter.HTTPHandler().ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, adapter.streams, "поток не должен создаваться для отклонённого запроса")
}

// TestHTTPHandlerRewritesStream Проверяет, что имя потока определяет резольвер,
// а не клиентский query-параметр.
func TestHTTPHandlerRewritesStream(t *testing.T) {
	resolver := func(r *http.Request) (string, error) {
		return "status", nil
	}

	adapter := NewR3labsSSEAdapter(resolver)
	defer adapter.Close()

	srv := httptest.NewServer(adapter.HTTPHandler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// клиент пытается подписаться на чужой поток
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events?stream=hacked", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	adapter.mu.Lock()
	defer adapter.mu.Unlock()
	assert.Contains(t, adapter.streams, "status", "подписка должна идти в поток, выбранный резольвером")
	assert.NotContains(t, adapter.streams, "hacked")
}
