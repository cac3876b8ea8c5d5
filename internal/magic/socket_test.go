package magic

import (
	"testing"
	"time"

	"github.com/r3labs/sse/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestSocket Собирает мост без живого SSE-соединения: события подаются
// в тесте напрямую, перекачка запускается вручную.
func newTestSocket(messageBuffer int) *SSESocket {
	return &SSESocket{
		events:   make(chan *sse.Event, 16),
		messages: make(chan Message, messageBuffer),
		done:     make(chan struct{}),
	}
}

// TestSocketPumpConvertsEvents Проверяет конвертацию SSE-событий во входящие
// сообщения: имя события становится каналом, пустые события пропускаются.
func TestSocketPumpConvertsEvents(t *testing.T) {
	s := newTestSocket(16)
	go s.pump()
	defer close(s.done)

	s.events <- nil
	s.events <- &sse.Event{Event: []byte("ide.log"), Data: nil}
	s.events <- &sse.Event{Event: []byte("ide.terminal.out.42"), Data: []byte(`{"result":"ok"}`)}

	select {
	case msg := <-s.messages:
		assert.Equal(t, "ide.terminal.out.42", msg.Channel)
		assert.JSONEq(t, `{"result":"ok"}`, string(msg.Data))
	case <-time.After(time.Second):
		t.Fatal("сообщение не дошло до потребителя")
	}
}

// TestSocketPumpStopsOnDone Проверяет, что перекачка завершается по закрытию
// моста даже с заполненным буфером сообщений и без потребителя: иначе
// горутина повисла бы на отправке навсегда.
func TestSocketPumpStopsOnDone(t *testing.T) {
	s := newTestSocket(1)

	stopped := make(chan struct{})
	go func() {
		s.pump()
		close(stopped)
	}()

	// первое событие занимает весь буфер, второе блокирует отправку
	s.events <- &sse.Event{Event: []byte("ide.log"), Data: []byte(`{"n":1}`)}
	s.events <- &sse.Event{Event: []byte("ide.log"), Data: []byte(`{"n":2}`)}

	close(s.done)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("перекачка не завершилась после закрытия моста")
	}
}

// TestSocketPumpStopsOnEventsClosed Проверяет завершение перекачки при
// закрытии потока событий: канал сообщений закрывается для потребителя.
func TestSocketPumpStopsOnEventsClosed(t *testing.T) {
	s := newTestSocket(16)
	go s.pump()

	close(s.events)

	select {
	case _, ok := <-s.messages:
		require.False(t, ok, "канал сообщений должен закрыться вслед за потоком событий")
	case <-time.After(time.Second):
		t.Fatal("канал сообщений не закрылся")
	}
}
