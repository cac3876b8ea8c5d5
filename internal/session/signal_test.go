package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSignalPublishAndSubscribe Проверяет доставку опубликованного значения подписчику.
func TestSignalPublishAndSubscribe(t *testing.T) {
	s := NewSignal[int]()

	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	s.Publish(42)

	select {
	case v := <-ch:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("значение не было доставлено подписчику")
	}
}

// TestSignalReplayToLateSubscriber Проверяет повтор последнего значения позднему
// подписчику: подписка после публикации сразу возвращает текущее состояние.
func TestSignalReplayToLateSubscriber(t *testing.T) {
	s := NewSignal[string]()

	s.Publish("первое")
	s.Publish("второе")

	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	select {
	case v := <-ch:
		assert.Equal(t, "второе", v, "поздний подписчик должен получить последнее значение")
	case <-time.After(time.Second):
		t.Fatal("повтор последнего значения не выполнен")
	}
}

// TestSignalLatest Проверяет чтение последнего опубликованного значения.
func TestSignalLatest(t *testing.T) {
	s := NewSignal[bool]()

	// до первой публикации значения нет
	_, has := s.Latest()
	assert.False(t, has)

	s.Publish(true)
	s.Publish(false)

	v, has := s.Latest()
	assert.True(t, has)
	assert.False(t, v)
}

// TestSignalUnsubscribe Проверяет отписку: канал закрывается, повторная отписка безопасна.
func TestSignalUnsubscribe(t *testing.T) {
	s := NewSignal[int]()

	ch, unsubscribe := s.Subscribe()

	unsubscribe()

	_, open := <-ch
	assert.False(t, open, "канал должен быть закрыт после отписки")

	assert.NotPanics(t, func() {
		unsubscribe()
	})
}

// TestSignalSlowSubscriberDoesNotBlock Проверяет, что медленный подписчик
// не блокирует публикацию: промежуточные значения теряются, последнее доступно.
func TestSignalSlowSubscriberDoesNotBlock(t *testing.T) {
	s := NewSignal[int]()

	_, unsubscribe := s.Subscribe()
	defer unsubscribe()

	// публикуем больше значений, чем вмещает буфер канала подписчика
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			s.Publish(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("публикация заблокировалась на медленном подписчике")
	}

	v, has := s.Latest()
	require.True(t, has)
	assert.Equal(t, 99, v)
}

// TestSignalMultipleSubscribers Проверяет доставку значения всем подписчикам.
func TestSignalMultipleSubscribers(t *testing.T) {
	s := NewSignal[string]()

	ch1, unsub1 := s.Subscribe()
	defer unsub1()
	ch2, unsub2 := s.Subscribe()
	defer unsub2()

	s.Publish("всем")

	for _, ch := range []<-chan string{ch1, ch2} {
		select {
		case v := <-ch:
			assert.Equal(t, "всем", v)
		case <-time.After(time.Second):
			t.Fatal("значение не доставлено одному из подписчиков")
		}
	}
}
