package session

import "sync"

// Signal Сигнал "по уровню": хранит последнее опубликованное значение и
// повторяет его каждому новому подписчику, чтобы поздний подписчик сразу
// увидел текущее состояние, а не ждал следующего события.
type Signal[T any] struct {
	mu     sync.Mutex
	has    bool
	last   T
	subs   map[int]chan T
	nextID int
}

// NewSignal Конструктор сигнала.
func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{
		subs: make(map[int]chan T),
	}
}

// Publish Публикация нового значения всем подписчикам.
// Отправка неблокирующая: медленный подписчик теряет промежуточные значения,
// но последнее всегда доступно через Latest и повтор при подписке.
func (s *Signal[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.has = true
	s.last = v

	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
		}
	}
}

// Subscribe Подписка на сигнал. Если значение уже публиковалось - оно сразу
// кладётся в канал. Возвращает канал и функцию отписки.
func (s *Signal[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan T, 8)

	if s.has {
		ch <- s.last
	}

	id := s.nextID
	s.nextID++
	s.subs[id] = ch

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}

	return ch, unsubscribe
}

// Latest Последнее опубликованное значение.
func (s *Signal[T]) Latest() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.last, s.has
}
