package session

import "time"

// refreshTask Отменяемая отложенная задача обновления токена.
// Обёртка над time.Timer с запомненной задержкой: менеджеру нужно знать,
// на когда взведена задача, а тестам - проверять её наличие.
type refreshTask struct {
	timer *time.Timer
	delay time.Duration
}

// newRefreshTask Взводит задачу через delay. Задача передаёт себя в колбэк:
// владелец по идентичности указателя отличает срабатывание актуальной задачи
// от устаревшей, которую успели отменить и перевзвести.
func newRefreshTask(delay time.Duration, fn func(fired *refreshTask)) *refreshTask {
	task := &refreshTask{delay: delay}
	task.timer = time.AfterFunc(delay, func() { fn(task) })

	return task
}

// Cancel Отмена задачи. Возвращает false, если задача уже сработала или
// была отменена ранее.
func (t *refreshTask) Cancel() bool {
	if t == nil || t.timer == nil {
		return false
	}

	return t.timer.Stop()
}

// Delay Задержка, с которой была взведена задача.
func (t *refreshTask) Delay() time.Duration {
	return t.delay
}
