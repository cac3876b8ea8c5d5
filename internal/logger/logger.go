package logger

// Field Пара ключ-значение структурированной записи лога.
type Field struct {
	Key   string
	Value string
}

// Logger Узкий интерфейс логгера консоли: четыре уровня и строковые поля.
// Конкретная реализация подключается адаптером, код пакетов от неё не зависит.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
}
