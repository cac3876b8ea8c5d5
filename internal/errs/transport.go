package errs

import "fmt"

// TransportError Кастомная ошибка, сообщающая о том, что HTTP-запрос к бэкенду
// завершился статусом вне диапазона 2xx. Тело ответа сохраняется для показа
// пользователю, повторные попытки не выполняются.
type TransportError struct {
	StatusCode int
	Body       string
}

func (te *TransportError) Error() string {
	return fmt.Sprintf("Код %d, %s", te.StatusCode, te.Body)
}

func NewTransportError(statusCode int, body string) *TransportError {
	return &TransportError{
		StatusCode: statusCode,
		Body:       body,
	}
}
