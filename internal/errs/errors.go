package errs

import (
	"errors"
	"fmt"
)

// ErrNotConnected Ошибка, сообщающая о том, что нет активного бэкенда.
// Возвращается синхронно, до каких-либо сетевых обращений, чтобы вызывающая
// сторона могла отличить её от сетевой ошибки.
var ErrNotConnected = errors.New("нет активного бэкенда")

// ErrAuthentication Кастомная ошибка, сообщающая о том, что бэкенд отклонил
// аутентификацию или обновление токена.
type ErrAuthentication struct {
	URL string
	Err error
}

func (ae *ErrAuthentication) Error() string {
	return fmt.Sprintf("Бэкенд %s отклонил аутентификацию. Ошибка: %v", ae.URL, ae.Err)
}

func (ae *ErrAuthentication) Unwrap() error {
	return ae.Err
}

func NewErrAuthentication(url string, err error) *ErrAuthentication {
	return &ErrAuthentication{
		URL: url,
		Err: err,
	}
}

// ErrMalformedToken Кастомная ошибка, сообщающая о том, что JWT-токен не удалось
// декодировать. Для вызывающей стороны эквивалентна отсутствию токена.
type ErrMalformedToken struct {
	Err error
}

func (mt *ErrMalformedToken) Error() string {
	return fmt.Sprintf("Токен имеет неверный формат. Ошибка: %v", mt.Err)
}

func (mt *ErrMalformedToken) Unwrap() error {
	return mt.Err
}

func NewErrMalformedToken(err error) *ErrMalformedToken {
	return &ErrMalformedToken{
		Err: err,
	}
}

// ErrInvalidArgument Кастомная ошибка, сообщающая о нарушении контракта вызова
// (например, разделитель пути в параметре, где ожидается только имя файла).
type ErrInvalidArgument struct {
	Param string
	Err   error
}

func (ia *ErrInvalidArgument) Error() string {
	return fmt.Sprintf("Недопустимое значение параметра `%s`. Ошибка: %v", ia.Param, ia.Err)
}

func (ia *ErrInvalidArgument) Unwrap() error {
	return ia.Err
}

func NewErrInvalidArgument(param string, err error) *ErrInvalidArgument {
	return &ErrInvalidArgument{
		Param: param,
		Err:   err,
	}
}
