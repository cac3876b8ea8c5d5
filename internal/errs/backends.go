package errs

import "fmt"

// ErrDuplicatedBackend Кастомная ошибка, сообщающая о том, что бэкенд с таким URL уже добавлен.
type ErrDuplicatedBackend struct {
	URL string
	Err error
}

func (db *ErrDuplicatedBackend) Error() string {
	return fmt.Sprintf("Бэкенд %s уже был добавлен. Ошибка: %v", db.URL, db.Err)
}

func (db *ErrDuplicatedBackend) Unwrap() error {
	return db.Err
}

func NewErrDuplicatedBackend(url string, err error) *ErrDuplicatedBackend {
	return &ErrDuplicatedBackend{
		URL: url,
		Err: err,
	}
}

// ErrBackendNotFound Кастомная ошибка, сообщающая о том, что бэкенд не найден
// (был удалён или никогда не добавлялся).
type ErrBackendNotFound struct {
	URL string
	Err error
}

func (nf *ErrBackendNotFound) Error() string {
	return fmt.Sprintf("Бэкенд %s не найден. Ошибка: %v", nf.URL, nf.Err)
}

func (nf *ErrBackendNotFound) Unwrap() error {
	return nf.Err
}

func NewErrBackendNotFound(url string, err error) *ErrBackendNotFound {
	if err == nil {
		err = fmt.Errorf("бэкенд не найден")
	}

	return &ErrBackendNotFound{
		URL: url,
		Err: err,
	}
}
