package models

type Status string

const (
	StatusOK          Status = "OK"
	StatusDegraded    Status = "Degraded"
	StatusUnreachable Status = "Unreachable"
	StatusUnknown     Status = "Unknown"
)

// IsValid Валидация статуса.
func (s Status) IsValid() bool {
	switch s {
	case StatusOK, StatusDegraded, StatusUnreachable, StatusUnknown:
		return true
	default:
		return false
	}
}

// String Стрингер для Status.
func (s Status) String() string {
	return string(s)
}

// BackendStatus Модель сетевого статуса бэкенда для отдачи во фронтенд.
type BackendStatus struct {
	URL     string `json:"url"`
	Status  Status `json:"status"`
	Version string `json:"version,omitempty"`
}
