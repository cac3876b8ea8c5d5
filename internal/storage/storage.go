package storage

import (
	"context"

	"github.com/aista/magic-console/internal/models"
	"github.com/aista/magic-console/internal/token"
)

//go:generate mockgen -destination=mocks/storage_mock.go -package=mocks . Storage

// Storage Интерфейс долговременного хранилища списка бэкендов.
// Порядок элементов значим: первый бэкенд в списке - активный.
type Storage interface {
	// Load Восстанавливает список бэкендов из хранилища.
	Load(ctx context.Context) ([]models.Backend, error)
	// Persist Сохраняет список бэкендов целиком (last-wins).
	Persist(ctx context.Context, backends []models.Backend) error
	Close() error
}

// Record Сериализуемая запись одного бэкенда. В хранилище попадают только
// URL, логин, (зашифрованный) пароль и ещё действующий токен.
type Record struct {
	URL      string `json:"url"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
}

// NewRecord Готовит запись бэкенда к сохранению. Истёкший (или нечитаемый)
// токен отбрасывается, чтобы при следующей загрузке не воскресить мёртвую
// сессию.
func NewRecord(b models.Backend) Record {
	record := Record{
		URL:      b.URL,
		Username: b.Username,
		Password: b.Password,
	}

	if b.Token != "" {
		t, err := token.Decode(b.Token)
		if err == nil && !t.IsExpired() {
			record.Token = b.Token
		}
	}

	return record
}

// Backend Восстанавливает модель бэкенда из записи хранилища.
// Истёкший токен отбрасывается и при загрузке: хранилище могло быть записано
// до истечения срока.
func (r Record) Backend() models.Backend {
	b := models.Backend{
		URL:      models.NormalizeURL(r.URL),
		Username: r.Username,
		Password: r.Password,
		Status:   models.StatusUnknown.String(),
	}

	if r.Token != "" {
		t, err := token.Decode(r.Token)
		if err == nil && !t.IsExpired() {
			b.Token = r.Token
		}
	}

	return b
}
