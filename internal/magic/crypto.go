package magic

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/aista/magic-console/internal/errs"
)

// PublicKey Импортированный публичный ключ.
type PublicKey struct {
	ID          int64  `json:"id"`
	Subject     string `json:"subject"`
	Email       string `json:"email"`
	Domain      string `json:"domain,omitempty"`
	Fingerprint string `json:"fingerprint"`
	Content     string `json:"content"`
	Enabled     bool   `json:"enabled"`
}

// CryptoReceipt Квитанция криптографически подписанного вызова.
type CryptoReceipt struct {
	ID      int64  `json:"id"`
	Request string `json:"request"`
	Created string `json:"created"`
}

// CryptoService Вызовы управления криптографическими ключами бэкенда.
type CryptoService struct {
	c            *Client
	systemPrefix string
}

// NewCryptoService Конструктор CryptoService.
func NewCryptoService(c *Client, systemPrefix string) *CryptoService {
	return &CryptoService{
		c:            c,
		systemPrefix: systemPrefix,
	}
}

// ServerPublicKey Публичный ключ сервера.
func (s *CryptoService) ServerPublicKey(ctx context.Context) (map[string]any, error) {
	var result map[string]any
	err := s.c.Get(ctx, s.systemPrefix+"/crypto/public-key", &result)

	return result, err
}

// GenerateServerKeyPair Генерация новой серверной пары ключей.
// strength - размер ключа в битах.
func (s *CryptoService) GenerateServerKeyPair(ctx context.Context, strength int, seed string) error {
	if strength < 1024 {
		return errs.NewErrInvalidArgument("strength", fmt.Errorf("размер ключа меньше 1024 бит: %d", strength))
	}

	body := map[string]any{
		"strength": strength,
		"seed":     seed,
	}

	return s.c.Post(ctx, s.systemPrefix+"/crypto/generate-keypair", body, nil)
}

// ImportPublicKey Импорт чужого публичного ключа.
func (s *CryptoService) ImportPublicKey(ctx context.Context, key PublicKey) error {
	return s.c.Post(ctx, s.systemPrefix+"/crypto/import", key, nil)
}

// ListPublicKeys Постраничный список импортированных публичных ключей.
func (s *CryptoService) ListPublicKeys(ctx context.Context, filter string, offset, limit int) ([]PublicKey, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))
	if filter != "" {
		query.Set("filter", filter)
	}

	var keys []PublicKey
	err := s.c.Get(ctx, s.systemPrefix+"/crypto/public-keys?"+query.Encode(), &keys)

	return keys, err
}

// DeletePublicKey Удаление импортированного публичного ключа.
func (s *CryptoService) DeletePublicKey(ctx context.Context, id int64) error {
	query := url.Values{}
	query.Set("id", strconv.FormatInt(id, 10))

	return s.c.Delete(ctx, s.systemPrefix+"/crypto/public-keys?"+query.Encode(), nil)
}

// ListReceipts Постраничный список квитанций подписанных вызовов.
func (s *CryptoService) ListReceipts(ctx context.Context, offset, limit int) ([]CryptoReceipt, error) {
	query := url.Values{}
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	var receipts []CryptoReceipt
	err := s.c.Get(ctx, s.systemPrefix+"/crypto/invocations?"+query.Encode(), &receipts)

	return receipts, err
}
