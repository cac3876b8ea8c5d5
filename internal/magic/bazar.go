package magic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/aista/magic-console/internal/errs"
)

// BazarApp Приложение маркетплейса.
type BazarApp struct {
	Name        string `json:"name"`
	FolderName  string `json:"folder_name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	MinMagic    string `json:"min_magic_version,omitempty"`
	URL         string `json:"url,omitempty"`
}

// AppManifest Манифест установленного приложения на бэкенде.
type AppManifest struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	TokenID   string `json:"token,omitempty"`
	Installed string `json:"date,omitempty"`
}

// BazarService Вызовы маркетплейса (Bazar). Список приложений запрашивается
// у внешнего хоста маркетплейса, установка выполняется активным бэкендом.
type BazarService struct {
	c             *Client
	httpc         *http.Client
	systemPrefix  string
	modulesPrefix string
	bazarURL      string
}

// NewBazarService Конструктор BazarService.
func NewBazarService(c *Client, systemPrefix, modulesPrefix, bazarURL string) *BazarService {
	return &BazarService{
		c:             c,
		httpc:         &http.Client{Timeout: defaultTimeout},
		systemPrefix:  systemPrefix,
		modulesPrefix: modulesPrefix,
		bazarURL:      bazarURL,
	}
}

// ListApps Список приложений маркетплейса. Запрос идёт напрямую к хосту
// маркетплейса, без аутентификации.
func (b *BazarService) ListApps(ctx context.Context, filter string) ([]BazarApp, error) {
	query := url.Values{}
	if filter != "" {
		query.Set("name.like", "%"+filter+"%")
	}

	target := b.bazarURL + b.modulesPrefix + "/bazar/apps"
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	resp, err := b.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса к маркетплейсу: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответа маркетплейса: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.NewTransportError(resp.StatusCode, string(raw))
	}

	var apps []BazarApp
	if err = json.Unmarshal(raw, &apps); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа маркетплейса: %w", err)
	}

	return apps, nil
}

// Install Установка приложения: бэкенд сам скачивает архив по URL и
// разворачивает его. О прогрессе бэкенд сообщает по каналу сокетов.
func (b *BazarService) Install(ctx context.Context, appURL, folderName string) error {
	if appURL == "" {
		return errs.NewErrInvalidArgument("url", fmt.Errorf("необходимо указать URL приложения"))
	}

	body := map[string]string{
		"url":  appURL,
		"name": folderName,
	}

	return b.c.Post(ctx, b.systemPrefix+"/bazar/download-from-url", body, nil)
}

// Manifests Манифесты приложений, установленных на активном бэкенде.
func (b *BazarService) Manifests(ctx context.Context) ([]AppManifest, error) {
	var manifests []AppManifest
	err := b.c.Get(ctx, b.systemPrefix+"/bazar/app-manifests", &manifests)

	return manifests, err
}
