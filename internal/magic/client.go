package magic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/aista/magic-console/internal/errs"
)

//go:generate mockgen -destination=mocks/mock_backend_source.go -package=mocks . BackendSource

// BackendSource Источник активного бэкенда для клиента.
// ok == false означает, что активного бэкенда нет.
type BackendSource interface {
	Active() (baseURL string, rawToken string, ok bool)
}

const defaultTimeout = 30 * time.Second

// Client Универсальный HTTP-клиент активного бэкенда Magic.
// Каждый метод-глагол добавляет к пути базовый URL активного бэкенда и
// заголовок Authorization из его токена. Если активного бэкенда нет -
// возвращается errs.ErrNotConnected ещё до сетевого обращения, чтобы
// вызывающая сторона могла отличить эту ситуацию от сетевой ошибки.
type Client struct {
	httpc  *http.Client
	source BackendSource
}

// NewClient Конструктор клиента.
func NewClient(source BackendSource) *Client {
	return &Client{
		httpc:  &http.Client{Timeout: defaultTimeout},
		source: source,
	}
}

// Get GET-запрос к активному бэкенду. Ответ декодируется в out (если out != nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.invoke(ctx, http.MethodGet, path, nil, out)
}

// Post POST-запрос с JSON-телом.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.invoke(ctx, http.MethodPost, path, body, out)
}

// Put PUT-запрос с JSON-телом.
func (c *Client) Put(ctx context.Context, path string, body any, out any) error {
	return c.invoke(ctx, http.MethodPut, path, body, out)
}

// Delete DELETE-запрос.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.invoke(ctx, http.MethodDelete, path, nil, out)
}

// DownloadResult Результат скачивания: поток тела ответа и заголовки,
// из которых вызывающая сторона извлекает имя файла.
type DownloadResult struct {
	Body        io.ReadCloser
	Filename    string
	ContentType string
}

// Download GET-запрос за бинарным содержимым.
func (c *Client) Download(ctx context.Context, path string) (*DownloadResult, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		return nil, errs.NewTransportError(resp.StatusCode, string(raw))
	}

	result := &DownloadResult{
		Body:        resp.Body,
		ContentType: resp.Header.Get("Content-Type"),
	}

	// имя файла из Content-Disposition, если бэкенд его сообщил
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if _, params, parseErr := mime.ParseMediaType(cd); parseErr == nil {
			result.Filename = params["filename"]
		}
	}

	return result, nil
}

// Общий путь всех глаголов: собрать запрос, подставить URL и токен активного
// бэкенда, выполнить, разобрать ответ.
func (c *Client) invoke(ctx context.Context, method, path string, body any, out any) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения тела ответа: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errs.NewTransportError(resp.StatusCode, string(raw))
	}

	if out == nil || len(raw) == 0 {
		return nil
	}

	if err = json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("ошибка разбора тела ответа: %w", err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	baseURL, rawToken, ok := c.source.Active()
	if !ok {
		return nil, errs.ErrNotConnected
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка сериализации тела запроса: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if rawToken != "" {
		req.Header.Set("Authorization", "Bearer "+rawToken)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}
