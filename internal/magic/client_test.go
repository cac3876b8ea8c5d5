package magic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aista/magic-console/internal/errs"
)

// stubSource Статичный источник активного бэкенда для тестов клиента.
type stubSource struct {
	baseURL string
	token   string
	ok      bool
}

func (s stubSource) Active() (string, string, bool) {
	return s.baseURL, s.token, s.ok
}

// TestClientNotConnected Проверяет ошибку при отсутствии активного бэкенда.
// Тесты пакета не импортируют собственные моки: мок моста сокетов сам
// зависит от пакета, и такой импорт замкнул бы цикл.
func TestClientNotConnected(t *testing.T) {
	client := NewClient(stubSource{})

	err := client.Get(context.Background(), "/magic/system/version", nil)

	assert.ErrorIs(t, err, errs.ErrNotConnected, "без активного бэкенда нет сетевого обращения")
}

// TestClientGet Проверяет GET-запрос с авторизацией и декодированием ответа.
func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/magic/system/version", r.URL.Path)
		assert.Equal(t, "Bearer raw-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"version":"17.2.0"}`))
	}))
	defer srv.Close()

	client := NewClient(stubSource{baseURL: srv.URL, token: "raw-token", ok: true})

	var out struct {
		Version string `json:"version"`
	}

	err := client.Get(context.Background(), "/magic/system/version", &out)

	require.NoError(t, err)
	assert.Equal(t, "17.2.0", out.Version)
}

// TestClientPost Проверяет POST-запрос с JSON-телом.
func TestClientPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(stubSource{baseURL: srv.URL, token: "raw-token", ok: true})

	body := map[string]any{"databaseType": "sqlite", "sql": "select 1"}

	var out struct {
		Result string `json:"result"`
	}

	err := client.Post(context.Background(), "/magic/system/sql/evaluate", body, &out)

	require.NoError(t, err)
	assert.Equal(t, "ok", out.Result)
}

// TestClientNoTokenNoAuthHeader Проверяет, что без токена заголовок
// Authorization не выставляется.
func TestClientNoTokenNoAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(stubSource{baseURL: srv.URL, ok: true})

	assert.NoError(t, client.Get(context.Background(), "/magic/system/version", nil))
}

// TestClientTransportError Проверяет преобразование не-2xx ответа в TransportError
// с исходным статусом и телом.
func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"Access denied"}`))
	}))
	defer srv.Close()

	client := NewClient(stubSource{baseURL: srv.URL, token: "raw-token", ok: true})

	err := client.Get(context.Background(), "/magic/system/auth/users", nil)

	var transportErr *errs.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusForbidden, transportErr.StatusCode)
	assert.Contains(t, transportErr.Body, "Access denied")
}

// TestClientInvalidResponseBody Проверяет ошибку разбора некорректного JSON.
func TestClientInvalidResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("this is not json"))
	}))
	defer srv.Close()

	client := NewClient(stubSource{baseURL: srv.URL, token: "raw-token", ok: true})

	var out map[string]any
	err := client.Get(context.Background(), "/magic/system/version", &out)

	assert.Error(t, err)
}

// TestClientEmptyBodyIgnored Проверяет, что пустое тело ответа не разбирается.
func TestClientEmptyBodyIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(stubSource{baseURL: srv.URL, token: "raw-token", ok: true})

	var out map[string]any
	assert.NoError(t, client.Delete(context.Background(), "/magic/system/cache/empty", &out))
}

// TestClientDownload Проверяет скачивание бинарного содержимого с именем файла
// из Content-Disposition.
func TestClientDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Header().Set("Content-Disposition", `attachment; filename="backup.zip"`)
		w.Write([]byte("zip-content"))
	}))
	defer srv.Close()

	client := NewClient(stubSource{baseURL: srv.URL, token: "raw-token", ok: true})

	result, err := client.Download(context.Background(), "/magic/system/file/download")
	require.NoError(t, err)
	defer result.Body.Close()

	assert.Equal(t, "backup.zip", result.Filename)
	assert.Equal(t, "application/octet-stream", result.ContentType)
}

// TestClientDownloadError Проверяет преобразование не-2xx ответа скачивания.
func TestClientDownloadError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("no such file"))
	}))
	defer srv.Close()

	client := NewClient(stubSource{baseURL: srv.URL, token: "raw-token", ok: true})

	result, err := client.Download(context.Background(), "/magic/system/file/download")

	var transportErr *errs.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusNotFound, transportErr.StatusCode)
	assert.Nil(t, result)
}
