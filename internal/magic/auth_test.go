package magic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aista/magic-console/internal/errs"
	"github.com/aista/magic-console/internal/models"
)

const testSystemPrefix = "/magic/system"

// TestAuthenticate Проверяет аутентификацию на бэкенде.
func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantTicket string
		wantErr    bool
	}{
		{
			name: "успешная аутентификация",
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/magic/system/authenticate", r.URL.Path)
				assert.Equal(t, "admin", r.URL.Query().Get("username"))
				assert.Equal(t, "secret", r.URL.Query().Get("password"))

				w.Write([]byte(`{"ticket":"raw-jwt-token"}`))
			},
			wantTicket: "raw-jwt-token",
		},
		{
			name: "бэкенд вернул пустой ticket",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"ticket":""}`))
			},
			wantErr: true,
		},
		{
			name: "неверные учётные данные",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Access denied"}`))
			},
			wantErr: true,
		},
		{
			name: "некорректный JSON в ответе",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			api := NewAuthAPI(testSystemPrefix)

			ticket, err := api.Authenticate(context.Background(), srv.URL, "admin", "secret")

			if tt.wantErr {
				var authErr *errs.ErrAuthentication
				require.ErrorAs(t, err, &authErr)
				assert.Equal(t, srv.URL, authErr.URL)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantTicket, ticket)
		})
	}
}

// TestRefresh Проверяет тихое обновление токена текущим токеном.
func TestRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/magic/system/refresh-ticket", r.URL.Path)
		assert.Equal(t, "Bearer old-token", r.Header.Get("Authorization"))

		w.Write([]byte(`{"ticket":"new-token"}`))
	}))
	defer srv.Close()

	api := NewAuthAPI(testSystemPrefix)

	ticket, err := api.Refresh(context.Background(), srv.URL, "old-token")

	require.NoError(t, err)
	assert.Equal(t, "new-token", ticket)
}

// TestRefreshFailure Проверяет ошибку обновления просроченным токеном.
func TestRefreshFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	api := NewAuthAPI(testSystemPrefix)

	_, err := api.Refresh(context.Background(), srv.URL, "expired-token")

	var authErr *errs.ErrAuthentication
	assert.ErrorAs(t, err, &authErr)
}

// TestEndpoints Проверяет получение метаданных эндпоинтов.
func TestEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/magic/system/auth/endpoints", r.URL.Path)
		assert.Equal(t, "Bearer raw-token", r.Header.Get("Authorization"))

		w.Write([]byte(`[
			{"path":"/magic/system/version","verb":"get","auth":[]},
			{"path":"/magic/system/sql/evaluate","verb":"post","auth":["root"]}
		]`))
	}))
	defer srv.Close()

	api := NewAuthAPI(testSystemPrefix)

	endpoints, err := api.Endpoints(context.Background(), srv.URL, "raw-token")

	require.NoError(t, err)
	require.Len(t, endpoints, 2)
	assert.Equal(t, models.Endpoint{Path: "/magic/system/version", Verb: "get", Auth: []string{}}, endpoints[0])
	assert.Equal(t, []string{"root"}, endpoints[1].Auth)
}

// TestEndpointsTransportError Проверяет проброс TransportError без обёртки
// в ошибку аутентификации.
func TestEndpointsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("Access denied"))
	}))
	defer srv.Close()

	api := NewAuthAPI(testSystemPrefix)

	_, err := api.Endpoints(context.Background(), srv.URL, "raw-token")

	var transportErr *errs.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusForbidden, transportErr.StatusCode)
}

// TestStatus Проверяет получение статуса установки бэкенда.
func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/magic/system/config/status", r.URL.Path)

		w.Write([]byte(`{"config_done":true,"magic_crudified":true,"server_keypair":false}`))
	}))
	defer srv.Close()

	api := NewAuthAPI(testSystemPrefix)

	status, err := api.Status(context.Background(), srv.URL, "raw-token")

	require.NoError(t, err)
	assert.True(t, status.ConfigDone)
	assert.True(t, status.MagicCrudified)
	assert.False(t, status.ServerKeypair)
}

// TestVersion Проверяет получение версии бэкенда.
func TestVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/magic/system/version", r.URL.Path)

		w.Write([]byte(`{"version":"17.2.0"}`))
	}))
	defer srv.Close()

	api := NewAuthAPI(testSystemPrefix)

	version, err := api.Version(context.Background(), srv.URL, "raw-token")

	require.NoError(t, err)
	assert.Equal(t, "17.2.0", version)
}

// TestAuthAPIUnreachableBackend Проверяет сетевую ошибку недоступного бэкенда.
func TestAuthAPIUnreachableBackend(t *testing.T) {
	api := NewAuthAPI(testSystemPrefix)
	api.SetTimeout(200 * time.Millisecond)

	_, err := api.Version(context.Background(), "http://127.0.0.1:1", "raw-token")

	assert.Error(t, err)
}
