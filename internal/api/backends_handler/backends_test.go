package backends_handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/models"
	"github.com/aista/magic-console/internal/session"
	sessionMocks "github.com/aista/magic-console/internal/session/mocks"
	storageMocks "github.com/aista/magic-console/internal/storage/mocks"
)

func init() {
	logger.InitLogger("error", "stdout")
}

const (
	testSystemPrefix = "/magic/system"
	testBackendURL   = "http://localhost:5000"
)

// newTestHandler Собирает хендлер с менеджером сессий на моках.
func newTestHandler(t *testing.T, ctrl *gomock.Controller) (*BackendsHandler, *session.Manager) {
	t.Helper()

	mockAPI := sessionMocks.NewMockBackendAPI(ctrl)
	mockStore := storageMocks.NewMockStorage(ctrl)
	mockStore.EXPECT().Persist(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	sess := session.NewManager(mockAPI, mockStore, testSystemPrefix)
	t.Cleanup(sess.Close)

	return NewBackendsHandler(sess), sess
}

// addBackend Добавляет бэкенд напрямую через менеджер сессий.
func addBackend(t *testing.T, sess *session.Manager, url string) {
	t.Helper()

	_, err := sess.Upsert(context.Background(), models.Backend{URL: url})
	require.NoError(t, err)
}

// TestGetBackendsEmpty Проверяет пустой список бэкендов.
func TestGetBackendsEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler, _ := newTestHandler(t, ctrl)

	r := httptest.NewRequest(http.MethodGet, "/api/backends", nil)
	w := httptest.NewRecorder()

	handler.GetBackends(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var got []models.Backend
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Empty(t, got)
}

// TestAddBackend Проверяет добавление нового бэкенда.
func TestAddBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler, sess := newTestHandler(t, ctrl)

	body := []byte(`{"url":"http://localhost:5000","username":"admin"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/backends", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.AddBackend(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Backend
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, testBackendURL, created.URL)
	assert.Equal(t, "admin", created.Username)

	require.Len(t, sess.List(), 1)
}

// TestAddBackendNormalizesURL Проверяет нормализацию URL при добавлении.
func TestAddBackendNormalizesURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler, sess := newTestHandler(t, ctrl)

	body := []byte(`{"url":"  http://localhost:5000///  "}`)
	r := httptest.NewRequest(http.MethodPost, "/api/backends", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.AddBackend(w, r)

	require.Equal(t, http.StatusCreated, w.Code)

	list := sess.List()
	require.Len(t, list, 1)
	assert.Equal(t, testBackendURL, list[0].URL)
}

// TestAddBackendDuplicate Проверяет конфликт при повторном добавлении того же URL.
func TestAddBackendDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler, sess := newTestHandler(t, ctrl)
	addBackend(t, sess, testBackendURL)

	// другое написание того же адреса
	body := []byte(`{"url":"http://localhost:5000/"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/backends", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.AddBackend(w, r)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "уже был добавлен")
	assert.Len(t, sess.List(), 1)
}

// TestAddBackendValidation Проверяет валидацию данных бэкенда.
func TestAddBackendValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "некорректный JSON",
			body: "not json",
		},
		{
			name: "пустой URL",
			body: `{"url":""}`,
		},
		{
			name: "URL без схемы",
			body: `{"url":"localhost:5000"}`,
		},
		{
			name: "неподдерживаемая схема",
			body: `{"url":"ftp://host:21"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			handler, sess := newTestHandler(t, ctrl)

			r := httptest.NewRequest(http.MethodPost, "/api/backends", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()

			handler.AddBackend(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, sess.List())
		})
	}
}

// TestEditBackend Проверяет обновление существующего бэкенда.
func TestEditBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler, sess := newTestHandler(t, ctrl)
	addBackend(t, sess, testBackendURL)

	body := []byte(`{"url":"http://localhost:5000","username":"newuser"}`)
	r := httptest.NewRequest(http.MethodPut, "/api/backends", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.EditBackend(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	list := sess.List()
	require.Len(t, list, 1)
	assert.Equal(t, "newuser", list[0].Username)
}

// TestEditBackendNotFound Проверяет обновление несуществующего бэкенда.
func TestEditBackendNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler, _ := newTestHandler(t, ctrl)

	body := []byte(`{"url":"http://unknown:5000"}`)
	r := httptest.NewRequest(http.MethodPut, "/api/backends", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.EditBackend(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "не найден")
}

// TestActivateBackend Проверяет переключение активного бэкенда.
func TestActivateBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler, sess := newTestHandler(t, ctrl)
	addBackend(t, sess, "http://alpha:5000")
	addBackend(t, sess, "http://bravo:5000")

	body := []byte(`{"url":"http://bravo:5000"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/backends/activate", bytes.NewReader(body))
	w := httptest.NewRecorder()

	handler.ActivateBackend(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	activeURL, _, ok := sess.Active()
	require.True(t, ok)
	assert.Equal(t, "http://bravo:5000", activeURL)
}

// TestActivateBackendValidation Проверяет валидацию запроса активации.
func TestActivateBackendValidation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "некорректный JSON",
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "пустой URL",
			body:       `{"url":""}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "несуществующий бэкенд",
			body:       `{"url":"http://unknown:5000"}`,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			handler, sess := newTestHandler(t, ctrl)
			addBackend(t, sess, testBackendURL)

			r := httptest.NewRequest(http.MethodPost, "/api/backends/activate", bytes.NewReader([]byte(tt.body)))
			w := httptest.NewRecorder()

			handler.ActivateBackend(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// TestDelBackend Проверяет удаление бэкенда.
func TestDelBackend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler, sess := newTestHandler(t, ctrl)
	addBackend(t, sess, testBackendURL)

	r := httptest.NewRequest(http.MethodDelete, "/api/backends?url=http://localhost:5000", nil)
	w := httptest.NewRecorder()

	handler.DelBackend(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sess.List())
}

// TestDelBackendMissingURL Проверяет удаление без query-параметра url.
func TestDelBackendMissingURL(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler, _ := newTestHandler(t, ctrl)

	r := httptest.NewRequest(http.MethodDelete, "/api/backends", nil)
	w := httptest.NewRecorder()

	handler.DelBackend(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestDelBackendNotFound Проверяет удаление несуществующего бэкенда.
func TestDelBackendNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler, sess := newTestHandler(t, ctrl)
	addBackend(t, sess, testBackendURL)

	r := httptest.NewRequest(http.MethodDelete, "/api/backends?url=http://unknown:5000", nil)
	w := httptest.NewRecorder()

	handler.DelBackend(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Len(t, sess.List(), 1)
}
