package worker

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	healthMocks "github.com/aista/magic-console/internal/health_storage/mocks"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/models"
	netutilsMocks "github.com/aista/magic-console/internal/netutils/mocks"
)

func init() {
	logger.InitLogger("error", "stdout")
}

// stubLister Статичный источник списка бэкендов для тестов воркеров.
type stubLister struct {
	backends []models.Backend
}

func (s stubLister) List() []models.Backend {
	return s.backends
}

// TestCheckBackends Проверяет один цикл проверки доступности бэкендов.
func TestCheckBackends(t *testing.T) {
	tests := []struct {
		name      string
		backend   models.Backend
		mockSetup func(checker *netutilsMocks.MockChecker, cache *healthMocks.MockStatusCacheStorage)
	}{
		{
			name:    "доступный бэкенд с неизвестным статусом помечается OK",
			backend: models.Backend{URL: "http://localhost:5000", Status: models.StatusUnknown.String(), Version: "17.2.0"},
			mockSetup: func(checker *netutilsMocks.MockChecker, cache *healthMocks.MockStatusCacheStorage) {
				checker.EXPECT().CheckTCP(gomock.Any(), "localhost", "5000", time.Duration(0)).Return(true)
				cache.EXPECT().Set(models.BackendStatus{URL: "http://localhost:5000", Status: models.StatusOK, Version: "17.2.0"})
			},
		},
		{
			name:    "доступный бэкенд сохраняет статус последнего опроса",
			backend: models.Backend{URL: "http://localhost:5000", Status: models.StatusDegraded.String()},
			mockSetup: func(checker *netutilsMocks.MockChecker, cache *healthMocks.MockStatusCacheStorage) {
				checker.EXPECT().CheckTCP(gomock.Any(), "localhost", "5000", time.Duration(0)).Return(true)
				cache.EXPECT().Set(models.BackendStatus{URL: "http://localhost:5000", Status: models.StatusDegraded})
			},
		},
		{
			name:    "недоступный по TCP бэкенд помечается Unreachable",
			backend: models.Backend{URL: "http://localhost:5000", Status: models.StatusOK.String(), Version: "17.2.0"},
			mockSetup: func(checker *netutilsMocks.MockChecker, cache *healthMocks.MockStatusCacheStorage) {
				checker.EXPECT().CheckTCP(gomock.Any(), "localhost", "5000", time.Duration(0)).Return(false)
				cache.EXPECT().Set(models.BackendStatus{URL: "http://localhost:5000", Status: models.StatusUnreachable, Version: "17.2.0"})
			},
		},
		{
			name:    "невалидный сохранённый статус заменяется на OK",
			backend: models.Backend{URL: "http://localhost:5000", Status: "Running"},
			mockSetup: func(checker *netutilsMocks.MockChecker, cache *healthMocks.MockStatusCacheStorage) {
				checker.EXPECT().CheckTCP(gomock.Any(), "localhost", "5000", time.Duration(0)).Return(true)
				cache.EXPECT().Set(models.BackendStatus{URL: "http://localhost:5000", Status: models.StatusOK})
			},
		},
		{
			name:    "неразбираемый URL пропускается без сетевой проверки",
			backend: models.Backend{URL: "http://host:port:extra"},
			mockSetup: func(checker *netutilsMocks.MockChecker, cache *healthMocks.MockStatusCacheStorage) {
				// ни CheckTCP, ни Set не вызываются
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockChecker := netutilsMocks.NewMockChecker(ctrl)
			mockCache := healthMocks.NewMockStatusCacheStorage(ctrl)
			tt.mockSetup(mockChecker, mockCache)

			checkBackends(context.Background(), stubLister{backends: []models.Backend{tt.backend}}, mockChecker, mockCache)
		})
	}
}

// TestCheckBackendsMultiple Проверяет обход всех бэкендов списка за один цикл.
func TestCheckBackendsMultiple(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChecker := netutilsMocks.NewMockChecker(ctrl)
	mockCache := healthMocks.NewMockStatusCacheStorage(ctrl)

	mockChecker.EXPECT().CheckTCP(gomock.Any(), "alpha", "5000", time.Duration(0)).Return(true)
	mockChecker.EXPECT().CheckTCP(gomock.Any(), "bravo", "5000", time.Duration(0)).Return(false)

	mockCache.EXPECT().Set(models.BackendStatus{URL: "http://alpha:5000", Status: models.StatusOK})
	mockCache.EXPECT().Set(models.BackendStatus{URL: "http://bravo:5000", Status: models.StatusUnreachable})

	lister := stubLister{backends: []models.Backend{
		{URL: "http://alpha:5000", Status: models.StatusUnknown.String()},
		{URL: "http://bravo:5000", Status: models.StatusOK.String()},
	}}

	checkBackends(context.Background(), lister, mockChecker, mockCache)
}

// TestBackendStatusWorkerStopsOnContext Проверяет завершение воркера по контексту.
func TestBackendStatusWorkerStopsOnContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockChecker := netutilsMocks.NewMockChecker(ctrl)
	mockCache := healthMocks.NewMockStatusCacheStorage(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})

	go func() {
		defer close(done)
		BackendStatusWorker(ctx, stubLister{}, mockChecker, mockCache, 50*time.Millisecond)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		assert.Fail(t, "воркер не завершился по отменённому контексту")
	}
}
