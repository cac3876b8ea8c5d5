package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	broadcastMocks "github.com/aista/magic-console/internal/broadcast/mocks"
	healthMocks "github.com/aista/magic-console/internal/health_storage/mocks"
	"github.com/aista/magic-console/internal/models"
)

// TestPublishBackendStatuses Проверяет публикацию снимка статусов в топик status.
func TestPublishBackendStatuses(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := healthMocks.NewMockStatusCacheStorage(ctrl)
	mockPublisher := broadcastMocks.NewMockBroadcaster(ctrl)

	statuses := []models.BackendStatus{
		{URL: "http://alpha:5000", Status: models.StatusOK, Version: "17.2.0"},
		{URL: "http://bravo:5000", Status: models.StatusUnreachable},
	}

	mockCache.EXPECT().All().Return(statuses)

	var published []byte
	mockPublisher.EXPECT().
		Publish(StatusTopic, gomock.Any()).
		DoAndReturn(func(topic string, data []byte) error {
			published = data
			return nil
		})

	err := publishBackendStatuses(mockCache, mockPublisher)
	require.NoError(t, err)

	// проверяем что опубликован корректный JSON-снимок
	var got []models.BackendStatus
	require.NoError(t, json.Unmarshal(published, &got))
	assert.Equal(t, statuses, got)
}

// TestPublishBackendStatusesEmpty Проверяет публикацию пустого снимка.
func TestPublishBackendStatusesEmpty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := healthMocks.NewMockStatusCacheStorage(ctrl)
	mockPublisher := broadcastMocks.NewMockBroadcaster(ctrl)

	mockCache.EXPECT().All().Return([]models.BackendStatus{})
	mockPublisher.EXPECT().Publish(StatusTopic, []byte("[]")).Return(nil)

	assert.NoError(t, publishBackendStatuses(mockCache, mockPublisher))
}

// TestPublishBackendStatusesPublishError Проверяет проброс ошибки публикации.
func TestPublishBackendStatusesPublishError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := healthMocks.NewMockStatusCacheStorage(ctrl)
	mockPublisher := broadcastMocks.NewMockBroadcaster(ctrl)

	mockCache.EXPECT().All().Return([]models.BackendStatus{})
	mockPublisher.EXPECT().Publish(StatusTopic, gomock.Any()).Return(errors.New("publish failed"))

	assert.Error(t, publishBackendStatuses(mockCache, mockPublisher))
}

// TestStatusBroadcastWorkerStopsOnContext Проверяет завершение воркера по контексту.
func TestStatusBroadcastWorkerStopsOnContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := healthMocks.NewMockStatusCacheStorage(ctrl)
	mockPublisher := broadcastMocks.NewMockBroadcaster(ctrl)

	mockCache.EXPECT().All().Return([]models.BackendStatus{}).AnyTimes()
	mockPublisher.EXPECT().Publish(StatusTopic, gomock.Any()).Return(nil).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})

	go func() {
		defer close(done)
		StatusBroadcastWorker(ctx, mockCache, mockPublisher, 50*time.Millisecond)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		assert.Fail(t, "воркер не завершился по отменённому контексту")
	}
}
