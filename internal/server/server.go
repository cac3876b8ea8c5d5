package server

import (
	"errors"
	"net/http"

	"github.com/aista/magic-console/internal/auth"
	"github.com/aista/magic-console/internal/config"
	"github.com/aista/magic-console/internal/di_containers"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/router"
)

// NewServer Создание нового сервера.
func NewServer(handlers *di_containers.HandlersContainer, tokenBuilder auth.TokenBuilder, srvConfig *config.Config) *http.Server {
	mux := router.Router(handlers, tokenBuilder, srvConfig)

	server := &http.Server{
		Addr:    srvConfig.RunAddress,
		Handler: mux,
	}

	return server
}

// RunServer Запускает сервер в горутине и возвращает сам сервер и канал ошибок.
func RunServer(handlers *di_containers.HandlersContainer, tokenBuilder auth.TokenBuilder, srvConfig *config.Config) (*http.Server, chan error) {
	server := NewServer(handlers, tokenBuilder, srvConfig)

	// канал ошибок сервера
	serverErrorCh := make(chan error, 1)

	go func() {
		defer close(serverErrorCh)

		logger.Log.Info("Сервер запущен", logger.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Ошибка сервера", logger.String("err", err.Error()))
			// отправляем ошибку в канал ошибок сервера
			serverErrorCh <- err
		}
	}()

	return server, serverErrorCh
}
