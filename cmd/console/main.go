package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aista/magic-console/internal/auth"
	"github.com/aista/magic-console/internal/authz"
	"github.com/aista/magic-console/internal/broadcast"
	"github.com/aista/magic-console/internal/config"
	"github.com/aista/magic-console/internal/di_containers"
	"github.com/aista/magic-console/internal/health_storage"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/magic"
	"github.com/aista/magic-console/internal/models"
	"github.com/aista/magic-console/internal/netutils"
	"github.com/aista/magic-console/internal/server"
	"github.com/aista/magic-console/internal/session"
	"github.com/aista/magic-console/internal/storage"
	"github.com/aista/magic-console/internal/storage/filestore"
	"github.com/aista/magic-console/internal/storage/postgres"
	"github.com/aista/magic-console/internal/worker"
)

// "Сборка" и запуск проекта.
func main() {
	// recover для логирования паник в main
	defer func() {
		if r := recover(); r != nil {
			log.Println("Паника в main:", fmt.Sprintf("%v", r))
		}
	}()

	// загружаем переменные окружения из .env для локальной разработки
	errEnv := godotenv.Load("../../.env.development")
	if errEnv != nil {
		log.Println("Не удалось загрузить .env:", errEnv)
	}

	// инициализация конфигурации консоли
	srvConfig := config.InitConfig()

	// инициализация логгера с уровнем логирования из конфигурации
	logger.InitLogger(srvConfig.LogLevel, srvConfig.LogOutput)
	// отложенное закрытие ресурса (актуально если используется файл для логирования)
	defer logger.Log.(*logger.SlogAdapter).Close()

	// ключ шифрования паролей бэкендов выводится из секрета консоли
	if srvConfig.ConsoleSecret == "" {
		logger.Log.Error("Не задан секрет консоли (CONSOLE_SECRET)")
		os.Exit(1)
	}
	aesKey := storage.DeriveKey(srvConfig.ConsoleSecret)

	// инициализация хранилища: PostgreSQL при заданном DATABASE_URI,
	// иначе - JSON-файл
	var backendsStorage storage.Storage

	if srvConfig.DatabaseURI != "" {
		pgStorage, err := postgres.InitStorage(srvConfig.DatabaseURI, aesKey)
		if err != nil {
			logger.Log.Error("Не удалось инициировать хранилище (БД)", logger.String("err", err.Error()))
			os.Exit(1)
		}
		backendsStorage = pgStorage
	} else {
		// заполнение пустого хранилища списком по умолчанию - только в локальной разработке
		var seedBackends []models.Backend
		if srvConfig.LocalDev {
			seedBackends = srvConfig.SeedBackends()
		}
		backendsStorage = filestore.InitStorage(srvConfig.StoragePath, aesKey, seedBackends)
	}

	// менеджер сессий: владелец списка бэкендов, токенов и задач их обновления
	backendAPI := magic.NewAuthAPI(srvConfig.SystemPrefix)
	sess := session.NewManager(backendAPI, backendsStorage, srvConfig.SystemPrefix)

	startCtx, startDone := context.WithTimeout(context.Background(), 10*time.Second)
	if err := sess.Load(startCtx); err != nil {
		startDone()
		logger.Log.Error("Не удалось загрузить список бэкендов", logger.String("err", err.Error()))
		os.Exit(1)
	}
	startDone()

	authorizer := authz.NewAuthorizer(sess, srvConfig.SystemPrefix)
	tokenBuilder := auth.NewJWTTokenBuilder()

	var broadcaster broadcast.Broadcaster

	if srvConfig.WebInterface {
		// создание SSE Publisher/Subscriber,
		// используем r3labs/sse через адаптер, реализующий интерфейс Broadcaster.
		// Используется для передачи событий во фронтенд.
		broadcaster = broadcast.NewR3labsSSEAdapter(
			broadcast.MakeJWTTopicResolver(srvConfig.JWTSecretKey, tokenBuilder),
		)
	} else {
		broadcaster = broadcast.NewNoopAdapter(func(r *http.Request) (string, error) { return "noop", nil })
	}

	// создаем in-memory хранилище для мониторинга статусов бэкендов
	statusCache := health_storage.NewStatusCache()

	// создаем сетевой чекер
	netChecker := netutils.NewNetworkChecker()

	// создаём handlersContainer — контейнер зависимостей для всех хендлеров
	handlersContainer := di_containers.NewHandlersContainer(sess, statusCache, srvConfig, broadcaster, tokenBuilder)

	// создаем сервер и запускаем его
	srv, serverErrorCh := server.RunServer(handlersContainer, tokenBuilder, srvConfig)

	// запускаем воркеры в отдельных горутинах:
	// - worker.BackendStatusWorker периодически проверяет сетевую доступность бэкендов
	//   и складывает статусы в in-memory хранилище,
	// - worker.StatusBroadcastWorker периодически публикует снимок статусов через SSE,
	// - worker.SessionBroadcastWorker публикует изменения состояния сессии через SSE
	workersCtx, workersCtxCancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	statusWorkerInterval := time.Duration(srvConfig.StatusPollInterval) * time.Second

	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.BackendStatusWorker(workersCtx, sess, netChecker, statusCache, statusWorkerInterval)
	}()

	if srvConfig.WebInterface {
		statusBroadcastInterval := 2 * time.Second

		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.StatusBroadcastWorker(workersCtx, statusCache, broadcaster, statusBroadcastInterval)
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.SessionBroadcastWorker(workersCtx, sess, authorizer, broadcaster)
		}()
	}

	// канал системных сигналов
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop) // гарантированно перестанем слушать сигнал при выходе

	// блокируемся тут в ожидании одного из вариантов завершения работы сервера
	select {
	case err, ok := <-serverErrorCh:
		if !ok {
			logger.Log.Info("Канал ошибок сервера закрыт")
			return
		}
		logger.Log.Error("Ошибка сервера", logger.String("err", err.Error()))
	case sig := <-stop:
		logger.Log.Info("Получен сигнал остановки приложения", logger.String("sig", sig.String()))
	}

	logger.Log.Info("Начало процедуры остановки приложения...")

	// останавливаем воркеры
	workersCtxCancel()

	// ждём завершения всех воркеров с таймаутом
	workersDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(workersDone)
	}()

	select {
	case <-workersDone:
		logger.Log.Info("Воркеры остановлены")
	case <-time.After(5 * time.Second):
		logger.Log.Warn("Таймаут ожидания воркеров")
	}

	// закрываем живые терминальные сессии
	handlersContainer.TerminalHandler.Close()

	// отменяем задачи обновления токенов
	sess.Close()

	// безопасно закрываем broadcaster
	logger.Log.Info("Закрытие broadcaster...")
	if err := broadcaster.Close(); err != nil {
		logger.Log.Warn("Ошибка закрытия SSE адаптера", logger.String("err", err.Error()))
	}

	logger.Log.Info("Успешное закрытие broadcaster")

	// контекст для завершения работы сервера
	serverShutdownCtx, serverShutdownCancel := context.WithTimeout(context.Background(), 7*time.Second)
	defer serverShutdownCancel()

	// остановка сервера
	if err := srv.Shutdown(serverShutdownCtx); err != nil {
		logger.Log.Error("Ошибка остановки сервера", logger.String("err", err.Error()))
	} else {
		logger.Log.Info("Сервер остановлен")
	}

	// закрытие хранилища
	logger.Log.Info("Закрытие хранилища...")
	if err := backendsStorage.Close(); err != nil {
		logger.Log.Error("Ошибка закрытия хранилища", logger.String("err", err.Error()))
	}
	logger.Log.Info("Успешное закрытие хранилища")

	logger.Log.Info("Приложение завершено")
}
