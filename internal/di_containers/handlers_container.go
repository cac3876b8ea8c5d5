package di_containers

import (
	"context"

	"github.com/aista/magic-console/internal/api/auth_handler"
	"github.com/aista/magic-console/internal/api/backends_handler"
	"github.com/aista/magic-console/internal/api/bazar_handler"
	"github.com/aista/magic-console/internal/api/evaluator_handler"
	"github.com/aista/magic-console/internal/api/files_handler"
	"github.com/aista/magic-console/internal/api/health_handler"
	"github.com/aista/magic-console/internal/api/system_handler"
	"github.com/aista/magic-console/internal/api/terminal_handler"
	"github.com/aista/magic-console/internal/api/users_handler"
	"github.com/aista/magic-console/internal/auth"
	"github.com/aista/magic-console/internal/authz"
	"github.com/aista/magic-console/internal/broadcast"
	"github.com/aista/magic-console/internal/config"
	"github.com/aista/magic-console/internal/errs"
	"github.com/aista/magic-console/internal/health_storage"
	"github.com/aista/magic-console/internal/magic"
	"github.com/aista/magic-console/internal/session"
)

// HandlersContainer Контейнер со всеми хендлерами приложения (и их зависимостями).
type HandlersContainer struct {
	AuthHandler      *auth_handler.AuthHandler
	BackendsHandler  *backends_handler.BackendsHandler
	EvaluatorHandler *evaluator_handler.EvaluatorHandler
	FilesHandler     *files_handler.FilesHandler
	BazarHandler     *bazar_handler.BazarHandler
	SystemHandler    *system_handler.SystemHandler
	UsersHandler     *users_handler.UsersHandler
	TerminalHandler  *terminal_handler.TerminalHandler
	HealthHandler    *health_handler.HealthHandler

	Broadcaster broadcast.Broadcaster
}

// NewHandlersContainer Конструктор контейнера с зависимостями для хендлеров.
func NewHandlersContainer(sess *session.Manager, statusCache health_storage.StatusCacheStorage, srvConfig *config.Config, broadcaster broadcast.Broadcaster, tokenBuilder auth.TokenBuilder) *HandlersContainer {
	authorizer := authz.NewAuthorizer(sess, srvConfig.SystemPrefix)

	client := magic.NewClient(sess)

	sqlService := magic.NewSqlService(client, srvConfig.SystemPrefix)
	evalService := magic.NewEvaluatorService(client, srvConfig.SystemPrefix)
	filesService := magic.NewFilesService(client, srvConfig.SystemPrefix)
	bazarService := magic.NewBazarService(client, srvConfig.SystemPrefix, srvConfig.ModulesPrefix, srvConfig.BazarURL)
	cacheService := magic.NewCacheService(client, srvConfig.SystemPrefix)
	logService := magic.NewLogService(client, srvConfig.SystemPrefix)
	configService := magic.NewConfigService(client, srvConfig.SystemPrefix)
	cryptoService := magic.NewCryptoService(client, srvConfig.SystemPrefix)
	diagService := magic.NewDiagnosticsService(client, srvConfig.SystemPrefix)
	usersService := magic.NewUsersService(client, srvConfig.SystemPrefix)

	// фабрика мостов сокетов: каждый мост привязан к активному на момент
	// создания бэкенду, но токен берёт всегда актуальный
	bridgeFactory := func(ctx context.Context) (magic.SocketBridge, error) {
		baseURL, _, ok := sess.Active()
		if !ok {
			return nil, errs.ErrNotConnected
		}

		return magic.NewSSESocket(client, baseURL, func() string {
			_, rawToken, _ := sess.Active()
			return rawToken
		})
	}

	authHandler := auth_handler.NewAuthHandler(sess, authorizer, tokenBuilder, srvConfig.JWTSecretKey)
	backendsHandler := backends_handler.NewBackendsHandler(sess)
	evaluatorHandler := evaluator_handler.NewEvaluatorHandler(sqlService, evalService, authorizer)
	filesHandler := files_handler.NewFilesHandler(filesService, authorizer)
	bazarHandler := bazar_handler.NewBazarHandler(bazarService, authorizer)
	systemHandler := system_handler.NewSystemHandler(cacheService, logService, configService, cryptoService, diagService, authorizer)
	usersHandler := users_handler.NewUsersHandler(usersService, authorizer)
	terminalHandler := terminal_handler.NewTerminalHandler(bridgeFactory, broadcaster, authorizer)
	healthHandler := health_handler.NewHealthHandler(statusCache)

	return &HandlersContainer{
		AuthHandler:      authHandler,
		BackendsHandler:  backendsHandler,
		EvaluatorHandler: evaluatorHandler,
		FilesHandler:     filesHandler,
		BazarHandler:     bazarHandler,
		SystemHandler:    systemHandler,
		UsersHandler:     usersHandler,
		TerminalHandler:  terminalHandler,
		HealthHandler:    healthHandler,
		Broadcaster:      broadcaster,
	}
}
