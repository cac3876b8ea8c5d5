package router

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aista/magic-console/internal/auth"
	"github.com/aista/magic-console/internal/config"
	"github.com/aista/magic-console/internal/di_containers"
	"github.com/aista/magic-console/internal/middleware"
)

// Router Роутер.
func Router(h *di_containers.HandlersContainer, tokenBuilder auth.TokenBuilder, srvConfig *config.Config) chi.Router {
	router := chi.NewRouter()

	// middleware логгера всех запросов
	router.Use(middleware.LogMiddleware)

	if srvConfig.LocalDev {
		// фронтенд в локальной разработке живёт на другом порту
		router.Use(middleware.CorsMiddleware)
	}

	// публичные маршруты
	router.Get("/api/health", h.HealthHandler.GetHealth)
	router.Post("/api/console/login", h.AuthHandler.Login)
	router.Get("/api/console/session", h.AuthHandler.GetSession)
	router.Post("/api/users/register", h.UsersHandler.Register)

	// SSE-поток событий: аутентификация выполняется резольвером топиков
	router.Handle("/events", h.Broadcaster.HTTPHandler())

	// маршруты, требующие авторизацию
	router.Route("/api", func(r chi.Router) {

		// middleware для всех приватных маршрутов
		r.Use(middleware.LoginToContextMiddleware(srvConfig.JWTSecretKey, tokenBuilder))
		r.Use(middleware.RequireAuthMiddleware)

		r.Post("/console/logout", h.AuthHandler.Logout)

		// бэкенды
		r.Get("/backends", h.BackendsHandler.GetBackends)
		r.Post("/backends", h.BackendsHandler.AddBackend)
		r.Put("/backends", h.BackendsHandler.EditBackend)
		r.Delete("/backends", h.BackendsHandler.DelBackend)
		r.Post("/backends/activate", h.BackendsHandler.ActivateBackend)
		r.Get("/backends/statuses", h.HealthHandler.GetStatuses)

		// SQL-вычислитель
		r.Get("/sql/connection-strings", h.EvaluatorHandler.GetConnectionStrings)
		r.Get("/sql/databases", h.EvaluatorHandler.GetDatabases)
		r.Post("/sql/evaluate", h.EvaluatorHandler.EvaluateSQL)

		// Hyperlambda-вычислитель
		r.Get("/evaluator/vocabulary", h.EvaluatorHandler.GetVocabulary)
		r.Post("/evaluator/evaluate", h.EvaluatorHandler.EvaluateHyperlambda)

		// файловая система бэкенда
		r.Get("/files", h.FilesHandler.GetFiles)
		r.Get("/files/folders", h.FilesHandler.GetFolders)
		r.Get("/files/load", h.FilesHandler.LoadFile)
		r.Put("/files", h.FilesHandler.SaveFile)
		r.Delete("/files", h.FilesHandler.DelFile)
		r.Post("/files/rename", h.FilesHandler.Rename)
		r.Get("/files/download", h.FilesHandler.DownloadFile)
		r.Get("/files/download-folder", h.FilesHandler.DownloadFolder)
		r.Post("/folders", h.FilesHandler.AddFolder)
		r.Delete("/folders", h.FilesHandler.DelFolder)

		// маркетплейс
		r.Get("/bazar/apps", h.BazarHandler.GetApps)
		r.Post("/bazar/install", h.BazarHandler.InstallApp)
		r.Get("/bazar/manifests", h.BazarHandler.GetManifests)

		// серверный кэш
		r.Get("/cache", h.SystemHandler.GetCacheItems)
		r.Get("/cache/count", h.SystemHandler.GetCacheCount)
		r.Delete("/cache", h.SystemHandler.DelCacheItem)
		r.Delete("/cache/empty", h.SystemHandler.ClearCache)

		// серверный лог
		r.Get("/log", h.SystemHandler.GetLogItems)
		r.Get("/log/count", h.SystemHandler.GetLogCount)
		r.Get("/log/statistics", h.SystemHandler.GetLogStatistics)

		// конфигурация бэкенда
		r.Get("/config", h.SystemHandler.GetConfig)
		r.Post("/config", h.SystemHandler.SaveConfig)
		r.Get("/config/status", h.SystemHandler.GetSetupStatus)

		// криптография
		r.Get("/crypto/public-key", h.SystemHandler.GetServerPublicKey)
		r.Post("/crypto/generate-keypair", h.SystemHandler.GenerateServerKeyPair)
		r.Post("/crypto/import", h.SystemHandler.ImportPublicKey)
		r.Get("/crypto/public-keys", h.SystemHandler.GetPublicKeys)
		r.Delete("/crypto/public-keys", h.SystemHandler.DelPublicKey)
		r.Get("/crypto/receipts", h.SystemHandler.GetReceipts)

		// диагностика
		r.Get("/system-information", h.SystemHandler.GetSystemInformation)
		r.Get("/version", h.SystemHandler.GetVersion)
		r.Get("/assumptions", h.SystemHandler.GetAssumptions)
		r.Post("/assumptions/execute", h.SystemHandler.ExecuteAssumption)

		// пользователи и роли бэкенда
		r.Get("/users", h.UsersHandler.GetUsers)
		r.Post("/users", h.UsersHandler.AddUser)
		r.Delete("/users", h.UsersHandler.DelUser)
		r.Get("/roles", h.UsersHandler.GetRoles)
		r.Post("/roles", h.UsersHandler.AddRole)
		r.Delete("/roles", h.UsersHandler.DelRole)
		r.Post("/users/roles", h.UsersHandler.AddUserToRole)
		r.Delete("/users/roles", h.UsersHandler.DelUserFromRole)

		// терминал
		r.Post("/terminal/start", h.TerminalHandler.StartTerminal)
		r.Post("/terminal/command", h.TerminalHandler.Command)
		r.Post("/terminal/stop", h.TerminalHandler.StopTerminal)
	})

	// статика SPA: всё, что не API и не события - файлы фронтенда,
	// неизвестные пути отдают index.html (маршрутизация на стороне SPA)
	if srvConfig.WebInterface {
		router.NotFound(spaHandler(srvConfig.StaticDir))
	}

	return router
}

// Обработчик статики SPA с fallback на index.html.
func spaHandler(staticDir string) http.HandlerFunc {
	fs := http.FileServer(http.Dir(staticDir))

	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api") {
			http.NotFound(w, r)
			return
		}

		if r.URL.Path == "/" {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		// если файл существует - отдаём его, иначе index.html
		f, err := http.Dir(staticDir).Open(filepath.Clean(r.URL.Path))
		if err != nil {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}
		_ = f.Close()

		fs.ServeHTTP(w, r)
	}
}
