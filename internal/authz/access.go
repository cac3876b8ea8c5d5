package authz

import (
	"strings"

	"github.com/aista/magic-console/internal/models"
)

// AccessRights Права доступа текущего пользователя, сгруппированные по
// функциональным областям консоли. Каждый флаг вычисляется пересечением ролей
// пользователя с метаданными эндпоинтов, которые сообщил бэкенд.
// Структура всегда присутствует: нулевое значение означает "доступа нет".
// Никогда не сохраняется - всегда выводима заново.
type AccessRights struct {
	Sql      SqlAccess      `json:"sql"`
	Crud     CrudAccess     `json:"crud"`
	Files    FilesAccess    `json:"files"`
	Bazar    BazarAccess    `json:"bazar"`
	Auth     AuthAccess     `json:"auth"`
	Cache    CacheAccess    `json:"cache"`
	Crypto   CryptoAccess   `json:"crypto"`
	Log      LogAccess      `json:"log"`
	Config   ConfigAccess   `json:"config"`
	Eval     EvalAccess     `json:"eval"`
	Terminal TerminalAccess `json:"terminal"`
}

type SqlAccess struct {
	Execute               bool `json:"execute"`
	ListConnectionStrings bool `json:"list_connection_strings"`
	ListDatabases         bool `json:"list_databases"`
	SaveFile              bool `json:"save_file"`
}

type CrudAccess struct {
	GenerateCrud     bool `json:"generate_crud"`
	GenerateSql      bool `json:"generate_sql"`
	GenerateFrontend bool `json:"generate_frontend"`
}

type FilesAccess struct {
	ListFiles    bool `json:"list_files"`
	ListFolders  bool `json:"list_folders"`
	LoadFile     bool `json:"load_file"`
	SaveFile     bool `json:"save_file"`
	DeleteFile   bool `json:"delete_file"`
	CreateFolder bool `json:"create_folder"`
	DeleteFolder bool `json:"delete_folder"`
	Rename       bool `json:"rename"`
	Download     bool `json:"download"`
}

type BazarAccess struct {
	DownloadFromBazar bool `json:"download_from_bazar"`
	DownloadFromURL   bool `json:"download_from_url"`
	GetManifests      bool `json:"get_manifests"`
}

type AuthAccess struct {
	ViewUsers          bool `json:"view_users"`
	CreateUser         bool `json:"create_user"`
	UpdateUser         bool `json:"update_user"`
	DeleteUser         bool `json:"delete_user"`
	ViewRoles          bool `json:"view_roles"`
	CreateRole         bool `json:"create_role"`
	UpdateRole         bool `json:"update_role"`
	DeleteRole         bool `json:"delete_role"`
	AllowImpersonation bool `json:"allow_impersonation"`
}

type CacheAccess struct {
	Read   bool `json:"read"`
	Count  bool `json:"count"`
	Delete bool `json:"delete"`
	Clear  bool `json:"clear"`
}

type CryptoAccess struct {
	CreateServerKeyPair bool `json:"create_server_key_pair"`
	ReadServerPublicKey bool `json:"read_server_public_key"`
	ImportPublicKey     bool `json:"import_public_key"`
	ListPublicKeys      bool `json:"list_public_keys"`
	ListReceipts        bool `json:"list_receipts"`
}

type LogAccess struct {
	Read       bool `json:"read"`
	Count      bool `json:"count"`
	Statistics bool `json:"statistics"`
}

type ConfigAccess struct {
	Load bool `json:"load"`
	Save bool `json:"save"`
}

type EvalAccess struct {
	Execute    bool `json:"execute"`
	Vocabulary bool `json:"vocabulary"`
}

type TerminalAccess struct {
	Start   bool `json:"start"`
	Command bool `json:"command"`
	Stop    bool `json:"stop"`
}

// ComputeAccessRights Чистая функция вычисления прав доступа из ролей
// пользователя и метаданных эндпоинтов. Пустой (или nil) список эндпоинтов
// безопасен и даёт нулевое значение - все флаги false.
// systemPrefix - префикс системных эндпоинтов бэкенда (конфигурация).
func ComputeAccessRights(roles []string, endpoints []models.Endpoint, systemPrefix string) AccessRights {
	can := func(verb, path string) bool {
		return CanInvoke(roles, endpoints, verb, systemPrefix+path)
	}

	return AccessRights{
		Sql: SqlAccess{
			Execute:               can("post", "/sql/evaluate"),
			ListConnectionStrings: can("get", "/sql/connection-strings"),
			ListDatabases:         can("get", "/sql/databases"),
			SaveFile:              can("put", "/sql/save-file"),
		},
		Crud: CrudAccess{
			GenerateCrud:     can("post", "/crudifier/crudify"),
			GenerateSql:      can("post", "/crudifier/custom-sql"),
			GenerateFrontend: can("post", "/crudifier/generate-frontend"),
		},
		Files: FilesAccess{
			ListFiles:    can("get", "/file-system/list-files"),
			ListFolders:  can("get", "/file-system/list-folders"),
			LoadFile:     can("get", "/file-system/file"),
			SaveFile:     can("put", "/file-system/file"),
			DeleteFile:   can("delete", "/file-system/file"),
			CreateFolder: can("put", "/file-system/folder"),
			DeleteFolder: can("delete", "/file-system/folder"),
			Rename:       can("post", "/file-system/rename"),
			Download:     can("get", "/file-system/download"),
		},
		Bazar: BazarAccess{
			DownloadFromBazar: can("post", "/bazar/download-from-bazar"),
			DownloadFromURL:   can("post", "/bazar/download-from-url"),
			GetManifests:      can("get", "/bazar/app-manifests"),
		},
		Auth: AuthAccess{
			ViewUsers:          can("get", "/auth/users"),
			CreateUser:         can("post", "/auth/users"),
			UpdateUser:         can("put", "/auth/users"),
			DeleteUser:         can("delete", "/auth/users"),
			ViewRoles:          can("get", "/auth/roles"),
			CreateRole:         can("post", "/auth/roles"),
			UpdateRole:         can("put", "/auth/roles"),
			DeleteRole:         can("delete", "/auth/roles"),
			AllowImpersonation: can("get", "/auth/impersonate"),
		},
		Cache: CacheAccess{
			Read:   can("get", "/cache/list"),
			Count:  can("get", "/cache/count"),
			Delete: can("delete", "/cache/delete"),
			Clear:  can("delete", "/cache/empty"),
		},
		Crypto: CryptoAccess{
			CreateServerKeyPair: can("post", "/crypto/generate-keypair"),
			ReadServerPublicKey: can("get", "/crypto/public-key"),
			ImportPublicKey:     can("post", "/crypto/import"),
			ListPublicKeys:      can("get", "/crypto/public-keys"),
			ListReceipts:        can("get", "/crypto/invocations"),
		},
		Log: LogAccess{
			Read:       can("get", "/log/list"),
			Count:      can("get", "/log/count"),
			Statistics: can("get", "/log/statistics"),
		},
		Config: ConfigAccess{
			Load: can("get", "/config/load"),
			Save: can("post", "/config/save"),
		},
		Eval: EvalAccess{
			Execute:    can("post", "/evaluator/evaluate"),
			Vocabulary: can("get", "/evaluator/vocabulary"),
		},
		Terminal: TerminalAccess{
			Start:   can("socket", "/terminal/start"),
			Command: can("socket", "/terminal/command"),
			Stop:    can("socket", "/terminal/stop"),
		},
	}
}

// CanInvoke Может ли пользователь с данными ролями вызвать эндпоинт.
// Правила:
//   - эндпоинт не найден в метаданных - false (а не ошибка);
//   - эндпоинт публичный (ролей не требует) - true;
//   - эндпоинт требует "любого аутентифицированного" (`*`) - true при
//     непустом наборе ролей;
//   - иначе true, если набор ролей пересекается с требуемыми.
func CanInvoke(roles []string, endpoints []models.Endpoint, verb, path string) bool {
	for _, ep := range endpoints {
		if ep.Path != path || !strings.EqualFold(ep.Verb, verb) {
			continue
		}

		if ep.IsPublic() {
			return true
		}

		if ep.AnyAuthenticated() {
			return len(roles) > 0
		}

		for _, required := range ep.Auth {
			for _, role := range roles {
				if role == required {
					return true
				}
			}
		}

		return false
	}

	return false
}

// HasComponentAccess Есть ли у пользователя доступ ко всем известным
// эндпоинтам, путь которых содержит префикс. Пустое множество совпадений
// трактуется как отсутствие доступа, а не как доступ.
func HasComponentAccess(roles []string, endpoints []models.Endpoint, componentPrefix string) bool {
	matched := 0

	for _, ep := range endpoints {
		if !strings.Contains(ep.Path, componentPrefix) {
			continue
		}

		matched++

		if !CanInvoke(roles, endpoints, ep.Verb, ep.Path) {
			return false
		}
	}

	return matched > 0
}
