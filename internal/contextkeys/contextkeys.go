package contextkeys

// Тип для ключей контекста, чтобы избежать коллизий с другими пакетами.
type contextKey string

const (
	// Session Ключ, под которым в контексте запроса лежит идентификатор консольной сессии.
	Session contextKey = "session"
	// Login Ключ, под которым в контексте запроса лежит логин пользователя на бэкенде.
	Login contextKey = "login"
	// BackendURL Ключ, под которым в контексте запроса лежит URL активного бэкенда.
	BackendURL contextKey = "backend_url"
)
