package models

// Endpoint Метаданные одного эндпоинта, сообщаемые бэкендом.
// Auth == nil или пустой срез - эндпоинт публичный.
// Auth == ["*"] - доступен любому аутентифицированному пользователю.
// Иначе Auth перечисляет роли, которым разрешён вызов.
type Endpoint struct {
	Path string   `json:"path"`
	Verb string   `json:"verb"`
	Auth []string `json:"auth"`
}

// IsPublic Эндпоинт не требует аутентификации.
func (e Endpoint) IsPublic() bool {
	return len(e.Auth) == 0
}

// AnyAuthenticated Эндпоинт доступен любому аутентифицированному пользователю.
func (e Endpoint) AnyAuthenticated() bool {
	return len(e.Auth) == 1 && e.Auth[0] == "*"
}
