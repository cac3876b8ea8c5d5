package authz

import (
	"github.com/aista/magic-console/internal/models"
	"github.com/aista/magic-console/internal/token"
)

//go:generate mockgen -destination=mocks/mock_session_state.go -package=mocks . SessionState

// SessionState Минимальный контракт состояния сессии, необходимый авторизатору.
// Интерфейс намеренно узкий, чтобы не тянуть в авторизатор весь менеджер сессий
// и избежать циклических зависимостей.
type SessionState interface {
	// ActiveToken Токен активного бэкенда или nil.
	ActiveToken() *token.Token
	// ActiveEndpoints Кэш метаданных эндпоинтов активного бэкенда.
	ActiveEndpoints() []models.Endpoint
}

// RootRole Роль с полным доступом к бэкенду.
const RootRole = "root"

// Authorizer Фасад запросов авторизации поверх состояния сессии.
// Собственного состояния не имеет - только зеркалит менеджер сессий.
type Authorizer struct {
	session      SessionState
	systemPrefix string
}

// NewAuthorizer Конструктор Authorizer.
func NewAuthorizer(session SessionState, systemPrefix string) *Authorizer {
	return &Authorizer{
		session:      session,
		systemPrefix: systemPrefix,
	}
}

// IsAuthenticated Есть ли у активного бэкенда действующий токен.
func (a *Authorizer) IsAuthenticated() bool {
	t := a.session.ActiveToken()
	return t != nil && !t.IsExpired()
}

// IsRoot Владеет ли текущий пользователь ролью root.
func (a *Authorizer) IsRoot() bool {
	return a.HasRole(RootRole)
}

// HasRole Владеет ли текущий пользователь ролью.
func (a *Authorizer) HasRole(role string) bool {
	t := a.session.ActiveToken()
	if t == nil || t.IsExpired() {
		return false
	}

	return t.HasRole(role)
}

// Роли текущего пользователя. Для истёкшего токена - пусто.
func (a *Authorizer) roles() []string {
	t := a.session.ActiveToken()
	if t == nil || t.IsExpired() {
		return nil
	}

	return t.Roles()
}

// CanInvoke Может ли текущий пользователь вызвать эндпоинт бэкенда.
func (a *Authorizer) CanInvoke(verb, path string) bool {
	return CanInvoke(a.roles(), a.session.ActiveEndpoints(), verb, path)
}

// HasComponentAccess Доступен ли пользователю компонент консоли целиком.
func (a *Authorizer) HasComponentAccess(componentPrefix string) bool {
	return HasComponentAccess(a.roles(), a.session.ActiveEndpoints(), componentPrefix)
}

// AccessRights Текущие права доступа пользователя.
func (a *Authorizer) AccessRights() AccessRights {
	return ComputeAccessRights(a.roles(), a.session.ActiveEndpoints(), a.systemPrefix)
}
