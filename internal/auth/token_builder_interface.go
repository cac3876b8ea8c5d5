package auth

//go:generate mockgen -destination=mocks/mock_token_builder.go -package=mocks . TokenBuilder

// TokenBuilder Интерфейс для создания и парсинга JWT-токенов консоли.
type TokenBuilder interface {
	BuildJWTToken(login, JWTSecretKey string) (string, error)
	GetClaims(tokenString, JWTSecretKey string) (*Claims, error)
}
