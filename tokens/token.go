package tokens

import "context"

// Ключи общего хранилища, под которыми лежит кэшированный токен.
const (
	KeyAccessToken    = "teamUpAccessToken"
	KeyExpiresSeconds = "teamUpAccessTokenExpiresSeconds"
)

// Token описывает кэшированный токен доступа TeamUp.
type Token struct {
	Access string
	// ExpiresAt — абсолютный момент истечения в секундах Unix.
	ExpiresAt int64
}

// TokenStore описывает хранилище токена. LoadToken возвращает nil, если токена нет.
// SaveToken перезаписывает значение и срок действия целиком.
type TokenStore interface {
	LoadToken(ctx context.Context) (*Token, error)
	SaveToken(ctx context.Context, token Token) error
}
