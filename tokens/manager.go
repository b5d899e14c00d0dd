package tokens

import (
	"context"
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	"teamup-notifier/logging"
)

// TokenFetcher запрашивает новый токен доступа.
type TokenFetcher func(ctx context.Context) (accessToken string, expiresIn time.Duration, err error)

// Manager выдаёт токен TeamUp и лениво обновляет его, когда кэш пуст или истёк.
// Одновременные обновления не координируются: последняя запись побеждает.
type Manager struct {
	store    TokenStore
	getToken TokenFetcher
	now      func() time.Time
}

// NewManager создаёт менеджер токенов поверх store.
func NewManager(store TokenStore, getToken TokenFetcher) *Manager {
	return &Manager{
		store:    store,
		getToken: getToken,
		now:      time.Now,
	}
}

// IsExpired сообщает, нужен ли новый токен: его нет или срок истёк строго раньше текущей секунды.
func (manager *Manager) IsExpired(ctx context.Context) (bool, error) {
	token, err := manager.load(ctx)
	if err != nil {
		return false, err
	}
	return manager.expired(token), nil
}

// Get возвращает токен доступа, обновляя его при необходимости.
func (manager *Manager) Get(ctx context.Context) (string, error) {
	token, err := manager.Token(ctx)
	if err != nil {
		return "", err
	}
	return token.Access, nil
}

// Token возвращает действующий токен вместе со сроком истечения.
func (manager *Manager) Token(ctx context.Context) (Token, error) {
	if err := ctx.Err(); err != nil {
		return Token{}, err
	}

	token, err := manager.load(ctx)
	if err != nil {
		return Token{}, err
	}

	if !manager.expired(token) {
		return *token, nil
	}

	logging.L.Debug("teamup token expired, requesting a new one")

	if err := ctx.Err(); err != nil {
		return Token{}, err
	}

	accessToken, expiresIn, err := manager.getToken(ctx)
	if err != nil {
		return Token{}, err
	}

	newToken := Token{
		Access:    accessToken,
		ExpiresAt: manager.now().Unix() + int64(expiresIn/time.Second),
	}

	if err := manager.store.SaveToken(ctx, newToken); err != nil {
		return Token{}, err
	}

	logging.L.Info("teamup token refreshed", zap.Time("expires_at", time.Unix(newToken.ExpiresAt, 0)))

	return newToken, nil
}

func (manager *Manager) load(ctx context.Context) (*Token, error) {
	token, err := manager.store.LoadToken(ctx)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, nil
	}
	return token, nil
}

func (manager *Manager) expired(token *Token) bool {
	if token == nil {
		return true
	}
	return token.ExpiresAt < manager.now().Unix()
}
