package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
)

// StaticData — общий key-value мешок хоста, переживающий отдельные запуски.
type StaticData map[string]any

// BagStore хранит токен в StaticData под ключами KeyAccessToken и KeyExpiresSeconds.
type BagStore struct {
	Data StaticData
}

// NewBagStore создаёт BagStore поверх data; nil означает новый пустой мешок.
func NewBagStore(data StaticData) *BagStore {
	if data == nil {
		data = StaticData{}
	}
	return &BagStore{Data: data}
}

// LoadToken читает токен из мешка.
func (s *BagStore) LoadToken(_ context.Context) (*Token, error) {
	rawAccess, okAccess := s.Data[KeyAccessToken]
	rawExpires, okExpires := s.Data[KeyExpiresSeconds]
	if !okAccess || !okExpires {
		return nil, nil
	}

	access, ok := rawAccess.(string)
	if !ok {
		return nil, fmt.Errorf("load token: %s has type %T", KeyAccessToken, rawAccess)
	}

	expiresAt, err := toSeconds(rawExpires)
	if err != nil {
		return nil, fmt.Errorf("load token: %s: %w", KeyExpiresSeconds, err)
	}

	return &Token{Access: access, ExpiresAt: expiresAt}, nil
}

// SaveToken записывает оба ключа мешка.
func (s *BagStore) SaveToken(_ context.Context, token Token) error {
	s.Data[KeyAccessToken] = token.Access
	s.Data[KeyExpiresSeconds] = token.ExpiresAt
	return nil
}

func toSeconds(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case float64:
		return int64(math.Floor(n)), nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
