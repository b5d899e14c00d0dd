package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const TOKEN_FILE = ".secrets/teamup_tokens.json"

// FileTokenStore сохраняет токен в JSON файле с теми же ключами, что и StaticData.
type FileTokenStore struct {
	Path string
}

type fileToken struct {
	Access    *string `json:"teamUpAccessToken"`
	ExpiresAt *int64  `json:"teamUpAccessTokenExpiresSeconds"`
}

func (store FileTokenStore) tokenPath() string {
	if strings.TrimSpace(store.Path) == "" {
		return TOKEN_FILE
	}
	return store.Path
}

// LoadToken загружает токен из JSON файла. Отсутствующий файл отдаётся как ошибка
// с os.ErrNotExist внутри.
func (store FileTokenStore) LoadToken(_ context.Context) (*Token, error) {
	path := store.tokenPath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load token: read file: %w", err)
	}

	var payload fileToken
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("load token: decode json: %w", err)
	}

	if payload.Access == nil || payload.ExpiresAt == nil {
		return nil, nil
	}

	return &Token{
		Access:    *payload.Access,
		ExpiresAt: *payload.ExpiresAt,
	}, nil
}

// SaveToken сохраняет токен в JSON файл, заменяя его целиком через rename.
func (store FileTokenStore) SaveToken(_ context.Context, token Token) error {
	path := store.tokenPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("save token: create dir: %w", err)
	}

	payload := fileToken{
		Access:    &token.Access,
		ExpiresAt: &token.ExpiresAt,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("save token: encode json: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("save token: write file: %w", err)
	}
	if err := os.Chmod(tmp, 0o600); err != nil {
		return fmt.Errorf("save token: chmod file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("save token: rename file: %w", err)
	}

	return nil
}
