package teamup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"teamup-notifier/auth"
	"teamup-notifier/logging"
)

// TokenSource выдаёт bearer токен для очередного запроса.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
}

// Client выполняет авторизованные запросы к REST API TeamUp.
type Client struct {
	tokens     TokenSource
	httpClient *http.Client
	authURL    string
	edgeURL    string
}

// NewClient собирает Client. Пустой httpClient означает http.DefaultClient.
func NewClient(tokens TokenSource, httpClient *http.Client, authURL, edgeURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		tokens:     tokens,
		httpClient: httpClient,
		authURL:    strings.TrimRight(authURL, "/"),
		edgeURL:    strings.TrimRight(edgeURL, "/"),
	}
}

// Request отправляет один запрос с заголовком Authorization: bearer <token> и
// декодирует JSON ответ в out (если out не nil). Повторов нет.
func (c *Client) Request(ctx context.Context, method, endpoint string, body any, query url.Values, out any) error {
	token, err := c.tokens.Get(ctx)
	if err != nil {
		return err
	}

	if len(query) > 0 {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("teamup: encode body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("teamup: create request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+token)
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("teamup: read response: %w", err)
	}

	logging.L.Debug("teamup request",
		zap.String("method", method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := auth.APIMessage(data)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &auth.APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("teamup: decode response: %w", err)
	}

	return nil
}
