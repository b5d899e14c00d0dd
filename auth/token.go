package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"teamup-notifier/config"
)

const tokenPath = "/oauth2/token"

// ErrInvalidCredentials возвращается, когда OAuth сервер TeamUp ответил 401.
var ErrInvalidCredentials = errors.New("teamup account or oauth client credentials are invalid")

// APIError описывает ответ TeamUp с кодом статуса и сообщением об ошибке.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("teamup error [%d]: %s", e.StatusCode, e.Message)
}

// APIMessage достаёт поле message из JSON тела ошибки TeamUp.
func APIMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

// PasswordGrant получает токены TeamUp через OAuth2 password grant.
type PasswordGrant struct {
	oauth      oauth2.Config
	username   string
	password   string
	httpClient *http.Client
}

// NewPasswordGrant собирает PasswordGrant для сервера авторизации authURL.
// Пустой httpClient означает http.DefaultClient.
func NewPasswordGrant(authURL string, creds config.Credentials, httpClient *http.Client) *PasswordGrant {
	return &PasswordGrant{
		oauth: oauth2.Config{
			ClientID:     strings.TrimSpace(creds.ClientID),
			ClientSecret: strings.TrimSpace(creds.ClientSecret),
			Endpoint: oauth2.Endpoint{
				TokenURL:  strings.TrimRight(authURL, "/") + tokenPath,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		username:   creds.BotUsername,
		password:   creds.BotPassword,
		httpClient: httpClient,
	}
}

// Fetch запрашивает новый токен доступа и возвращает его вместе со сроком жизни.
func (g *PasswordGrant) Fetch(ctx context.Context) (accessToken string, expiresIn time.Duration, err error) {
	if g.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)
	}

	tok, err := g.oauth.PasswordCredentialsToken(ctx, g.username, g.password)
	if err != nil {
		return "", 0, classify(err)
	}

	switch {
	case tok.ExpiresIn > 0:
		expiresIn = time.Duration(tok.ExpiresIn) * time.Second
	case !tok.Expiry.IsZero():
		expiresIn = time.Until(tok.Expiry).Round(time.Second)
	}

	return tok.AccessToken, expiresIn, nil
}

func classify(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if !errors.As(err, &retrieveErr) || retrieveErr.Response == nil {
		return err
	}

	status := retrieveErr.Response.StatusCode
	if status == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	if msg := APIMessage(retrieveErr.Body); msg != "" {
		return &APIError{StatusCode: status, Message: msg}
	}

	return err
}
