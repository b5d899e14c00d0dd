package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"teamup-notifier/config"
)

var testCreds = config.Credentials{
	ClientID:     "client",
	ClientSecret: "secret",
	BotUsername:  "bot@example.com",
	BotPassword:  "pass",
}

func TestFetchSendsPasswordGrantForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/oauth2/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "password", r.PostForm.Get("grant_type"))
		assert.Equal(t, "client", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "bot@example.com", r.PostForm.Get("username"))
		assert.Equal(t, "pass", r.PostForm.Get("password"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer","expires_in":86400}`))
	}))
	defer srv.Close()

	grant := NewPasswordGrant(srv.URL, testCreds, srv.Client())
	token, expiresIn, err := grant.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.InDelta(t, float64(24*time.Hour), float64(expiresIn), float64(2*time.Second))
}

func TestFetchMapsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"bad password"}`))
	}))
	defer srv.Close()

	_, _, err := NewPasswordGrant(srv.URL, testCreds, srv.Client()).Fetch(context.Background())
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestFetchMapsRemoteMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"unsupported grant"}`))
	}))
	defer srv.Close()

	_, _, err := NewPasswordGrant(srv.URL, testCreds, srv.Client()).Fetch(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "unsupported grant", apiErr.Message)
	assert.Equal(t, "teamup error [400]: unsupported grant", apiErr.Error())
}

func TestFetchPassesThroughOtherErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	_, _, err := NewPasswordGrant(srv.URL, testCreds, srv.Client()).Fetch(context.Background())
	require.Error(t, err)

	var retrieveErr *oauth2.RetrieveError
	assert.True(t, errors.As(err, &retrieveErr))
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestFetchPassesThroughTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, _, err := NewPasswordGrant(url, testCreds, nil).Fetch(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestAPIMessage(t *testing.T) {
	assert.Equal(t, "nope", APIMessage([]byte(`{"message":" nope "}`)))
	assert.Empty(t, APIMessage([]byte(`not json`)))
	assert.Empty(t, APIMessage([]byte(`{"error":"x"}`)))
}
