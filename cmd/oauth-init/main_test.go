package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"smartbudget/internal/config"
)

func TestCallbackHandler(t *testing.T) {
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	h := callbackHandler("s1", codeCh, errCh)

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/callback?state=other&code=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, codeCh)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s1&code=abc", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", <-codeCh)

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/callback?error=access_denied", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.ErrorContains(t, <-errCh, "access_denied")
}

func TestClientCredentials(t *testing.T) {
	_, err := clientCredentials(&config.Config{})
	assert.ErrorContains(t, err, config.KeyOAuthClientJSON)

	b, err := clientCredentials(&config.Config{GoogleOAuthClientJSON: ` {"installed":{}} `})
	require.NoError(t, err)
	assert.Equal(t, `{"installed":{}}`, string(b))

	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"web":{}}`), 0o600))
	b, err = clientCredentials(&config.Config{GoogleOAuthClientFile: path})
	require.NoError(t, err)
	assert.Equal(t, `{"web":{}}`, string(b))
}

func TestSaveToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, saveToken(path, &oauth2.Token{AccessToken: "at", TokenType: "Bearer"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var tok oauth2.Token
	require.NoError(t, json.Unmarshal(raw, &tok))
	assert.Equal(t, "at", tok.AccessToken)
}
