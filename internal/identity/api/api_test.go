package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipebook/internal/client/client"
	"github.com/dmitrijs2005/recipebook/internal/identity/auth"
	"github.com/dmitrijs2005/recipebook/internal/identity/config"
	"github.com/dmitrijs2005/recipebook/internal/identity/users"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

const testKey = "test-key"

func newServer(t *testing.T, accounts Accounts) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(accounts, testKey, logging.Discard()).Router())
	t.Cleanup(srv.Close)
	return srv
}

func newAccounts() (*users.Service, *config.Config) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return users.NewService(users.NewMemoryRepository(), clockwork.NewRealClock(), cfg), cfg
}

func TestIdentityClientAgainstEndpoint(t *testing.T) {
	ctx := context.Background()
	accounts, cfg := newAccounts()
	srv := newServer(t, accounts)
	c := client.NewHTTPClient(srv.URL+"/v1", testKey, 5*time.Second)
	defer c.Close()

	signed, err := c.Signup(ctx, "ann@example.org", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.org", signed.Email)
	assert.Equal(t, time.Hour, signed.ExpiresIn)
	assert.NotEmpty(t, signed.LocalID)
	assert.NotEmpty(t, signed.RefreshToken)
	assert.False(t, signed.Registered)

	claims, err := auth.ParseToken(signed.IDToken, []byte(cfg.SecretKey))
	require.NoError(t, err)
	assert.Equal(t, signed.LocalID, claims.Subject)

	logged, err := c.Login(ctx, "ann@example.org", "secret1")
	require.NoError(t, err)
	assert.Equal(t, signed.LocalID, logged.LocalID)
	assert.True(t, logged.Registered)

	_, err = c.Signup(ctx, "ann@example.org", "secret2")
	assert.ErrorIs(t, err, client.ErrEmailExists)

	_, err = c.Login(ctx, "ann@example.org", "wrong-password")
	assert.ErrorIs(t, err, client.ErrInvalidPassword)

	_, err = c.Login(ctx, "bob@example.org", "secret1")
	assert.ErrorIs(t, err, client.ErrEmailNotFound)

	_, err = c.Signup(ctx, "bob@example.org", "123")
	var unknown *client.UnknownError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "WEAK_PASSWORD", unknown.Raw)
}

func TestWrongAPIKey(t *testing.T) {
	accounts, _ := newAccounts()
	srv := newServer(t, accounts)
	c := client.NewHTTPClient(srv.URL+"/v1", "other-key", 5*time.Second)

	_, err := c.Login(context.Background(), "ann@example.org", "secret1")
	require.ErrorIs(t, err, client.ErrUnknown)
	var unknown *client.UnknownError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "INVALID_API_KEY", unknown.Raw)
}

type brokenAccounts struct{}

func (brokenAccounts) Signup(context.Context, string, string) (*users.Token, error) {
	return nil, errors.New("disk full")
}

func (brokenAccounts) Login(context.Context, string, string) (*users.Token, error) {
	return nil, errors.New("disk full")
}

func TestInternalError(t *testing.T) {
	srv := newServer(t, brokenAccounts{})

	resp, err := http.Post(srv.URL+"/v1/accounts:signUp?key="+testKey, "application/json",
		strings.NewReader(`{"email":"a@b.c","password":"secret1","returnSecureToken":true}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestBadRequests(t *testing.T) {
	accounts, _ := newAccounts()
	srv := newServer(t, accounts)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"invalid json", http.MethodPost, "/v1/accounts:signUp?key=" + testKey, "{", http.StatusBadRequest},
		{"missing key", http.MethodPost, "/v1/accounts:signInWithPassword", "{}", http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/v1/accounts:signUp?key=" + testKey, "", http.StatusMethodNotAllowed},
		{"unknown path", http.MethodPost, "/v1/accounts:delete?key=" + testKey, "{}", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
