// Package api exposes the identity endpoint over HTTP: password signup and
// sign-in, in the request and response shapes the recipebook client speaks.
package api

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/identity/users"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

// Accounts is the part of users.Service the handlers need.
type Accounts interface {
	Signup(ctx context.Context, email, password string) (*users.Token, error)
	Login(ctx context.Context, email, password string) (*users.Token, error)
}

// API holds the dependencies needed by the handlers.
type API struct {
	accounts Accounts
	apiKey   string
	logger   logging.Logger
}

func New(accounts Accounts, apiKey string, logger logging.Logger) *API {
	return &API{accounts: accounts, apiKey: apiKey, logger: logger}
}

// Router returns a chi.Router with all routes mounted under /v1.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Route("/v1", func(r chi.Router) {
		r.Use(a.requireAPIKey)
		r.Post(common.SignUpPath, a.SignUp)
		r.Post(common.SignInWithPasswordPath, a.SignInWithPassword)
	})

	return r
}

func (a *API) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get(common.APIKeyQueryParam)
		if subtle.ConstantTimeCompare([]byte(key), []byte(a.apiKey)) != 1 {
			writeError(w, http.StatusBadRequest, common.CodeInvalidAPIKey)
			return
		}
		next.ServeHTTP(w, r)
	})
}
