package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/recipebook/internal/identity/users"
)

const maxRequestBody = 64 << 10

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type credentialsResponse struct {
	Kind         string `json:"kind"`
	IDToken      string `json:"idToken"`
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Registered   *bool  `json:"registered,omitempty"`
}

// SignUp handles POST /v1/accounts:signUp.
func (a *API) SignUp(w http.ResponseWriter, r *http.Request) {
	a.handleCredentials(w, r, "signup", a.accounts.Signup, "identitytoolkit#SignupNewUserResponse", false)
}

// SignInWithPassword handles POST /v1/accounts:signInWithPassword.
func (a *API) SignInWithPassword(w http.ResponseWriter, r *http.Request) {
	a.handleCredentials(w, r, "login", a.accounts.Login, "identitytoolkit#VerifyPasswordResponse", true)
}

type credentialsFunc func(ctx context.Context, email, password string) (*users.Token, error)

func (a *API) handleCredentials(w http.ResponseWriter, r *http.Request, op string, fn credentialsFunc, kind string, registered bool) {
	ctx := r.Context()

	var req credentialsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON")
		return
	}

	token, err := fn(ctx, req.Email, req.Password)
	if err != nil {
		if code := users.Code(err); code != "" {
			a.logger.Info(ctx, op+" rejected", "email", req.Email, "code", code)
			writeError(w, http.StatusBadRequest, code)
			return
		}
		a.logger.Error(ctx, op+" failed", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR")
		return
	}

	a.logger.Info(ctx, op+" succeeded", "email", token.Email, "local_id", token.LocalID)

	resp := credentialsResponse{
		Kind:         kind,
		IDToken:      token.IDToken,
		Email:        token.Email,
		RefreshToken: token.RefreshToken,
		ExpiresIn:    strconv.FormatInt(int64(token.ExpiresIn.Seconds()), 10),
		LocalID:      token.LocalID,
	}
	if registered {
		resp.Registered = &registered
	}
	writeJSON(w, http.StatusOK, resp)
}
