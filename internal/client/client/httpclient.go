package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipebook/internal/common"
)

// maxBodySize bounds how much of a response is read.
const maxBodySize = 1 << 20

type credentialsRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type credentialsResponse struct {
	IDToken      string    `json:"idToken"`
	Email        string    `json:"email"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresIn    expiresIn `json:"expiresIn"`
	LocalID      string    `json:"localId"`
	Registered   bool      `json:"registered,omitempty"`
}

type errorResponse struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// expiresIn is sent as a decimal string of seconds; a bare number is
// accepted too.
type expiresIn int64

func (e *expiresIn) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid expiresIn %s: %w", b, err)
	}
	*e = expiresIn(n)
	return nil
}

// HTTPClient talks to the identity endpoint over HTTPS with JSON bodies.
type HTTPClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewHTTPClient returns a client for the endpoint rooted at baseURL (for
// example https://identitytoolkit.googleapis.com/v1). timeout bounds a
// whole request; zero means no limit.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Signup creates an account and returns its first token.
func (c *HTTPClient) Signup(ctx context.Context, email, password string) (*IdentityResponse, error) {
	return c.post(ctx, common.SignUpPath, email, password)
}

// Login exchanges email and password for a token.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*IdentityResponse, error) {
	return c.post(ctx, common.SignInWithPasswordPath, email, password)
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) endpoint(path string) string {
	q := url.Values{}
	q.Set(common.APIKeyQueryParam, c.apiKey)
	return c.baseURL + path + "?" + q.Encode()
}

func (c *HTTPClient) post(ctx context.Context, path, email, password string) (*IdentityResponse, error) {
	body, err := json.Marshal(credentialsRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.mapError(resp.StatusCode, data)
	}

	var cr credentialsResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return nil, &UnknownError{Raw: "malformed response: " + err.Error()}
	}
	if cr.IDToken == "" {
		return nil, &UnknownError{Raw: "response without idToken"}
	}
	if cr.ExpiresIn <= 0 {
		return nil, &UnknownError{Raw: "response without expiresIn"}
	}
	if int64(cr.ExpiresIn) > math.MaxInt64/int64(time.Second) {
		return nil, &UnknownError{Raw: "expiresIn out of range"}
	}

	return &IdentityResponse{
		IDToken:      cr.IDToken,
		Email:        cr.Email,
		RefreshToken: cr.RefreshToken,
		ExpiresIn:    time.Duration(cr.ExpiresIn) * time.Second,
		LocalID:      cr.LocalID,
		Registered:   cr.Registered,
	}, nil
}

func (c *HTTPClient) mapError(status int, data []byte) error {
	var er errorResponse
	if err := json.Unmarshal(data, &er); err != nil || er.Error == nil || er.Error.Message == "" {
		return &UnknownError{Raw: fmt.Sprintf("status %d", status)}
	}
	return classify(er.Error.Message)
}
