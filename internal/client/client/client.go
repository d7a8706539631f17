package client

import (
	"context"
	"time"
)

// Client is the contract for talking to the identity endpoint. Each call is
// a single request/response exchange; implementations never retry.
type Client interface {
	Signup(ctx context.Context, email, password string) (*IdentityResponse, error)
	Login(ctx context.Context, email, password string) (*IdentityResponse, error)
}

// IdentityResponse is a successful signup or login answer.
type IdentityResponse struct {
	IDToken      string
	Email        string
	RefreshToken string
	ExpiresIn    time.Duration
	LocalID      string
	Registered   bool
}
