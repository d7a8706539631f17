// Package users holds the accounts of the local identity endpoint and the
// signup and password sign-in operations on them.
package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/recipebook/internal/common"
	"github.com/dmitrijs2005/recipebook/internal/identity/auth"
	"github.com/dmitrijs2005/recipebook/internal/identity/config"
)

// MinPasswordLength is the shortest password signup accepts.
const MinPasswordLength = 6

// Errors returned by Service. Code gives the wire code for each.
var (
	ErrEmailExists     = errors.New(common.CodeEmailExists)
	ErrEmailNotFound   = errors.New(common.CodeEmailNotFound)
	ErrInvalidPassword = errors.New(common.CodeInvalidPassword)
	ErrMissingEmail    = errors.New(common.CodeMissingEmail)
	ErrMissingPassword = errors.New(common.CodeMissingPassword)
	ErrWeakPassword    = errors.New(common.CodeWeakPassword)
)

// Token is what a successful signup or sign-in hands back.
type Token struct {
	IDToken      string
	RefreshToken string
	ExpiresIn    time.Duration
	LocalID      string
	Email        string
}

type Service struct {
	repo          Repository
	clock         clockwork.Clock
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewService builds the account service. An empty cfg.SecretKey gets a
// random per-process secret, so tokens do not outlive a restart.
func NewService(repo Repository, clock clockwork.Clock, cfg *config.Config) *Service {
	secret := []byte(cfg.SecretKey)
	if len(secret) == 0 {
		secret = common.GenerateRandByteArray(32)
	}
	return &Service{
		repo:          repo,
		clock:         clock,
		jwtSecret:     secret,
		tokenValidity: cfg.TokenValidity,
	}
}

// Signup creates an account and signs it in.
func (s *Service) Signup(ctx context.Context, email, password string) (*Token, error) {
	email = strings.TrimSpace(email)
	if err := validate(email, password); err != nil {
		return nil, err
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := s.repo.Create(ctx, &User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(user)
}

// Login checks the password of an existing account.
func (s *Service) Login(ctx context.Context, email, password string) (*Token, error) {
	email = strings.TrimSpace(email)
	if err := validate(email, password); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrEmailNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	return s.issue(user)
}

func validate(email, password string) error {
	if email == "" {
		return ErrMissingEmail
	}
	if password == "" {
		return ErrMissingPassword
	}
	return nil
}

func (s *Service) issue(user *User) (*Token, error) {
	idToken, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.clock.Now(), s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("error signing token: %w", err)
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, fmt.Errorf("error generating refresh token: %w", err)
	}

	return &Token{
		IDToken:      idToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.tokenValidity,
		LocalID:      user.ID,
		Email:        user.Email,
	}, nil
}

// Code returns the wire error code for err, or "" when err is not one of
// the service's errors.
func Code(err error) string {
	for _, known := range []error{
		ErrEmailExists, ErrEmailNotFound, ErrInvalidPassword,
		ErrMissingEmail, ErrMissingPassword, ErrWeakPassword,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return ""
}
