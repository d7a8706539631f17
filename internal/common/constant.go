// Package common contains constants and small helpers shared by the client
// shell and the local identity endpoint.
package common

const (
	// SessionStorageKey is the fixed key the persisted session record lives
	// under in every storage backend.
	SessionStorageKey = "userData"

	// APIKeyQueryParam carries the provider key on identity endpoint requests.
	APIKeyQueryParam = "key"

	// Identity endpoint operation paths, relative to the endpoint base URL.
	SignUpPath             = "/accounts:signUp"
	SignInWithPasswordPath = "/accounts:signInWithPassword"
)

// Error codes reported by the identity endpoint in error.message.
const (
	CodeEmailExists     = "EMAIL_EXISTS"
	CodeEmailNotFound   = "EMAIL_NOT_FOUND"
	CodeInvalidPassword = "INVALID_PASSWORD"
	CodeInvalidAPIKey   = "INVALID_API_KEY"
	CodeMissingEmail    = "MISSING_EMAIL"
	CodeMissingPassword = "MISSING_PASSWORD"
	CodeWeakPassword    = "WEAK_PASSWORD"
)
