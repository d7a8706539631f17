// Package models defines the client-side session value and its persisted form.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrCorruptRecord is returned by DecodeSessionRecord when the stored bytes
// are not a usable session record.
var ErrCorruptRecord = errors.New("corrupt session record")

// Session is the credential of an authenticated user and its validity window.
//
// Session is an immutable value: construct it with NewSession or
// SessionFromRecord and never modify it afterwards. A Session without a token
// is equivalent to having no session at all.
type Session struct {
	email     string
	userID    string
	token     string
	expiresAt time.Time
}

// NewSession builds a session that expires expiresIn after now.
func NewSession(now time.Time, expiresIn time.Duration, email, userID, token string) Session {
	return Session{
		email:     email,
		userID:    userID,
		token:     token,
		expiresAt: now.Add(expiresIn),
	}
}

func (s Session) Email() string        { return s.email }
func (s Session) UserID() string       { return s.userID }
func (s Session) ExpiresAt() time.Time { return s.expiresAt }

// IsZero reports whether s is the empty session.
func (s Session) IsZero() bool {
	return s.email == "" && s.userID == "" && s.token == "" && s.expiresAt.IsZero()
}

// ValidAt reports whether the session carries a token and now is strictly
// before its expiry. This is the only place liveness is decided.
func (s Session) ValidAt(now time.Time) bool {
	return s.token != "" && now.Before(s.expiresAt)
}

// Token returns the bearer token while the session is valid at now.
func (s Session) Token(now time.Time) (string, bool) {
	if !s.ValidAt(now) {
		return "", false
	}
	return s.token, true
}

// Remaining is how long the session stays valid after now; zero once expired.
func (s Session) Remaining(now time.Time) time.Duration {
	if !s.ValidAt(now) {
		return 0
	}
	return s.expiresAt.Sub(now)
}

// Record returns the persisted form of s.
func (s Session) Record() SessionRecord {
	return SessionRecord{
		Email:     s.email,
		ID:        s.userID,
		Token:     s.token,
		ExpiresAt: s.expiresAt,
	}
}

// SessionRecord is what gets written to durable storage. The JSON field
// names keep records written by earlier clients readable.
type SessionRecord struct {
	Email     string    `json:"email"`
	ID        string    `json:"id"`
	Token     string    `json:"_token"`
	ExpiresAt time.Time `json:"_tokenExpirationDate"`
}

// Session rebuilds the session value a record was taken from.
func (r SessionRecord) Session() Session {
	return Session{
		email:     r.Email,
		userID:    r.ID,
		token:     r.Token,
		expiresAt: r.ExpiresAt,
	}
}

// Encode serialises the record for storage.
func (r SessionRecord) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeSessionRecord parses bytes written by Encode. Anything that does not
// parse, or parses without an expiry, yields ErrCorruptRecord.
func DecodeSessionRecord(data []byte) (SessionRecord, error) {
	var r SessionRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return SessionRecord{}, fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if r.ExpiresAt.IsZero() {
		return SessionRecord{}, fmt.Errorf("%w: missing expiration date", ErrCorruptRecord)
	}
	return r, nil
}
