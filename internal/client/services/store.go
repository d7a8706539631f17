package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipebook/internal/client/models"
	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

// SessionStore persists the last known session record under one fixed key
// of a metadata.Repository, so it survives process restarts.
type SessionStore struct {
	repo   metadata.Repository
	key    string
	logger logging.Logger
}

func NewSessionStore(repo metadata.Repository, key string, logger logging.Logger) *SessionStore {
	return &SessionStore{repo: repo, key: key, logger: logger}
}

// Save overwrites the stored record unconditionally.
func (s *SessionStore) Save(ctx context.Context, rec models.SessionRecord) error {
	data, err := rec.Encode()
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}
	return s.repo.Set(ctx, s.key, data)
}

// Load returns the stored record. A missing key, a record that does not
// parse and a failing backend all read as "no session"; the last two are
// logged and never returned, so a bad record cannot block startup.
func (s *SessionStore) Load(ctx context.Context) (models.SessionRecord, bool) {
	data, err := s.repo.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn(ctx, "session record unreadable", "key", s.key, "error", err)
		return models.SessionRecord{}, false
	}
	if data == nil {
		return models.SessionRecord{}, false
	}

	rec, err := models.DecodeSessionRecord(data)
	if err != nil {
		if errors.Is(err, models.ErrCorruptRecord) {
			s.logger.Warn(ctx, "ignoring corrupt session record", "key", s.key, "error", err)
		}
		return models.SessionRecord{}, false
	}
	return rec, true
}

// Clear removes the stored record. Clearing an empty store is not an error.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, s.key)
}
