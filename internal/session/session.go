package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/devhire/backend/internal/cache"
	"github.com/devhire/backend/internal/domain"
	"github.com/google/uuid"
)

// Store keeps the cache-resident proof that a user is logged in. A
// refresh token is only honored while the entry exists, so deleting it
// (logout, admin deletion) revokes all future refreshes without a
// token blocklist.
type Store struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewStore(c cache.Cache, ttl time.Duration) *Store {
	return &Store{cache: c, ttl: ttl}
}

// Save writes the session snapshot with the canonical 7-day lifetime.
func (s *Store) Save(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, cache.SessionKey(user.ID), raw, s.ttl)
}

// Refresh rewrites the snapshot only while a session entry is live, so
// profile mutations never resurrect a logged-out session.
func (s *Store) Refresh(ctx context.Context, user *domain.User) error {
	if _, err := s.cache.Get(ctx, cache.SessionKey(user.ID)); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil
		}
		return err
	}
	return s.Save(ctx, user)
}

// Get returns the session snapshot, or ErrSessionExpired when absent.
func (s *Store) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	raw, err := s.cache.Get(ctx, cache.SessionKey(userID))
	if err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, domain.ErrSessionExpired
		}
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.cache.Del(ctx, cache.SessionKey(userID))
}
