package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// Cache is the key-value contract the services depend on. The
// production implementation is Redis; tests may substitute doubles.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores the value; a zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// Key namespaces. Sessions and cached profiles share the user id but
// never the same key, so a profile write cannot clobber a session.
func SessionKey(userID uuid.UUID) string  { return "session:" + userID.String() }
func UserKey(userID uuid.UUID) string     { return "user:" + userID.String() }
func JobOfferKey(id uuid.UUID) string     { return "joboffer:" + id.String() }
func AllJobOffersKey() string             { return "joboffers:all" }
